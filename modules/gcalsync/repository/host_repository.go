package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"gcal-sync/core/database"
	"gcal-sync/core/logger"
	"gcal-sync/modules/gcalsync/entity"
	"gcal-sync/modules/gcalsync/mapper"

	"github.com/lib/pq"
)

// HostRepository reads and narrowly updates the host-owned users and bookings
// tables. Table and column names come from the per-request configuration;
// identifiers are quoted, values parameterized. Rows are never inserted or
// deleted here.
type HostRepository interface {
	GetUserByID(ctx context.Context, table string, fields mapper.UserFields, id int64) (*entity.HostUser, error)
	GetBookingByID(ctx context.Context, table string, fields mapper.BookingFields, id int64) (*entity.Booking, error)
	UpdateBookingEvent(ctx context.Context, table string, fields mapper.BookingFields, id int64, eventID, meetLink string) error
	SaveUserTokens(ctx context.Context, table string, fields mapper.UserFields, userID int64, refreshToken, calendarID string) error
}

type hostRepository struct {
	db database.IDatabase
}

func NewHostRepository(db database.IDatabase) HostRepository {
	return &hostRepository{db: db}
}

// selectColumn projects a mapped column under its logical alias, or NULL when
// the column is unmapped so entity scanning stays uniform.
func selectColumn(physical, logical string) string {
	if physical == "" {
		return "NULL AS " + pq.QuoteIdentifier(logical)
	}
	return pq.QuoteIdentifier(physical) + " AS " + pq.QuoteIdentifier(logical)
}

func buildUserSelect(table string, f mapper.UserFields) string {
	cols := []string{
		"id AS " + pq.QuoteIdentifier("id"),
		selectColumn(f.RefreshToken, "refresh_token"),
		selectColumn(f.CalendarID, "calendar_id"),
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = $1",
		strings.Join(cols, ", "), pq.QuoteIdentifier(table))
}

func buildBookingSelect(table string, f mapper.BookingFields) string {
	cols := []string{
		selectColumn(f.ID, "id"),
		selectColumn(f.HostUserID, "host_user_id"),
		selectColumn(f.GuestName, "guest_name"),
		selectColumn(f.GuestEmail, "guest_email"),
		selectColumn(f.GuestEmail2, "guest_email2"),
		selectColumn(f.GuestEmail3, "guest_email3"),
		selectColumn(f.GuestEmail4, "guest_email4"),
		selectColumn(f.StartTime, "start_time"),
		selectColumn(f.EndTime, "end_time"),
		selectColumn(f.Status, "status"),
		selectColumn(f.GoogleEventID, "google_event_id"),
		selectColumn(f.MeetingLink, "meeting_link"),
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1",
		strings.Join(cols, ", "), pq.QuoteIdentifier(table), pq.QuoteIdentifier(f.ID))
}

// GetUserByID loads a host user. Returns nil when no row matches.
func (r *hostRepository) GetUserByID(ctx context.Context, table string, fields mapper.UserFields, id int64) (*entity.HostUser, error) {
	var user entity.HostUser
	err := r.db.GetContext(ctx, &user, buildUserSelect(table, fields), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("HostRepository:GetUserByID:Error", "error", err, "user_id", id)
		return nil, err
	}
	return &user, nil
}

// GetBookingByID loads a booking. Returns nil when no row matches.
func (r *hostRepository) GetBookingByID(ctx context.Context, table string, fields mapper.BookingFields, id int64) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, buildBookingSelect(table, fields), id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("HostRepository:GetBookingByID:Error", "error", err, "booking_id", id)
		return nil, err
	}
	return &booking, nil
}

// UpdateBookingEvent records the created event id and meeting link on the
// booking row. The meeting-link column is skipped when unmapped.
func (r *hostRepository) UpdateBookingEvent(ctx context.Context, table string, fields mapper.BookingFields, id int64, eventID, meetLink string) error {
	sets := []string{pq.QuoteIdentifier(fields.GoogleEventID) + " = $1"}
	args := []any{eventID}

	if fields.MeetingLink != "" {
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(fields.MeetingLink), len(args)+1))
		args = append(args, meetLink)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		pq.QuoteIdentifier(table), strings.Join(sets, ", "), pq.QuoteIdentifier(fields.ID), len(args)+1)
	args = append(args, id)

	if err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error("HostRepository:UpdateBookingEvent:Error", "error", err, "booking_id", id, "event_id", eventID)
		return err
	}
	return nil
}

// SaveUserTokens persists the refresh token and calendar id on the user row.
// The calendar-id column is skipped when unmapped; an empty calendarID
// defaults to "primary".
func (r *hostRepository) SaveUserTokens(ctx context.Context, table string, fields mapper.UserFields, userID int64, refreshToken, calendarID string) error {
	if calendarID == "" {
		calendarID = "primary"
	}

	sets := []string{pq.QuoteIdentifier(fields.RefreshToken) + " = $1"}
	args := []any{refreshToken}

	if fields.CalendarID != "" {
		sets = append(sets, fmt.Sprintf("%s = $%d", pq.QuoteIdentifier(fields.CalendarID), len(args)+1))
		args = append(args, calendarID)
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d",
		pq.QuoteIdentifier(table), strings.Join(sets, ", "), len(args)+1)
	args = append(args, userID)

	if err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error("HostRepository:SaveUserTokens:Error", "error", err, "user_id", userID)
		return err
	}
	return nil
}
