package repository

import (
	"context"
	"fmt"
	"strings"

	"gcal-sync/core/database"
	"gcal-sync/core/logger"
	"gcal-sync/modules/gcalsync/mapper"

	"github.com/lib/pq"
)

// EnsureSchema is the one-time installation side effect: it creates the
// bookings table when absent and adds the calendar columns to the users table
// when absent. Every step is guarded by an information_schema existence check
// so repeated runs are no-ops. Steady-state request handling never issues DDL.
func EnsureSchema(ctx context.Context, db database.IDatabase, usersTable, bookingsTable string, bf mapper.BookingFields, uf mapper.UserFields) error {
	exists, err := db.TableExists(ctx, bookingsTable)
	if err != nil {
		return fmt.Errorf("check bookings table: %w", err)
	}
	if !exists {
		logger.Info("EnsureSchema:CreatingBookingsTable", "table", bookingsTable)
		if err := db.ExecContext(ctx, buildBookingsTableDDL(bookingsTable, bf)); err != nil {
			return fmt.Errorf("create bookings table: %w", err)
		}
	}

	userColumns := map[string]string{
		uf.RefreshToken: "TEXT",
		uf.CalendarID:   "TEXT",
	}
	for col, colType := range userColumns {
		if col == "" {
			continue
		}
		present, err := db.ColumnExists(ctx, usersTable, col)
		if err != nil {
			return fmt.Errorf("check users column %s: %w", col, err)
		}
		if present {
			continue
		}
		logger.Info("EnsureSchema:AddingUserColumn", "table", usersTable, "column", col)
		ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s",
			pq.QuoteIdentifier(usersTable), pq.QuoteIdentifier(col), colType)
		if err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("add users column %s: %w", col, err)
		}
	}

	return nil
}

func buildBookingsTableDDL(table string, f mapper.BookingFields) string {
	var cols []string
	add := func(physical, definition string) {
		if physical != "" {
			cols = append(cols, pq.QuoteIdentifier(physical)+" "+definition)
		}
	}

	add(f.ID, "SERIAL PRIMARY KEY")
	add(f.HostUserID, "INTEGER NOT NULL")
	add(f.GuestName, "TEXT")
	add(f.GuestEmail, "TEXT")
	add(f.GuestEmail2, "TEXT")
	add(f.GuestEmail3, "TEXT")
	add(f.GuestEmail4, "TEXT")
	add(f.StartTime, "TIMESTAMPTZ NOT NULL")
	add(f.EndTime, "TIMESTAMPTZ NOT NULL")
	add(f.Status, "TEXT")
	add(f.GoogleEventID, "TEXT")
	add(f.MeetingLink, "TEXT")

	return fmt.Sprintf("CREATE TABLE %s (%s)", pq.QuoteIdentifier(table), strings.Join(cols, ", "))
}
