package entity

import (
	"database/sql"
	"time"
)

// Booking is the projection of a host-owned bookings row. The event id and
// meeting link are the only columns this integration ever writes back.
type Booking struct {
	ID            int64          `db:"id"`
	HostUserID    int64          `db:"host_user_id"`
	GuestName     sql.NullString `db:"guest_name"`
	GuestEmail    sql.NullString `db:"guest_email"`
	GuestEmail2   sql.NullString `db:"guest_email2"`
	GuestEmail3   sql.NullString `db:"guest_email3"`
	GuestEmail4   sql.NullString `db:"guest_email4"`
	StartTime     time.Time      `db:"start_time"`
	EndTime       time.Time      `db:"end_time"`
	Status        sql.NullString `db:"status"`
	GoogleEventID sql.NullString `db:"google_event_id"`
	MeetingLink   sql.NullString `db:"meeting_link"`
}

// GuestEmails returns the guest email slots in fixed order, empty slots included.
func (b *Booking) GuestEmails() []string {
	return []string{
		b.GuestEmail.String,
		b.GuestEmail2.String,
		b.GuestEmail3.String,
		b.GuestEmail4.String,
	}
}

// HasMeetingLink reports whether a meeting link is already recorded.
func (b *Booking) HasMeetingLink() bool {
	return b.MeetingLink.Valid && b.MeetingLink.String != ""
}
