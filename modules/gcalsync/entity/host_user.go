package entity

import "database/sql"

// HostUser is the projection of a host-owned users row limited to the columns
// this integration touches. Column names are resolved through the configured
// user field mapping; db tags carry the logical aliases.
type HostUser struct {
	ID           int64          `db:"id"`
	RefreshToken sql.NullString `db:"refresh_token"`
	CalendarID   sql.NullString `db:"calendar_id"`
}

// Linked reports whether the user has completed the OAuth flow.
func (u *HostUser) Linked() bool {
	return u.RefreshToken.Valid && u.RefreshToken.String != ""
}

// EffectiveCalendarID returns the user's calendar id, defaulting to "primary".
func (u *HostUser) EffectiveCalendarID() string {
	if u.CalendarID.Valid && u.CalendarID.String != "" {
		return u.CalendarID.String
	}
	return "primary"
}
