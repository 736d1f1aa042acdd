package mapper

import (
	"fmt"
	"strings"
)

// Logical field names in their fixed positional order. The configured mapping
// strings are comma-separated physical column names zipped against these.
var (
	BookingLogicalFields = []string{
		"id",
		"host_user_id",
		"guest_name",
		"guest_email",
		"guest_email2",
		"guest_email3",
		"guest_email4",
		"start_time",
		"end_time",
		"status",
		"google_event_id",
		"meeting_link",
	}

	UserLogicalFields = []string{
		"refresh_token",
		"calendar_id",
	}
)

// ResolveFieldMapping splits configString on commas (no trimming; empty
// segments match positionally) and zips it against logicalNames. Logical
// names beyond the configured entries are absent from the result; configured
// entries beyond the logical list are ignored.
func ResolveFieldMapping(configString string, logicalNames []string) map[string]string {
	parts := strings.Split(configString, ",")
	mapping := make(map[string]string, len(logicalNames))
	for i, name := range logicalNames {
		if i >= len(parts) {
			break
		}
		mapping[name] = parts[i]
	}
	return mapping
}

// BookingFields maps logical booking fields to physical column names. Unset
// optional fields are empty strings and degrade gracefully downstream.
type BookingFields struct {
	ID            string
	HostUserID    string
	GuestName     string
	GuestEmail    string
	GuestEmail2   string
	GuestEmail3   string
	GuestEmail4   string
	StartTime     string
	EndTime       string
	Status        string
	GoogleEventID string
	MeetingLink   string
}

// UserFields maps logical user fields to physical column names.
type UserFields struct {
	RefreshToken string
	CalendarID   string
}

// NewBookingFields builds a typed booking mapping from the configured string
// and rejects mappings missing the columns every push depends on.
func NewBookingFields(configString string) (BookingFields, error) {
	m := ResolveFieldMapping(configString, BookingLogicalFields)
	f := BookingFields{
		ID:            m["id"],
		HostUserID:    m["host_user_id"],
		GuestName:     m["guest_name"],
		GuestEmail:    m["guest_email"],
		GuestEmail2:   m["guest_email2"],
		GuestEmail3:   m["guest_email3"],
		GuestEmail4:   m["guest_email4"],
		StartTime:     m["start_time"],
		EndTime:       m["end_time"],
		Status:        m["status"],
		GoogleEventID: m["google_event_id"],
		MeetingLink:   m["meeting_link"],
	}

	required := map[string]string{
		"id":              f.ID,
		"host_user_id":    f.HostUserID,
		"start_time":      f.StartTime,
		"end_time":        f.EndTime,
		"google_event_id": f.GoogleEventID,
	}
	for name, col := range required {
		if col == "" {
			return BookingFields{}, fmt.Errorf("booking field mapping: no column configured for %q", name)
		}
	}
	return f, nil
}

// NewUserFields builds a typed user mapping from the configured string. Only
// the refresh token column is mandatory; an unmapped calendar id falls back
// to "primary" at read time.
func NewUserFields(configString string) (UserFields, error) {
	m := ResolveFieldMapping(configString, UserLogicalFields)
	f := UserFields{
		RefreshToken: m["refresh_token"],
		CalendarID:   m["calendar_id"],
	}
	if f.RefreshToken == "" {
		return UserFields{}, fmt.Errorf("user field mapping: no column configured for %q", "refresh_token")
	}
	return f, nil
}
