package service

import (
	"context"
	"fmt"
	"time"

	"gcal-sync/core/config"
	"gcal-sync/core/constants"
	"gcal-sync/core/errors"
	"gcal-sync/core/logger"
	"gcal-sync/modules/gcalsync/entity"
	"gcal-sync/modules/gcalsync/mapper"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const eventDescription = "Scheduled via Booking System"

// createGoogleEvent builds the event payload, inserts it into the host user's
// calendar and writes the event id and meeting link back onto the booking
// row. The booking row is only updated after a successful insert; provider
// failures propagate without retry.
func (s *syncService) createGoogleEvent(ctx context.Context, cfg config.PluginSettings, user *entity.HostUser, booking *entity.Booking, bookingFields mapper.BookingFields) (*calendar.Event, *errors.AppError) {
	if !user.Linked() {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Host user is not linked to Google Calendar", nil)
	}

	oc, appErr := oauthConfig(cfg)
	if appErr != nil {
		logger.Error("SyncService:createGoogleEvent:Config:Error", "error", appErr, "booking_id", booking.ID)
		return nil, appErr
	}

	httpClient := oc.Client(ctx, &oauth2.Token{RefreshToken: user.RefreshToken.String})
	svc, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		logger.Error("SyncService:createGoogleEvent:NewService:Error", "error", err, "booking_id", booking.ID)
		return nil, errors.NewAppError(errors.ErrProvider, "Failed to create calendar client", err)
	}

	wantMeetLink := shouldCreateMeetLink(cfg.GenerateMeetIfEmpty, booking)

	event := &calendar.Event{
		Summary:     eventSummary(booking.GuestName.String),
		Description: eventDescription,
		Start: &calendar.EventDateTime{
			DateTime: booking.StartTime.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: booking.EndTime.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		Attendees: pickAttendees(booking.GuestEmails()),
	}

	conferenceVersion := int64(0)
	if wantMeetLink {
		conferenceVersion = 1
		event.ConferenceData = &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId: conferenceRequestID(booking.ID),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{
					Type: "hangoutsMeet",
				},
			},
		}
	}

	created, err := svc.Events.Insert(user.EffectiveCalendarID(), event).
		SendUpdates("all").
		ConferenceDataVersion(conferenceVersion).
		Context(ctx).
		Do()
	if err != nil {
		logger.Error("SyncService:createGoogleEvent:Insert:Error", "error", err, "booking_id", booking.ID, "host_user_id", user.ID)
		return nil, errors.NewAppError(errors.ErrProvider, "Failed to create event", err)
	}

	meetLink := extractMeetLink(created)
	if err := s.repo.UpdateBookingEvent(ctx, cfg.BookingsTable, bookingFields, booking.ID, created.Id, meetLink); err != nil {
		// The event now exists upstream but is not recorded locally; the
		// caller sees the failure and can re-push.
		logger.Error("SyncService:createGoogleEvent:UpdateBookingEvent:Error", "error", err, "booking_id", booking.ID, "event_id", created.Id)
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to record event on booking", err)
	}

	logger.Info("SyncService:createGoogleEvent:Success",
		"booking_id", booking.ID,
		"event_id", created.Id,
		"meet_link", meetLink,
	)
	return created, nil
}

// pickAttendees keeps the non-empty guest emails in their original order.
func pickAttendees(emails []string) []*calendar.EventAttendee {
	var attendees []*calendar.EventAttendee
	for _, email := range emails {
		if email == "" {
			continue
		}
		attendees = append(attendees, &calendar.EventAttendee{Email: email})
	}
	return attendees
}

func eventSummary(guestName string) string {
	if guestName != "" {
		return fmt.Sprintf("Meeting with %s", guestName)
	}
	return "Scheduled Meeting"
}

// shouldCreateMeetLink requests Meet generation only when the feature flag is
// on and the booking has no meeting link yet.
func shouldCreateMeetLink(generateIfEmpty bool, booking *entity.Booking) bool {
	return generateIfEmpty && !booking.HasMeetingLink()
}

// conferenceRequestID is unique per booking and call.
func conferenceRequestID(bookingID int64) string {
	return fmt.Sprintf("%s-%d-%s", constants.PluginName, bookingID, uuid.NewString())
}

// extractMeetLink picks the video entry point from the returned conference
// data, falling back to the legacy hangout link, then empty.
func extractMeetLink(event *calendar.Event) string {
	if event == nil {
		return ""
	}
	if event.ConferenceData != nil {
		for _, ep := range event.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return event.HangoutLink
}
