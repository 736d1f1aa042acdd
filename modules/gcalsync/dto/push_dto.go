package dto

// PushBookingRequest is the webhook body.
type PushBookingRequest struct {
	BookingID int64 `json:"booking_id"`
}

// PushBookingResponse is the webhook success payload. MeetLink is null when
// no meeting link was generated or extracted.
type PushBookingResponse struct {
	OK       bool    `json:"ok"`
	EventID  string  `json:"eventId"`
	MeetLink *string `json:"meetLink"`
}

func NewPushBookingResponse(eventID, meetLink string) *PushBookingResponse {
	resp := &PushBookingResponse{
		OK:      true,
		EventID: eventID,
	}
	if meetLink != "" {
		resp.MeetLink = &meetLink
	}
	return resp
}
