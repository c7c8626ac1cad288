package response

import (
	"time"

	"meetslot/internal/domain/booking"
	"meetslot/internal/usecase"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID              uuid.UUID `json:"id"`
	Status          string    `json:"status"`
	StartAtUTC      string    `json:"startAtUtc"`
	EndAtUTC        string    `json:"endAtUtc"`
	InviteeName     string    `json:"inviteeName"`
	InviteeEmail    string    `json:"inviteeEmail"`
	Notes           string    `json:"notes,omitempty"`
	VisitorTimezone string    `json:"visitorTimezone"`
	CancelReason    string    `json:"cancelReason,omitempty"`
	CanceledAt      *string   `json:"canceledAt,omitempty"`
	CreatedAt       string    `json:"createdAt"`
}

// EmailStatusResponse reports the confirmation email outcome. Reason is
// present only when the email was not sent.
type EmailStatusResponse struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}

// CreateBookingResponse adds the post-commit side-effect outcomes; emailStatus
// and meetingUrl describe best-effort work, not booking validity.
type CreateBookingResponse struct {
	Booking     BookingResponse     `json:"booking"`
	EmailStatus EmailStatusResponse `json:"emailStatus"`
	MeetingURL  string              `json:"meetingUrl,omitempty"`
}

func FromBooking(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:              b.ID(),
		Status:          string(b.Status()),
		StartAtUTC:      b.StartAtUTC().Format(time.RFC3339),
		EndAtUTC:        b.EndAtUTC().Format(time.RFC3339),
		InviteeName:     b.InviteeName(),
		InviteeEmail:    b.InviteeEmail(),
		Notes:           b.Notes(),
		VisitorTimezone: b.VisitorTimezone(),
		CancelReason:    b.CancelReason(),
		CreatedAt:       b.CreatedAt().Format(time.RFC3339),
	}
	if t := b.CanceledAt(); t != nil {
		s := t.Format(time.RFC3339)
		resp.CanceledAt = &s
	}
	return resp
}

func FromBookingResult(r *usecase.BookingResult) CreateBookingResponse {
	return CreateBookingResponse{
		Booking: FromBooking(r.Booking),
		EmailStatus: EmailStatusResponse{
			Sent:   r.Email.Sent(),
			Reason: r.Email.Reason,
		},
		MeetingURL: r.MeetingURL,
	}
}

func FromBookingList(list []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(list))
	for i, b := range list {
		out[i] = FromBooking(b)
	}
	return out
}
