package request

import "time"

// CreateBookingRequest repeats the date/timezone the visitor used to view the
// slot list, so the offered set can be re-derived before committing.
type CreateBookingRequest struct {
	VisitorDate string    `json:"visitorDate" binding:"required"`
	Timezone    string    `json:"timezone" binding:"required"`
	StartAtUTC  time.Time `json:"startAtUtc" binding:"required"`
	SlotToken   string    `json:"slotToken" binding:"required"`
	Name        string    `json:"name" binding:"required"`
	Email       string    `json:"email" binding:"required"`
	Notes       string    `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}
