package usecase

import "errors"

var (
	ErrEventTypeNotFound      = errors.New("event type not found")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidTimezone        = errors.New("invalid timezone")
	ErrInvalidSlotToken       = errors.New("invalid slot token")
	ErrSlotUnavailable        = errors.New("slot is no longer available")
	ErrDailyLimitReached      = errors.New("daily booking limit reached")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrBookingAlreadyCanceled = errors.New("booking is already canceled")

	// Error markers for categorization
	ErrDomainValidationFailed  = errors.New("domain validation failed")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
