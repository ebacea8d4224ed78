package availability

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeStorage        = "storage_error"
)

var ErrRecordNotFound = errors.New("availability: record not found")

// ValidateSlot checks the shape of a slot before it is stored and fills
// the defaults.
func ValidateSlot(s *models.AvailabilitySlot) error {
	if _, err := time.Parse(timezone.DateLayout, s.Date); err != nil {
		return httperr.ErrBusinessf(CodeInvalidRequest, "date must be YYYY-MM-DD")
	}

	from, err := timezone.ClockMinutes(s.StartTime)
	if err != nil || len(s.StartTime) != len(timezone.ClockLayout) {
		return httperr.ErrBusinessf(CodeInvalidRequest, "start_time must be HH:MM")
	}
	to, err := timezone.ClockMinutes(s.EndTime)
	if err != nil || len(s.EndTime) != len(timezone.ClockLayout) {
		return httperr.ErrBusinessf(CodeInvalidRequest, "end_time must be HH:MM")
	}
	if from >= to {
		return httperr.ErrBusinessf(CodeInvalidRequest, "start_time must be before end_time")
	}

	if s.MaxBookings == 0 {
		s.MaxBookings = 1
	}
	if s.MaxBookings < 1 {
		return httperr.ErrBusinessf(CodeInvalidRequest, "max_bookings must be at least 1")
	}

	if s.SlotDurationMinutes == 0 {
		s.SlotDurationMinutes = 60
	}
	if s.SlotDurationMinutes < 0 {
		return httperr.ErrBusinessf(CodeInvalidRequest, "slot_duration_minutes must be positive")
	}

	return nil
}

func ValidateBlocked(b *models.BlockedTime) error {
	if b.StartDatetime.IsZero() || b.EndDatetime.IsZero() {
		return httperr.ErrBusinessf(CodeInvalidRequest, "start_datetime and end_datetime are required")
	}
	if !b.StartDatetime.Before(b.EndDatetime) {
		return httperr.ErrBusinessf(CodeInvalidRequest, "start_datetime must be before end_datetime")
	}

	b.StartDatetime = b.StartDatetime.UTC()
	b.EndDatetime = b.EndDatetime.UTC()
	return nil
}

type Repository interface {
	ListSlots(ctx context.Context, brokerID uint, from, to string) ([]models.AvailabilitySlot, error)
	CreateSlot(ctx context.Context, s *models.AvailabilitySlot) error
	DeleteSlot(ctx context.Context, brokerID, id uint) error

	ListBlocked(ctx context.Context, brokerID uint, from, to time.Time) ([]models.BlockedTime, error)
	CreateBlocked(ctx context.Context, b *models.BlockedTime) error
	DeleteBlocked(ctx context.Context, brokerID, id uint) error
}
