package viewing

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
)

const (
	CodeInvalidRequest     = "invalid_request"
	CodeNotFound           = "not_found"
	CodeSlotUnavailable    = "slot_unavailable"
	CodeSlotBlocked        = "slot_blocked"
	CodeSlotFull           = "slot_full"
	CodeBrokerDoubleBooked = "broker_double_booked"
	CodeInvalidState       = "invalid_state"
	CodeStorage            = "storage_error"
)

var (
	// ErrRecordNotFound is returned by repositories for missing rows.
	ErrRecordNotFound = errors.New("viewing: record not found")

	// ErrViewingOverlap is returned by CreateViewing when the store rejects
	// the insert because the broker already holds an overlapping viewing.
	ErrViewingOverlap = errors.New("viewing: overlapping viewing for broker")
)

// ConflictDetails names the viewing that blocks a double-booked request so
// the visitor can pick another time.
type ConflictDetails struct {
	ViewingID       uint   `json:"viewingId,omitempty"`
	PropertyID      uint   `json:"propertyId"`
	PropertyTitle   string `json:"propertyTitle"`
	PropertyAddress string `json:"propertyAddress"`
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	TimeRange       string `json:"timeRange"`
}

func ErrInvalidRequest(format string, args ...any) error {
	return httperr.ErrBusinessf(CodeInvalidRequest, format, args...)
}

func ErrNotFound(format string, args ...any) error {
	return httperr.ErrBusinessf(CodeNotFound, format, args...)
}

func ErrSlotUnavailable(date, clock string) error {
	return httperr.ErrBusinessf(CodeSlotUnavailable, "broker has no open availability slot covering %s %s", date, clock)
}

func ErrSlotBlocked(date, clock string) error {
	return httperr.ErrBusinessf(CodeSlotBlocked, "broker is unavailable at %s %s", date, clock)
}

func ErrSlotFull(clock string, booked, max int) error {
	return httperr.ErrBusinessf(CodeSlotFull, "the %s viewing slot is full (%d of %d booked)", clock, booked, max)
}

func ErrDoubleBooked(d *ConflictDetails) error {
	msg := "broker already has an overlapping viewing"
	if d != nil {
		where := d.PropertyTitle
		if d.PropertyAddress != "" {
			where = fmt.Sprintf("%s (%s)", d.PropertyTitle, d.PropertyAddress)
		}
		msg = fmt.Sprintf("broker already has a viewing at %s from %s", where, d.TimeRange)
	}
	return httperr.BusinessError{
		Code:    CodeBrokerDoubleBooked,
		Message: msg,
		Details: d,
	}
}

type StorageError = httperr.StorageError

func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	if _, ok := httperr.AsBusiness(err); ok {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
