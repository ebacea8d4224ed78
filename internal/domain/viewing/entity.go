package viewing

import (
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(v *models.PropertyViewing, now time.Time) error {
	if err := CanConfirm(Status(v.Status)); err != nil {
		return err
	}

	v.Status = string(StatusConfirmed)
	v.ConfirmedAt = &now
	return nil
}

func Cancel(v *models.PropertyViewing, now time.Time) error {
	if err := CanCancel(Status(v.Status)); err != nil {
		return err
	}

	v.Status = string(StatusCancelled)
	v.CancelledAt = &now
	return nil
}

func Complete(v *models.PropertyViewing, now time.Time) error {
	if err := CanComplete(Status(v.Status)); err != nil {
		return err
	}

	v.Status = string(StatusCompleted)
	v.CompletedAt = &now
	return nil
}
