package viewing

import (
	"context"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type Repository interface {
	// -------- Transaction --------

	// Transaction runs fn against a repository bound to a single database
	// transaction. fn's error rolls the transaction back.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// LockBroker takes a row lock on the broker until the surrounding
	// transaction ends, serializing bookings for that broker.
	LockBroker(
		ctx context.Context,
		brokerID uint,
	) error

	// -------- Property / Broker --------
	GetProperty(
		ctx context.Context,
		id uint,
	) (*models.Property, error)

	// GetActiveAssignment returns the assignment only when both the
	// assignment and the broker are active.
	GetActiveAssignment(
		ctx context.Context,
		propertyID uint,
		brokerID uint,
	) (*models.PropertyBroker, error)

	// -------- Availability --------
	ListAvailabilitySlots(
		ctx context.Context,
		brokerID uint,
		date string,
	) ([]models.AvailabilitySlot, error)

	ListBlockedTimes(
		ctx context.Context,
		brokerID uint,
		from time.Time,
		to time.Time,
	) ([]models.BlockedTime, error)

	// -------- Viewing (create / conflict) --------

	// ListActiveViewingsForBroker returns scheduled and confirmed viewings
	// of the broker on every property whose [start_at, end_at) intersects
	// [from, to), with Property loaded. Matching is on instants, so viewings
	// that cross midnight or sit in another zone are found.
	ListActiveViewingsForBroker(
		ctx context.Context,
		brokerID uint,
		from time.Time,
		to time.Time,
	) ([]models.PropertyViewing, error)

	CreateViewing(
		ctx context.Context,
		v *models.PropertyViewing,
	) error

	// -------- Viewing (state change / listing) --------
	GetViewingForBroker(
		ctx context.Context,
		viewingID uint,
		brokerID uint,
	) (*models.PropertyViewing, error)

	UpdateViewing(
		ctx context.Context,
		v *models.PropertyViewing,
	) error

	ListViewingsForBroker(
		ctx context.Context,
		brokerID uint,
		date string,
	) ([]models.PropertyViewing, error)
}
