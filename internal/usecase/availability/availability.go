package availability

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/availability"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

// Manager edits a broker's own availability slots and blocked times.
type Manager struct {
	repo domain.Repository
}

func NewManager(repo domain.Repository) *Manager {
	return &Manager{repo: repo}
}

// -------- Slots --------

func (m *Manager) ListSlots(ctx context.Context, brokerID uint, from, to string) ([]models.AvailabilitySlot, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	slots, err := m.repo.ListSlots(ctx, brokerID, from, to)
	if err != nil {
		return nil, storage("list slots", err)
	}
	return slots, nil
}

func (m *Manager) CreateSlot(ctx context.Context, brokerID uint, s models.AvailabilitySlot) (*models.AvailabilitySlot, error) {
	s.ID = 0
	s.BrokerID = brokerID
	if err := domain.ValidateSlot(&s); err != nil {
		return nil, err
	}

	if err := m.repo.CreateSlot(ctx, &s); err != nil {
		return nil, storage("create slot", err)
	}
	return &s, nil
}

func (m *Manager) DeleteSlot(ctx context.Context, brokerID, id uint) error {
	if err := m.repo.DeleteSlot(ctx, brokerID, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return httperr.ErrBusinessf(domain.CodeNotFound, "slot %d not found", id)
		}
		return storage("delete slot", err)
	}
	return nil
}

// -------- Blocked times --------

func (m *Manager) ListBlocked(ctx context.Context, brokerID uint, from, to string) ([]models.BlockedTime, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	start, _ := time.Parse(timezone.DateLayout, from)
	end, _ := time.Parse(timezone.DateLayout, to)

	blocked, err := m.repo.ListBlocked(ctx, brokerID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, storage("list blocked times", err)
	}
	return blocked, nil
}

func (m *Manager) CreateBlocked(ctx context.Context, brokerID uint, b models.BlockedTime) (*models.BlockedTime, error) {
	b.ID = 0
	b.BrokerID = brokerID
	if err := domain.ValidateBlocked(&b); err != nil {
		return nil, err
	}

	if err := m.repo.CreateBlocked(ctx, &b); err != nil {
		return nil, storage("create blocked time", err)
	}
	return &b, nil
}

func (m *Manager) DeleteBlocked(ctx context.Context, brokerID, id uint) error {
	if err := m.repo.DeleteBlocked(ctx, brokerID, id); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return httperr.ErrBusinessf(domain.CodeNotFound, "blocked time %d not found", id)
		}
		return storage("delete blocked time", err)
	}
	return nil
}

func checkRange(from, to string) error {
	start, err := time.Parse(timezone.DateLayout, from)
	if err != nil {
		return httperr.ErrBusinessf(domain.CodeInvalidRequest, "from must be YYYY-MM-DD")
	}
	end, err := time.Parse(timezone.DateLayout, to)
	if err != nil {
		return httperr.ErrBusinessf(domain.CodeInvalidRequest, "to must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return httperr.ErrBusinessf(domain.CodeInvalidRequest, "to must not be before from")
	}
	return nil
}

func storage(op string, err error) error {
	return &httperr.StorageError{Op: op, Err: err}
}
