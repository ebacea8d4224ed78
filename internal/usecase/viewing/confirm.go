package viewing

import (
	"context"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type ConfirmViewing struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewConfirmViewing(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmViewing {
	return &ConfirmViewing{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *ConfirmViewing) Execute(
	ctx context.Context,
	brokerID uint,
	viewingID uint,
) (*models.PropertyViewing, error) {
	return changeStatus(ctx, uc.repo, uc.audit, brokerID, viewingID, uc.now(),
		domain.Confirm, "viewing_confirmed")
}
