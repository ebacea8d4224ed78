package viewing

import (
	"context"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type CancelViewing struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelViewing(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelViewing {
	return &CancelViewing{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

// Execute frees the broker's time; the slot becomes bookable again.
func (uc *CancelViewing) Execute(
	ctx context.Context,
	brokerID uint,
	viewingID uint,
) (*models.PropertyViewing, error) {
	return changeStatus(ctx, uc.repo, uc.audit, brokerID, viewingID, uc.now(),
		domain.Cancel, "viewing_cancelled")
}
