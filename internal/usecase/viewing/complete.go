package viewing

import (
	"context"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type CompleteViewing struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCompleteViewing(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CompleteViewing {
	return &CompleteViewing{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *CompleteViewing) Execute(
	ctx context.Context,
	brokerID uint,
	viewingID uint,
) (*models.PropertyViewing, error) {
	return changeStatus(ctx, uc.repo, uc.audit, brokerID, viewingID, uc.now(),
		domain.Complete, "viewing_completed")
}
