package viewing

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type transition func(v *models.PropertyViewing, now time.Time) error

func changeStatus(
	ctx context.Context,
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	brokerID uint,
	viewingID uint,
	now time.Time,
	apply transition,
	action string,
) (*models.PropertyViewing, error) {

	v, err := repo.GetViewingForBroker(ctx, viewingID, brokerID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrNotFound("viewing %d not found", viewingID)
		}
		return nil, domain.WrapStorage("get viewing", err)
	}

	from := v.Status
	if err := apply(v, now); err != nil {
		return nil, err
	}

	if err := repo.UpdateViewing(ctx, v); err != nil {
		return nil, domain.WrapStorage("update viewing", err)
	}

	dispatcher.Dispatch(audit.Event{
		BrokerID:   &brokerID,
		PropertyID: &v.PropertyID,
		Action:     action,
		Entity:     "property_viewing",
		EntityID:   &v.ID,
		Metadata: map[string]string{
			"from": from,
			"to":   v.Status,
		},
	})

	return v, nil
}
