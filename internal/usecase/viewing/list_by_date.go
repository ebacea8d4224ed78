package viewing

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/dto"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

type ListViewingsByDate struct {
	repo domain.Repository
}

func NewListViewingsByDate(
	repo domain.Repository,
) *ListViewingsByDate {
	return &ListViewingsByDate{
		repo: repo,
	}
}

func (uc *ListViewingsByDate) Execute(
	ctx context.Context,
	brokerID uint,
	date string,
) ([]dto.ViewingListDTO, error) {

	if _, err := time.Parse(timezone.DateLayout, date); err != nil {
		return nil, domain.ErrInvalidRequest("date must be YYYY-MM-DD")
	}

	viewings, err := uc.repo.ListViewingsForBroker(ctx, brokerID, date)
	if err != nil {
		return nil, domain.WrapStorage("list viewings", err)
	}

	out := make([]dto.ViewingListDTO, 0, len(viewings))
	for _, v := range viewings {
		out = append(out, dto.ViewingListDTO{
			ID:              v.ID,
			Reference:       v.Reference,
			ViewingDate:     v.ViewingDate,
			ViewingTime:     v.ViewingTime,
			EndTime:         v.EndTime,
			Status:          v.Status,
			PropertyID:      v.PropertyID,
			PropertyTitle:   v.Property.Title,
			PropertyAddress: v.Property.Address,
			VisitorName:     v.VisitorName,
			VisitorPhone:    v.VisitorPhone,
			PartySize:       v.PartySize,
		})
	}

	return out, nil
}
