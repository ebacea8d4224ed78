package rental

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/rental"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type GetCalendar struct {
	repo    domain.Repository
	maxDays int
}

func NewGetCalendar(repo domain.Repository, maxDays int) *GetCalendar {
	return &GetCalendar{repo: repo, maxDays: maxDays}
}

// Execute returns one entry per date in [from, to]. Dates without a stored
// override carry the listing defaults.
func (uc *GetCalendar) Execute(
	ctx context.Context,
	listingID uint,
	from string,
	to string,
) ([]models.RentalCalendarDay, error) {

	dates, err := domain.EnumerateDates(from, to, uc.maxDays)
	if err != nil {
		return nil, err
	}

	listing, err := uc.repo.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessf(domain.CodeNotFound, "listing %d not found", listingID)
		}
		return nil, &domain.StorageError{Op: "get listing", Err: err}
	}

	stored, err := uc.repo.ListDays(ctx, listingID, from, to)
	if err != nil {
		return nil, &domain.StorageError{Op: "list calendar days", Err: err}
	}

	byDate := make(map[string]models.RentalCalendarDay, len(stored))
	for _, d := range stored {
		byDate[d.Date] = d
	}

	out := make([]models.RentalCalendarDay, 0, len(dates))
	for _, date := range dates {
		if d, ok := byDate[date]; ok {
			out = append(out, d)
			continue
		}
		out = append(out, domain.NewDay(listing, date, domain.Patch{}))
	}

	return out, nil
}
