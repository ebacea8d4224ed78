package rental

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/rental"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type BulkUpdateInput struct {
	ListingID uint
	StartDate string
	EndDate   string
	Patch     domain.Patch

	// ActorID is the broker making the change; IsAdmin skips the owner check.
	ActorID uint
	IsAdmin bool
}

type BulkUpdateResult struct {
	ListingID     uint     `json:"listing_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	DaysUpdated   int      `json:"days_updated"`
	FieldsPatched []string `json:"fields_patched"`
}

// ======================================================
// USE CASE
// ======================================================

type BulkUpdateCalendar struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	log     *zap.Logger
	maxDays int
}

func NewBulkUpdateCalendar(
	repo domain.Repository,
	audit *audit.Dispatcher,
	log *zap.Logger,
	maxDays int,
) *BulkUpdateCalendar {
	if log == nil {
		log = zap.NewNop()
	}
	return &BulkUpdateCalendar{
		repo:    repo,
		audit:   audit,
		log:     log.Named("calendar_bulk_update"),
		maxDays: maxDays,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BulkUpdateCalendar) Execute(
	ctx context.Context,
	in BulkUpdateInput,
) (*BulkUpdateResult, error) {

	// --------------------------------------------------
	// 1. Range and patch
	// --------------------------------------------------
	dates, err := domain.EnumerateDates(in.StartDate, in.EndDate, uc.maxDays)
	if err != nil {
		return nil, err
	}
	if err := in.Patch.Validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Listing and ownership
	// --------------------------------------------------
	listing, err := uc.repo.GetListing(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, httperr.ErrBusinessf(domain.CodeNotFound, "listing %d not found", in.ListingID)
		}
		return nil, &domain.StorageError{Op: "get listing", Err: err}
	}
	if !in.IsAdmin && listing.BrokerID != in.ActorID {
		return nil, httperr.ErrBusinessf(domain.CodeForbidden, "listing %d belongs to another broker", in.ListingID)
	}

	// --------------------------------------------------
	// 3. Upsert every day of the range
	// --------------------------------------------------
	days := make([]models.RentalCalendarDay, 0, len(dates))
	for _, d := range dates {
		days = append(days, domain.NewDay(listing, d, in.Patch))
	}

	columns := in.Patch.Columns()
	if err := uc.repo.UpsertDays(ctx, days, columns); err != nil {
		return nil, &domain.StorageError{Op: "upsert calendar days", Err: err}
	}

	// --------------------------------------------------
	// 4. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BrokerID: &in.ActorID,
		Action:   "calendar_bulk_updated",
		Entity:   "rental_listing",
		EntityID: &listing.ID,
		Metadata: map[string]any{
			"start":  in.StartDate,
			"end":    in.EndDate,
			"days":   len(days),
			"fields": columns,
		},
	})

	uc.log.Info("calendar updated",
		zap.Uint("listing_id", listing.ID),
		zap.String("start", in.StartDate),
		zap.String("end", in.EndDate),
		zap.Int("days", len(days)),
	)

	return &BulkUpdateResult{
		ListingID:     listing.ID,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		DaysUpdated:   len(days),
		FieldsPatched: columns,
	}, nil
}
