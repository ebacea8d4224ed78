package rental

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

const (
	CodeInvalidRange   = "invalid_range"
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeForbidden      = "forbidden"
	CodeStorage        = "storage_error"
)

var ErrRecordNotFound = errors.New("rental: record not found")

// Patch carries the calendar fields to overwrite. Nil fields are left as
// they are on existing days and take listing defaults on new ones.
type Patch struct {
	IsAvailable          *bool
	NightlyRate          *float64
	MinimumStay          *int
	IsSpecialPricing     *bool
	SpecialPricingReason *string
}

func (p Patch) IsEmpty() bool {
	return p.IsAvailable == nil &&
		p.NightlyRate == nil &&
		p.MinimumStay == nil &&
		p.IsSpecialPricing == nil &&
		p.SpecialPricingReason == nil
}

// Columns lists the column names the patch sets, in a stable order.
func (p Patch) Columns() []string {
	var cols []string
	if p.IsAvailable != nil {
		cols = append(cols, "is_available")
	}
	if p.NightlyRate != nil {
		cols = append(cols, "nightly_rate")
	}
	if p.MinimumStay != nil {
		cols = append(cols, "minimum_stay")
	}
	if p.IsSpecialPricing != nil {
		cols = append(cols, "is_special_pricing")
	}
	if p.SpecialPricingReason != nil {
		cols = append(cols, "special_pricing_reason")
	}
	return cols
}

// NewDay builds the row a patch produces for date on a listing with no
// override yet.
func NewDay(listing *models.RentalListing, date string, p Patch) models.RentalCalendarDay {
	day := models.RentalCalendarDay{
		ListingID:   listing.ID,
		Date:        date,
		IsAvailable: true,
		NightlyRate: listing.BaseNightlyRate,
		MinimumStay: listing.DefaultMinimumStay,
	}
	if day.MinimumStay < 1 {
		day.MinimumStay = 1
	}
	p.ApplyTo(&day)
	return day
}

// ApplyTo overwrites the patched fields of day.
func (p Patch) ApplyTo(day *models.RentalCalendarDay) {
	if p.IsAvailable != nil {
		day.IsAvailable = *p.IsAvailable
	}
	if p.NightlyRate != nil {
		day.NightlyRate = *p.NightlyRate
	}
	if p.MinimumStay != nil {
		day.MinimumStay = *p.MinimumStay
	}
	if p.IsSpecialPricing != nil {
		day.IsSpecialPricing = *p.IsSpecialPricing
	}
	if p.SpecialPricingReason != nil {
		day.SpecialPricingReason = *p.SpecialPricingReason
	}
}

func (p Patch) Validate() error {
	if p.IsEmpty() {
		return httperr.ErrBusinessf(CodeInvalidRequest, "patch sets no calendar field")
	}
	if p.NightlyRate != nil && *p.NightlyRate < 0 {
		return httperr.ErrBusinessf(CodeInvalidRequest, "nightly_rate must not be negative")
	}
	if p.MinimumStay != nil && *p.MinimumStay < 1 {
		return httperr.ErrBusinessf(CodeInvalidRequest, "minimum_stay must be at least 1")
	}
	return nil
}

// EnumerateDates returns every YYYY-MM-DD date in [start, end] inclusive.
// maxDays bounds the span; zero disables the bound.
func EnumerateDates(start, end string, maxDays int) ([]string, error) {
	from, err := time.Parse(timezone.DateLayout, start)
	if err != nil {
		return nil, httperr.ErrBusinessf(CodeInvalidRange, "invalid start date %q", start)
	}
	to, err := time.Parse(timezone.DateLayout, end)
	if err != nil {
		return nil, httperr.ErrBusinessf(CodeInvalidRange, "invalid end date %q", end)
	}
	if to.Before(from) {
		return nil, httperr.ErrBusinessf(CodeInvalidRange, "end date %s is before start date %s", end, start)
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if maxDays > 0 && days > maxDays {
		return nil, httperr.ErrBusinessf(CodeInvalidRange, "range spans %d days, at most %d allowed", days, maxDays)
	}

	out := make([]string, 0, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(timezone.DateLayout))
	}
	return out, nil
}

type StorageError = httperr.StorageError

type Repository interface {
	GetListing(
		ctx context.Context,
		id uint,
	) (*models.RentalListing, error)

	// UpsertDays inserts days keyed by (listing_id, date); on conflict only
	// columns are overwritten.
	UpsertDays(
		ctx context.Context,
		days []models.RentalCalendarDay,
		columns []string,
	) error

	ListDays(
		ctx context.Context,
		listingID uint,
		from string,
		to string,
	) ([]models.RentalCalendarDay, error)
}
