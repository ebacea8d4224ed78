package rental

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/rental"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

type fakeRepo struct {
	mu        sync.Mutex
	listings  map[uint]models.RentalListing
	days      map[string]models.RentalCalendarDay
	upsertErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		listings: map[uint]models.RentalListing{
			1: {ID: 1, BrokerID: 10, Title: "Beach Cottage", BaseNightlyRate: 150, DefaultMinimumStay: 2},
		},
		days: map[string]models.RentalCalendarDay{},
	}
}

func (r *fakeRepo) GetListing(ctx context.Context, id uint) (*models.RentalListing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &l, nil
}

// UpsertDays mirrors INSERT ... ON CONFLICT (listing_id, date) DO UPDATE SET <columns>.
func (r *fakeRepo) UpsertDays(ctx context.Context, days []models.RentalCalendarDay, columns []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.upsertErr != nil {
		return r.upsertErr
	}

	for _, d := range days {
		existing, ok := r.days[d.Date]
		if !ok {
			r.days[d.Date] = d
			continue
		}
		for _, c := range columns {
			switch c {
			case "is_available":
				existing.IsAvailable = d.IsAvailable
			case "nightly_rate":
				existing.NightlyRate = d.NightlyRate
			case "minimum_stay":
				existing.MinimumStay = d.MinimumStay
			case "is_special_pricing":
				existing.IsSpecialPricing = d.IsSpecialPricing
			case "special_pricing_reason":
				existing.SpecialPricingReason = d.SpecialPricingReason
			}
		}
		r.days[d.Date] = existing
	}
	return nil
}

func (r *fakeRepo) ListDays(ctx context.Context, listingID uint, from, to string) ([]models.RentalCalendarDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.RentalCalendarDay
	for _, d := range r.days {
		if d.ListingID == listingID && d.Date >= from && d.Date <= to {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *fakeRepo) snapshot() map[string]models.RentalCalendarDay {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]models.RentalCalendarDay, len(r.days))
	for k, v := range r.days {
		out[k] = v
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestBulkUpdate_IsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	uc := NewBulkUpdateCalendar(repo, nil, nil, 731)

	in := BulkUpdateInput{
		ListingID: 1,
		StartDate: "2030-07-01",
		EndDate:   "2030-07-07",
		Patch:     domain.Patch{NightlyRate: ptr(220.0), IsSpecialPricing: ptr(true), SpecialPricingReason: ptr("summer")},
		ActorID:   10,
	}

	res, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if res.DaysUpdated != 7 {
		t.Errorf("DaysUpdated = %d, want 7", res.DaysUpdated)
	}
	once := repo.snapshot()

	if _, err := uc.Execute(context.Background(), in); err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if !reflect.DeepEqual(once, repo.snapshot()) {
		t.Error("applying the same patch twice changed the stored state")
	}
}

func TestBulkUpdate_OnlyPatchedFieldsChange(t *testing.T) {
	repo := newFakeRepo()
	uc := NewBulkUpdateCalendar(repo, nil, nil, 731)

	_, err := uc.Execute(context.Background(), BulkUpdateInput{
		ListingID: 1, StartDate: "2030-07-01", EndDate: "2030-07-03",
		Patch:   domain.Patch{NightlyRate: ptr(300.0), MinimumStay: ptr(3)},
		ActorID: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = uc.Execute(context.Background(), BulkUpdateInput{
		ListingID: 1, StartDate: "2030-07-02", EndDate: "2030-07-04",
		Patch:   domain.Patch{IsAvailable: ptr(false)},
		ActorID: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	days := repo.snapshot()

	if d := days["2030-07-01"]; !d.IsAvailable || d.NightlyRate != 300 {
		t.Errorf("untouched day changed: %+v", d)
	}
	if d := days["2030-07-02"]; d.IsAvailable || d.NightlyRate != 300 || d.MinimumStay != 3 {
		t.Errorf("overlapping day lost earlier fields: %+v", d)
	}
	if d := days["2030-07-04"]; d.IsAvailable || d.NightlyRate != 150 || d.MinimumStay != 2 {
		t.Errorf("new day should take listing defaults: %+v", d)
	}
}

func TestBulkUpdate_Failures(t *testing.T) {
	valid := domain.Patch{IsAvailable: ptr(false)}

	tests := []struct {
		name  string
		in    BulkUpdateInput
		setup func(r *fakeRepo)
		code  string
	}{
		{"end before start", BulkUpdateInput{ListingID: 1, StartDate: "2030-07-05", EndDate: "2030-07-01", Patch: valid, ActorID: 10}, nil, domain.CodeInvalidRange},
		{"range too long", BulkUpdateInput{ListingID: 1, StartDate: "2030-01-01", EndDate: "2032-12-31", Patch: valid, ActorID: 10}, nil, domain.CodeInvalidRange},
		{"empty patch", BulkUpdateInput{ListingID: 1, StartDate: "2030-07-01", EndDate: "2030-07-01", ActorID: 10}, nil, domain.CodeInvalidRequest},
		{"unknown listing", BulkUpdateInput{ListingID: 9, StartDate: "2030-07-01", EndDate: "2030-07-01", Patch: valid, ActorID: 10}, nil, domain.CodeNotFound},
		{"other broker", BulkUpdateInput{ListingID: 1, StartDate: "2030-07-01", EndDate: "2030-07-01", Patch: valid, ActorID: 11}, nil, domain.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepo()
			uc := NewBulkUpdateCalendar(repo, nil, nil, 731)

			_, err := uc.Execute(context.Background(), tt.in)
			if !httperr.IsBusiness(err, tt.code) {
				t.Fatalf("expected %s, got %v", tt.code, err)
			}
			if len(repo.snapshot()) != 0 {
				t.Error("nothing should be written on failure")
			}
		})
	}
}

func TestBulkUpdate_AdminMayEditAnyListing(t *testing.T) {
	repo := newFakeRepo()
	uc := NewBulkUpdateCalendar(repo, nil, nil, 731)

	_, err := uc.Execute(context.Background(), BulkUpdateInput{
		ListingID: 1, StartDate: "2030-07-01", EndDate: "2030-07-01",
		Patch:   domain.Patch{IsAvailable: ptr(false)},
		ActorID: 99, IsAdmin: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBulkUpdate_StorageError(t *testing.T) {
	repo := newFakeRepo()
	repo.upsertErr = errors.New("deadlock detected")
	uc := NewBulkUpdateCalendar(repo, nil, nil, 731)

	_, err := uc.Execute(context.Background(), BulkUpdateInput{
		ListingID: 1, StartDate: "2030-07-01", EndDate: "2030-07-02",
		Patch:   domain.Patch{MinimumStay: ptr(4)},
		ActorID: 10,
	})

	var se *domain.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestGetCalendar_FillsDefaults(t *testing.T) {
	repo := newFakeRepo()
	_, err := NewBulkUpdateCalendar(repo, nil, nil, 731).Execute(context.Background(), BulkUpdateInput{
		ListingID: 1, StartDate: "2030-07-02", EndDate: "2030-07-02",
		Patch:   domain.Patch{NightlyRate: ptr(99.0)},
		ActorID: 10,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := NewGetCalendar(repo, 731).Execute(context.Background(), 1, "2030-07-01", "2030-07-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 days, got %d", len(got))
	}

	rates := []float64{got[0].NightlyRate, got[1].NightlyRate, got[2].NightlyRate}
	if !reflect.DeepEqual(rates, []float64{150, 99, 150}) {
		t.Errorf("rates = %v", rates)
	}
}
