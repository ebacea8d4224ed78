package viewing

import (
	"context"
	"errors"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

// GetOpenSlots lists the start times a visitor could book right now for a
// property with one broker on one date. It applies the same rules as
// BookViewing so an offered start is accepted unless someone books first.
type GetOpenSlots struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetOpenSlots(repo domain.Repository) *GetOpenSlots {
	return &GetOpenSlots{repo: repo, now: time.Now}
}

func (uc *GetOpenSlots) WithClock(now func() time.Time) *GetOpenSlots {
	uc.now = now
	return uc
}

func (uc *GetOpenSlots) Execute(
	ctx context.Context,
	in domain.OpenSlotsInput,
) ([]domain.OpenSlot, error) {

	property, err := uc.repo.GetProperty(ctx, in.PropertyID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrNotFound("property %d not found", in.PropertyID)
		}
		return nil, domain.WrapStorage("get property", err)
	}

	loc := timezone.Location(property.Timezone)
	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, domain.ErrInvalidRequest("date must be YYYY-MM-DD")
	}

	if _, err := uc.repo.GetActiveAssignment(ctx, in.PropertyID, in.BrokerID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrNotFound("broker %d is not assigned to property %d", in.BrokerID, in.PropertyID)
		}
		return nil, domain.WrapStorage("get assignment", err)
	}

	slots, err := uc.repo.ListAvailabilitySlots(ctx, in.BrokerID, in.Date)
	if err != nil {
		return nil, domain.WrapStorage("list availability slots", err)
	}
	if len(slots) == 0 {
		return []domain.OpenSlot{}, nil
	}

	// Candidates start on the day but may run past midnight.
	windowEnd := day.AddDate(0, 0, 1).Add(domain.MaxDurationMinutes * time.Minute)

	blocked, err := uc.repo.ListBlockedTimes(ctx, in.BrokerID, day, windowEnd)
	if err != nil {
		return nil, domain.WrapStorage("list blocked times", err)
	}

	existing, err := uc.repo.ListActiveViewingsForBroker(ctx, in.BrokerID, day, windowEnd)
	if err != nil {
		return nil, domain.WrapStorage("list broker viewings", err)
	}

	now := uc.now()
	seen := map[string]bool{}
	out := []domain.OpenSlot{}

	for i := range slots {
		if !slots[i].IsAvailable {
			continue
		}

		step := slots[i].SlotDurationMinutes
		if step <= 0 {
			step = domain.DefaultDurationMinutes
		}

		for _, clock := range domain.ExpandSlot(&slots[i]) {
			if seen[clock] {
				continue
			}

			start, err := timezone.ParseDateTime(in.Date, clock, loc)
			if err != nil || !start.After(now) {
				continue
			}
			req := domain.NewInterval(start, step)

			if domain.FirstBlocking(blocked, req) != nil {
				continue
			}
			if domain.FindDoubleBooking(existing, in.PropertyID, req) != nil {
				continue
			}

			ref := domain.SelectSlot(slots, clock)
			maxBookings := ref.MaxBookings
			if maxBookings < 1 {
				maxBookings = 1
			}
			remaining := maxBookings - domain.CountGroup(existing, in.PropertyID, start)
			if remaining <= 0 {
				continue
			}

			seen[clock] = true
			out = append(out, domain.OpenSlot{
				SlotID:    ref.ID,
				Start:     clock,
				End:       req.End.In(loc).Format(timezone.ClockLayout),
				Remaining: remaining,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}
