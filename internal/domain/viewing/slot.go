package viewing

import (
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

const (
	DefaultDurationMinutes = 60
	MaxDurationMinutes     = 480
	DefaultPartySize       = 1
)

type OpenSlotsInput struct {
	PropertyID uint
	BrokerID   uint
	Date       string
}

// OpenSlot is one bookable start time with the capacity it has left.
type OpenSlot struct {
	SlotID    uint   `json:"slot_id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Remaining int    `json:"remaining"`
}

// SlotContains reports whether clock lies within [StartTime, EndTime] of s.
// Both ends are inclusive: the slot gates the requested start only.
func SlotContains(s *models.AvailabilitySlot, clock string) bool {
	at, err := timezone.ClockMinutes(clock)
	if err != nil {
		return false
	}
	from, err := timezone.ClockMinutes(s.StartTime)
	if err != nil {
		return false
	}
	to, err := timezone.ClockMinutes(s.EndTime)
	if err != nil {
		return false
	}
	return from <= at && at <= to
}

// SelectSlot picks the capacity reference among the open slots containing
// clock. When several match, the narrowest window wins; ties go to the
// latest start and then the lowest id, so the choice is deterministic.
func SelectSlot(slots []models.AvailabilitySlot, clock string) *models.AvailabilitySlot {
	var best *models.AvailabilitySlot
	bestWidth := 0

	for i := range slots {
		s := &slots[i]
		if !s.IsAvailable || !SlotContains(s, clock) {
			continue
		}

		from, _ := timezone.ClockMinutes(s.StartTime)
		to, _ := timezone.ClockMinutes(s.EndTime)
		width := to - from

		if best == nil || width < bestWidth || (width == bestWidth && betterTie(s, best)) {
			best = s
			bestWidth = width
		}
	}

	return best
}

func betterTie(a, b *models.AvailabilitySlot) bool {
	as, _ := timezone.ClockMinutes(a.StartTime)
	bs, _ := timezone.ClockMinutes(b.StartTime)
	if as != bs {
		return as > bs
	}
	return a.ID < b.ID
}

// ExpandSlot lists the start times of s spaced by its slot duration, each
// start leaving room for a full viewing before the slot ends.
func ExpandSlot(s *models.AvailabilitySlot) []string {
	from, err := timezone.ClockMinutes(s.StartTime)
	if err != nil {
		return nil
	}
	to, err := timezone.ClockMinutes(s.EndTime)
	if err != nil {
		return nil
	}

	step := s.SlotDurationMinutes
	if step <= 0 {
		step = DefaultDurationMinutes
	}

	var out []string
	for cur := from; cur+step <= to; cur += step {
		out = append(out, timezone.MinutesToClock(cur))
	}
	return out
}
