package viewing

import (
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/models"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, durationMin int) Interval {
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMin) * time.Minute),
	}
}

// Overlaps is strict: intervals that only touch (a.End == b.Start) do not overlap.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

func ViewingInterval(v *models.PropertyViewing) Interval {
	if !v.EndAt.IsZero() {
		return Interval{Start: v.StartAt, End: v.EndAt}
	}
	return NewInterval(v.StartAt, v.DurationMinutes)
}

func BlockedInterval(b *models.BlockedTime) Interval {
	return Interval{Start: b.StartDatetime, End: b.EndDatetime}
}

// FirstBlocking returns the first blocked window that intersects req.
func FirstBlocking(blocked []models.BlockedTime, req Interval) *models.BlockedTime {
	for i := range blocked {
		if BlockedInterval(&blocked[i]).Overlaps(req) {
			return &blocked[i]
		}
	}
	return nil
}

// FindDoubleBooking looks for an active viewing of the broker that overlaps
// req on any property. Viewings of the same property starting at the same
// instant share the slot (a group viewing) and are left to the capacity
// check instead.
func FindDoubleBooking(
	existing []models.PropertyViewing,
	propertyID uint,
	req Interval,
) *models.PropertyViewing {
	for i := range existing {
		v := &existing[i]
		if !Status(v.Status).IsActive() {
			continue
		}
		if isGroupMember(v, propertyID, req.Start) {
			continue
		}
		if ViewingInterval(v).Overlaps(req) {
			return v
		}
	}
	return nil
}

// CountGroup counts active viewings for one property at an exact start instant.
func CountGroup(existing []models.PropertyViewing, propertyID uint, start time.Time) int {
	n := 0
	for i := range existing {
		v := &existing[i]
		if isGroupMember(v, propertyID, start) && Status(v.Status).IsActive() {
			n++
		}
	}
	return n
}

func isGroupMember(v *models.PropertyViewing, propertyID uint, start time.Time) bool {
	return v.PropertyID == propertyID && v.StartAt.Equal(start)
}

func DescribeConflict(v *models.PropertyViewing) *ConflictDetails {
	iv := ViewingInterval(v)
	loc := v.StartAt.Location()

	start := v.ViewingTime
	if start == "" {
		start = iv.Start.In(loc).Format(timezone.ClockLayout)
	}
	end := v.EndTime
	if end == "" {
		end = iv.End.In(loc).Format(timezone.ClockLayout)
	}

	return &ConflictDetails{
		ViewingID:       v.ID,
		PropertyID:      v.PropertyID,
		PropertyTitle:   v.Property.Title,
		PropertyAddress: v.Property.Address,
		Date:            v.ViewingDate,
		StartTime:       start,
		EndTime:         end,
		TimeRange:       start + " - " + end,
	}
}
