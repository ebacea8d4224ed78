package viewing

import (
	"context"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

func TestGetOpenSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.addProperty(propertyX, "Harbour Loft", "1 Dock Rd", "UTC")
	repo.addProperty(propertyY, "Garden House", "9 Elm St", "UTC")
	repo.assign(propertyX, brokerID, true)
	repo.assign(propertyY, brokerID, true)
	repo.addSlot(models.AvailabilitySlot{BrokerID: brokerID, Date: testDate, StartTime: "09:00", EndTime: "13:00", IsAvailable: true, MaxBookings: 2, SlotDurationMinutes: 60})
	repo.blocked = []models.BlockedTime{{
		BrokerID:      brokerID,
		StartDatetime: time.Date(2030, 3, 4, 12, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2030, 3, 4, 13, 0, 0, 0, time.UTC),
	}}

	uc, _ := newBooker(repo)
	mustBook(t, uc, request(propertyX, "09:00", 60))
	mustBook(t, uc, request(propertyY, "10:00", 60))

	slots := NewGetOpenSlots(repo).WithClock(func() time.Time { return fixedNow })
	got, err := slots.Execute(context.Background(), domain.OpenSlotsInput{
		PropertyID: propertyX,
		BrokerID:   brokerID,
		Date:       testDate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 09:00 has one seat left in the group, 10:00 is taken on another
	// property, 11:00 is free and 12:00 is blocked.
	want := []domain.OpenSlot{
		{SlotID: 1, Start: "09:00", End: "10:00", Remaining: 1},
		{SlotID: 1, Start: "11:00", End: "12:00", Remaining: 2},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGetOpenSlots_PastDayIsEmpty(t *testing.T) {
	repo := newFixture()
	repo.addSlot(models.AvailabilitySlot{BrokerID: brokerID, Date: "2030-02-01", StartTime: "09:00", EndTime: "12:00", IsAvailable: true, MaxBookings: 1})

	got, err := NewGetOpenSlots(repo).WithClock(func() time.Time { return fixedNow }).Execute(context.Background(), domain.OpenSlotsInput{
		PropertyID: propertyX,
		BrokerID:   brokerID,
		Date:       "2030-02-01",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no slots in the past, got %+v", got)
	}
}

func TestGetOpenSlots_HidesStartsTakenByPreviousEvening(t *testing.T) {
	repo := newFixture()
	repo.addSlot(models.AvailabilitySlot{BrokerID: brokerID, Date: testDate, StartTime: "23:00", EndTime: "23:59", IsAvailable: true, MaxBookings: 1})
	repo.addSlot(models.AvailabilitySlot{BrokerID: brokerID, Date: "2030-03-05", StartTime: "00:00", EndTime: "02:00", IsAvailable: true, MaxBookings: 1, SlotDurationMinutes: 30})

	uc, _ := newBooker(repo)
	mustBook(t, uc, request(propertyX, "23:30", 60))

	got, err := NewGetOpenSlots(repo).WithClock(func() time.Time { return fixedNow }).Execute(context.Background(), domain.OpenSlotsInput{
		PropertyID: propertyY,
		BrokerID:   brokerID,
		Date:       "2030-03-05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) == 0 || got[0].Start != "00:30" {
		t.Fatalf("expected the first open start to be 00:30, got %+v", got)
	}
	for _, s := range got {
		if s.Start == "00:00" {
			t.Errorf("00:00 overlaps the viewing running until 00:30")
		}
	}
}
