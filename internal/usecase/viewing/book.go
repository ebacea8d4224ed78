package viewing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/estate-viewings/internal/audit"
	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
	"github.com/BruksfildServices01/estate-viewings/internal/notify"
	"github.com/BruksfildServices01/estate-viewings/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookViewingInput struct {
	PropertyID uint
	BrokerID   uint

	ViewingDate     string
	ViewingTime     string
	DurationMinutes int

	VisitorName  string
	VisitorEmail string
	VisitorPhone string

	PartySize       int
	ViewingType     string
	SpecialRequests string
}

// Notifier receives bookings after they are committed.
type Notifier interface {
	ViewingBooked(p notify.ViewingBookedPayload)
}

// ======================================================
// USE CASE
// ======================================================

type BookViewing struct {
	repo     domain.Repository
	audit    *audit.Dispatcher
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewBookViewing(
	repo domain.Repository,
	audit *audit.Dispatcher,
	notifier Notifier,
	log *zap.Logger,
) *BookViewing {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookViewing{
		repo:     repo,
		audit:    audit,
		notifier: notifier,
		log:      log.Named("book_viewing"),
		now:      time.Now,
	}
}

// WithClock replaces the clock used for the past-booking check.
func (uc *BookViewing) WithClock(now func() time.Time) *BookViewing {
	uc.now = now
	return uc
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookViewing) Execute(
	ctx context.Context,
	in BookViewingInput,
) (*models.PropertyViewing, error) {

	// --------------------------------------------------
	// 1. Request shape
	// --------------------------------------------------
	if err := normalize(&in); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Property and its zone
	// --------------------------------------------------
	property, err := uc.repo.GetProperty(ctx, in.PropertyID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrNotFound("property %d not found", in.PropertyID)
		}
		return nil, domain.WrapStorage("get property", err)
	}

	loc := timezone.Location(property.Timezone)

	start, err := timezone.ParseDateTime(in.ViewingDate, in.ViewingTime, loc)
	if err != nil {
		return nil, domain.ErrInvalidRequest("invalid viewing date or time")
	}
	req := domain.NewInterval(start, in.DurationMinutes)

	// --------------------------------------------------
	// 3. Past requests
	// --------------------------------------------------
	if !start.After(uc.now()) {
		return nil, domain.ErrInvalidRequest("cannot book in the past")
	}

	// --------------------------------------------------
	// 4. Broker assignment
	// --------------------------------------------------
	assignment, err := uc.repo.GetActiveAssignment(ctx, in.PropertyID, in.BrokerID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrNotFound("broker %d is not assigned to property %d", in.BrokerID, in.PropertyID)
		}
		return nil, domain.WrapStorage("get assignment", err)
	}

	v := &models.PropertyViewing{
		Reference:       uuid.NewString(),
		PropertyID:      in.PropertyID,
		BrokerID:        in.BrokerID,
		ViewingDate:     in.ViewingDate,
		ViewingTime:     in.ViewingTime,
		EndTime:         req.End.In(loc).Format(timezone.ClockLayout),
		DurationMinutes: in.DurationMinutes,
		StartAt:         req.Start.UTC(),
		EndAt:           req.End.UTC(),
		Status:          string(domain.InitialStatus()),
		VisitorName:     in.VisitorName,
		VisitorEmail:    in.VisitorEmail,
		VisitorPhone:    in.VisitorPhone,
		PartySize:       in.PartySize,
		ViewingType:     in.ViewingType,
		SpecialRequests: in.SpecialRequests,
	}

	// --------------------------------------------------
	// 5. Checks and insert under the broker lock
	// --------------------------------------------------
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		return uc.resolve(ctx, tx, in, req, v)
	})
	if errors.Is(err, domain.ErrViewingOverlap) {
		err = uc.describeRace(ctx, in, req)
	}
	if err != nil {
		uc.recordConflict(in, err)
		return nil, domain.WrapStorage("book viewing", err)
	}

	v.Property = *property
	v.Broker = assignment.Broker

	// --------------------------------------------------
	// 6. Audit and notification (never roll back)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BrokerID:   &v.BrokerID,
		PropertyID: &v.PropertyID,
		Action:     "viewing_booked",
		Entity:     "property_viewing",
		EntityID:   &v.ID,
		Metadata: map[string]any{
			"reference": v.Reference,
			"date":      v.ViewingDate,
			"time":      v.ViewingTime,
		},
	})

	if uc.notifier != nil {
		uc.notifier.ViewingBooked(notify.PayloadFromViewing(v))
	}

	uc.log.Info("viewing booked",
		zap.Uint("viewing_id", v.ID),
		zap.Uint("broker_id", v.BrokerID),
		zap.Uint("property_id", v.PropertyID),
		zap.String("date", v.ViewingDate),
		zap.String("time", v.ViewingTime),
	)

	return v, nil
}

func (uc *BookViewing) resolve(
	ctx context.Context,
	tx domain.Repository,
	in BookViewingInput,
	req domain.Interval,
	v *models.PropertyViewing,
) error {
	if err := tx.LockBroker(ctx, in.BrokerID); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return domain.ErrNotFound("broker %d not found", in.BrokerID)
		}
		return domain.WrapStorage("lock broker", err)
	}

	// slot gate
	slots, err := tx.ListAvailabilitySlots(ctx, in.BrokerID, in.ViewingDate)
	if err != nil {
		return domain.WrapStorage("list availability slots", err)
	}
	slot := domain.SelectSlot(slots, in.ViewingTime)
	if slot == nil {
		return domain.ErrSlotUnavailable(in.ViewingDate, in.ViewingTime)
	}

	// blocked time
	blocked, err := tx.ListBlockedTimes(ctx, in.BrokerID, req.Start, req.End)
	if err != nil {
		return domain.WrapStorage("list blocked times", err)
	}
	if domain.FirstBlocking(blocked, req) != nil {
		return domain.ErrSlotBlocked(in.ViewingDate, in.ViewingTime)
	}

	// cross-property double booking
	existing, err := tx.ListActiveViewingsForBroker(ctx, in.BrokerID, req.Start, req.End)
	if err != nil {
		return domain.WrapStorage("list broker viewings", err)
	}
	if other := domain.FindDoubleBooking(existing, in.PropertyID, req); other != nil {
		return domain.ErrDoubleBooked(domain.DescribeConflict(other))
	}

	// same-property capacity
	maxBookings := slot.MaxBookings
	if maxBookings < 1 {
		maxBookings = 1
	}
	if booked := domain.CountGroup(existing, in.PropertyID, req.Start); booked >= maxBookings {
		return domain.ErrSlotFull(in.ViewingTime, booked, maxBookings)
	}

	if err := tx.CreateViewing(ctx, v); err != nil {
		if errors.Is(err, domain.ErrViewingOverlap) {
			return err
		}
		return domain.WrapStorage("create viewing", err)
	}
	return nil
}

// describeRace runs when the store rejected the insert after the pre-checks
// passed: another booking committed first. It looks the winner up so the
// caller still gets conflict details.
func (uc *BookViewing) describeRace(
	ctx context.Context,
	in BookViewingInput,
	req domain.Interval,
) error {
	uc.log.Warn("concurrent booking rejected by store",
		zap.Uint("broker_id", in.BrokerID),
		zap.String("date", in.ViewingDate),
		zap.String("time", in.ViewingTime),
	)

	existing, err := uc.repo.ListActiveViewingsForBroker(ctx, in.BrokerID, req.Start, req.End)
	if err != nil {
		return domain.ErrDoubleBooked(nil)
	}
	if other := domain.FindDoubleBooking(existing, in.PropertyID, req); other != nil {
		return domain.ErrDoubleBooked(domain.DescribeConflict(other))
	}
	return domain.ErrDoubleBooked(nil)
}

func (uc *BookViewing) recordConflict(in BookViewingInput, err error) {
	var details *domain.ConflictDetails
	code := ""

	if be, ok := httperr.AsBusiness(err); ok {
		code = be.Code
		details, _ = be.Details.(*domain.ConflictDetails)
	}
	if code != domain.CodeBrokerDoubleBooked && code != domain.CodeSlotFull {
		return
	}

	meta := map[string]any{
		"code": code,
		"date": in.ViewingDate,
		"time": in.ViewingTime,
	}
	if details != nil {
		meta["conflicting_viewing_id"] = details.ViewingID
		meta["conflicting_property_id"] = details.PropertyID
	}

	uc.audit.Dispatch(audit.Event{
		BrokerID:   &in.BrokerID,
		PropertyID: &in.PropertyID,
		Action:     "viewing_conflict",
		Entity:     "property_viewing",
		Metadata:   meta,
	})
}

func normalize(in *BookViewingInput) error {
	in.ViewingDate = strings.TrimSpace(in.ViewingDate)
	in.ViewingTime = strings.TrimSpace(in.ViewingTime)
	in.VisitorName = strings.TrimSpace(in.VisitorName)
	in.VisitorEmail = strings.TrimSpace(in.VisitorEmail)

	if in.PropertyID == 0 {
		return domain.ErrInvalidRequest("property id is required")
	}
	if in.BrokerID == 0 {
		return domain.ErrInvalidRequest("broker_id is required")
	}
	if _, err := time.Parse(timezone.DateLayout, in.ViewingDate); err != nil {
		return domain.ErrInvalidRequest("viewing_date must be YYYY-MM-DD")
	}
	if len(in.ViewingTime) != len(timezone.ClockLayout) {
		return domain.ErrInvalidRequest("viewing_time must be HH:MM")
	}
	if _, err := timezone.ClockMinutes(in.ViewingTime); err != nil {
		return domain.ErrInvalidRequest("viewing_time must be HH:MM")
	}

	if in.DurationMinutes == 0 {
		in.DurationMinutes = domain.DefaultDurationMinutes
	}
	if in.DurationMinutes < 0 {
		return domain.ErrInvalidRequest("duration_minutes must be positive")
	}
	if in.DurationMinutes > domain.MaxDurationMinutes {
		return domain.ErrInvalidRequest("duration_minutes must be at most %d", domain.MaxDurationMinutes)
	}
	if in.PartySize == 0 {
		in.PartySize = domain.DefaultPartySize
	}
	if in.PartySize < 0 {
		return domain.ErrInvalidRequest("party_size must be at least 1")
	}

	if in.VisitorName == "" {
		return domain.ErrInvalidRequest("visitor_name is required")
	}
	if in.VisitorEmail == "" && strings.TrimSpace(in.VisitorPhone) == "" {
		return domain.ErrInvalidRequest("visitor_email or visitor_phone is required")
	}

	return nil
}
