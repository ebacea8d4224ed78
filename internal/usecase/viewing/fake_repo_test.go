package viewing

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/estate-viewings/internal/domain/viewing"
	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

// fakeRepo is an in-memory store. Transactions serialize on a per-broker
// mutex taken by LockBroker, and CreateViewing enforces the same overlap
// rule as the database exclusion constraint.
type fakeRepo struct {
	mu sync.Mutex

	properties  map[uint]models.Property
	brokers     map[uint]models.Broker
	assignments map[[2]uint]models.PropertyBroker
	slots       []models.AvailabilitySlot
	blocked     []models.BlockedTime
	viewings    []models.PropertyViewing
	nextID      uint

	brokerLocks map[uint]*sync.Mutex
	skipLock    bool

	beforeCreate func()
	slotsErr     error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		properties:  map[uint]models.Property{},
		brokers:     map[uint]models.Broker{},
		assignments: map[[2]uint]models.PropertyBroker{},
		brokerLocks: map[uint]*sync.Mutex{},
		nextID:      1,
	}
}

func (r *fakeRepo) addProperty(id uint, title, address, tz string) {
	r.properties[id] = models.Property{ID: id, Title: title, Address: address, Timezone: tz}
}

func (r *fakeRepo) assign(propertyID, brokerID uint, active bool) {
	if _, ok := r.brokers[brokerID]; !ok {
		r.brokers[brokerID] = models.Broker{ID: brokerID, Name: "Broker", Email: "broker@example.com", Active: true}
	}
	r.assignments[[2]uint{propertyID, brokerID}] = models.PropertyBroker{
		PropertyID: propertyID,
		BrokerID:   brokerID,
		Broker:     r.brokers[brokerID],
		Active:     active,
	}
}

func (r *fakeRepo) addSlot(s models.AvailabilitySlot) {
	s.ID = uint(len(r.slots) + 1)
	r.slots = append(r.slots, s)
}

func (r *fakeRepo) seedViewing(v models.PropertyViewing) {
	v.ID = r.nextID
	r.nextID++
	r.viewings = append(r.viewings, v)
}

func (r *fakeRepo) active() []models.PropertyViewing {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.PropertyViewing
	for _, v := range r.viewings {
		if domain.Status(v.Status).IsActive() {
			out = append(out, v)
		}
	}
	return out
}

// -------- Transaction --------

type fakeTx struct {
	*fakeRepo
	held []*sync.Mutex
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	tx := &fakeTx{fakeRepo: r}
	defer func() {
		for _, m := range tx.held {
			m.Unlock()
		}
	}()
	return fn(tx)
}

func (r *fakeRepo) LockBroker(ctx context.Context, brokerID uint) error {
	return nil
}

func (tx *fakeTx) LockBroker(ctx context.Context, brokerID uint) error {
	if tx.skipLock {
		return nil
	}

	tx.mu.Lock()
	if _, ok := tx.brokers[brokerID]; !ok {
		tx.mu.Unlock()
		return domain.ErrRecordNotFound
	}
	m, ok := tx.brokerLocks[brokerID]
	if !ok {
		m = &sync.Mutex{}
		tx.brokerLocks[brokerID] = m
	}
	tx.mu.Unlock()

	m.Lock()
	tx.held = append(tx.held, m)
	return nil
}

// -------- Property / Broker --------

func (r *fakeRepo) GetProperty(ctx context.Context, id uint) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.properties[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &p, nil
}

func (r *fakeRepo) GetActiveAssignment(ctx context.Context, propertyID, brokerID uint) (*models.PropertyBroker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assignments[[2]uint{propertyID, brokerID}]
	if !ok || !a.Active || !r.brokers[brokerID].Active {
		return nil, domain.ErrRecordNotFound
	}
	return &a, nil
}

// -------- Availability --------

func (r *fakeRepo) ListAvailabilitySlots(ctx context.Context, brokerID uint, date string) ([]models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.slotsErr != nil {
		return nil, r.slotsErr
	}

	var out []models.AvailabilitySlot
	for _, s := range r.slots {
		if s.BrokerID == brokerID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListBlockedTimes(ctx context.Context, brokerID uint, from, to time.Time) ([]models.BlockedTime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.BlockedTime
	for _, b := range r.blocked {
		if b.BrokerID == brokerID && b.StartDatetime.Before(to) && b.EndDatetime.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

// -------- Viewing --------

func (r *fakeRepo) ListActiveViewingsForBroker(ctx context.Context, brokerID uint, from, to time.Time) ([]models.PropertyViewing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	window := domain.Interval{Start: from, End: to}
	var out []models.PropertyViewing
	for _, v := range r.viewings {
		if v.BrokerID == brokerID && domain.ViewingInterval(&v).Overlaps(window) && domain.Status(v.Status).IsActive() {
			v.Property = r.properties[v.PropertyID]
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateViewing(ctx context.Context, v *models.PropertyViewing) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	req := domain.ViewingInterval(v)
	for i := range r.viewings {
		other := &r.viewings[i]
		if other.BrokerID != v.BrokerID || other.PropertyID == v.PropertyID {
			continue
		}
		if domain.Status(other.Status).IsActive() && domain.ViewingInterval(other).Overlaps(req) {
			return domain.ErrViewingOverlap
		}
	}

	v.ID = r.nextID
	r.nextID++
	r.viewings = append(r.viewings, *v)
	return nil
}

func (r *fakeRepo) GetViewingForBroker(ctx context.Context, viewingID, brokerID uint) (*models.PropertyViewing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.viewings {
		if v.ID == viewingID && v.BrokerID == brokerID {
			v.Property = r.properties[v.PropertyID]
			return &v, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *fakeRepo) UpdateViewing(ctx context.Context, v *models.PropertyViewing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.viewings {
		if r.viewings[i].ID == v.ID {
			r.viewings[i] = *v
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

func (r *fakeRepo) ListViewingsForBroker(ctx context.Context, brokerID uint, date string) ([]models.PropertyViewing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.PropertyViewing
	for _, v := range r.viewings {
		if v.BrokerID == brokerID && v.ViewingDate == date {
			v.Property = r.properties[v.PropertyID]
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}
