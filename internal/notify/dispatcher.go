package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher hands booking notifications to the queue off the request path.
type Dispatcher struct {
	queue    chan ViewingBookedPayload
	enqueuer Enqueuer
	log      *zap.Logger
	done     chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(enqueuer Enqueuer, log *zap.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 100
	}
	if log == nil {
		log = zap.NewNop()
	}

	d := &Dispatcher{
		queue:    make(chan ViewingBookedPayload, size),
		enqueuer: enqueuer,
		log:      log.Named("notify"),
		done:     make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for p := range d.queue {
		if err := d.enqueue(p); err != nil {
			d.log.Warn("enqueue viewing notification failed",
				zap.Uint("viewing_id", p.ViewingID),
				zap.String("reference", p.Reference),
				zap.Error(err),
			)
		}
	}
}

func (d *Dispatcher) enqueue(p ViewingBookedPayload) error {
	task, opts, err := NewViewingBookedTask(p)
	if err != nil {
		return err
	}

	_, err = d.enqueuer.EnqueueContext(context.Background(), task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		return nil
	}
	return err
}

// ViewingBooked never blocks. A full queue or a closed dispatcher drops
// the notification.
func (d *Dispatcher) ViewingBooked(p ViewingBookedPayload) {
	if d == nil {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("notify dispatcher closed, dropping notification", zap.String("reference", p.Reference))
		return
	}

	select {
	case d.queue <- p:
	default:
		d.log.Warn("notify queue full, dropping notification", zap.String("reference", p.Reference))
	}
}

// Close flushes queued notifications. Later calls are no-ops.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}
