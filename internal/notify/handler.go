package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Uploader stores a blob and returns a URL for it.
type Uploader interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Handler processes viewing:booked tasks in the worker.
type Handler struct {
	uploader Uploader
	mailer   Mailer
	log      *zap.Logger
	now      func() time.Time
}

func NewHandler(uploader Uploader, mailer Mailer, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		uploader: uploader,
		mailer:   mailer,
		log:      log.Named("notify.worker"),
		now:      time.Now,
	}
}

func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeViewingBooked, h.HandleViewingBooked)
}

func (h *Handler) HandleViewingBooked(ctx context.Context, task *asynq.Task) error {
	var p ViewingBookedPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		h.log.Error("invalid viewing payload", zap.Error(err))
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	log := h.log.With(zap.String("reference", p.Reference), zap.Uint("viewing_id", p.ViewingID))

	var inviteURL string
	if h.uploader != nil {
		url, err := h.uploader.Put(ctx, InviteKey(p.Reference), BuildInvite(p, h.now()), "text/calendar; charset=utf-8")
		if err != nil {
			log.Warn("invite upload failed", zap.Error(err))
			return err
		}
		inviteURL = url
	}

	if err := h.mailer.Send(ctx, BookedMessage(p, inviteURL)); err != nil {
		log.Warn("booking email failed", zap.Error(err))
		return err
	}

	log.Info("viewing notification sent")
	return nil
}
