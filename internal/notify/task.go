package notify

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"github.com/BruksfildServices01/estate-viewings/internal/models"
)

const TypeViewingBooked = "viewing:booked"

// ViewingBookedPayload is everything the worker needs without reading the
// database back.
type ViewingBookedPayload struct {
	ViewingID       uint      `json:"viewing_id"`
	Reference       string    `json:"reference"`
	PropertyID      uint      `json:"property_id"`
	PropertyTitle   string    `json:"property_title"`
	PropertyAddress string    `json:"property_address"`
	Timezone        string    `json:"timezone"`
	BrokerID        uint      `json:"broker_id"`
	BrokerName      string    `json:"broker_name"`
	BrokerEmail     string    `json:"broker_email"`
	VisitorName     string    `json:"visitor_name"`
	VisitorEmail    string    `json:"visitor_email"`
	VisitorPhone    string    `json:"visitor_phone"`
	PartySize       int       `json:"party_size"`
	ViewingType     string    `json:"viewing_type"`
	StartAt         time.Time `json:"start_at"`
	EndAt           time.Time `json:"end_at"`
}

func PayloadFromViewing(v *models.PropertyViewing) ViewingBookedPayload {
	return ViewingBookedPayload{
		ViewingID:       v.ID,
		Reference:       v.Reference,
		PropertyID:      v.PropertyID,
		PropertyTitle:   v.Property.Title,
		PropertyAddress: v.Property.Address,
		Timezone:        v.Property.Timezone,
		BrokerID:        v.BrokerID,
		BrokerName:      v.Broker.Name,
		BrokerEmail:     v.Broker.Email,
		VisitorName:     v.VisitorName,
		VisitorEmail:    v.VisitorEmail,
		VisitorPhone:    v.VisitorPhone,
		PartySize:       v.PartySize,
		ViewingType:     v.ViewingType,
		StartAt:         v.StartAt,
		EndAt:           v.EndAt,
	}
}

func NewViewingBookedTask(p ViewingBookedPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, nil, err
	}

	task := asynq.NewTask(TypeViewingBooked, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	if p.Reference != "" {
		opts = append(opts, asynq.TaskID("viewing-booked-"+p.Reference))
	}

	return task, opts, nil
}
