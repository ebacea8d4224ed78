package models

import "time"

type PropertyViewing struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex" json:"reference"`

	PropertyID uint     `gorm:"index;not null" json:"property_id"`
	Property   Property `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"property"`

	BrokerID uint   `gorm:"index:idx_viewing_broker_date;index:idx_viewing_broker_start,priority:1;not null" json:"broker_id"`
	Broker   Broker `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ViewingDate     string `gorm:"size:10;index:idx_viewing_broker_date;not null" json:"viewing_date"`
	ViewingTime     string `gorm:"size:5;not null" json:"viewing_time"`
	EndTime         string `gorm:"size:5;not null" json:"end_time"`
	DurationMinutes int    `gorm:"not null" json:"duration_minutes"`

	// Absolute instants of [ViewingTime, EndTime), used by the exclusion constraint.
	StartAt time.Time `gorm:"not null;index:idx_viewing_broker_start,priority:2" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;default:'scheduled'" json:"status"`

	VisitorName     string `gorm:"size:100;not null" json:"visitor_name"`
	VisitorEmail    string `gorm:"size:100" json:"visitor_email"`
	VisitorPhone    string `gorm:"size:30" json:"visitor_phone"`
	PartySize       int    `gorm:"default:1" json:"party_size"`
	ViewingType     string `gorm:"size:30" json:"viewing_type"`
	SpecialRequests string `gorm:"size:500" json:"special_requests"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
