package models

import "time"

// AvailabilitySlot is a window on one date during which a broker accepts
// viewings. Dates are YYYY-MM-DD and clocks HH:MM in the property's zone.
type AvailabilitySlot struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BrokerID uint `gorm:"index:idx_slot_broker_date;not null" json:"broker_id"`

	Date      string `gorm:"size:10;index:idx_slot_broker_date;not null" json:"date"`
	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	IsAvailable         bool `gorm:"not null;default:false" json:"is_available"`
	MaxBookings         int  `gorm:"default:1" json:"max_bookings"`
	SlotDurationMinutes int  `gorm:"default:60" json:"slot_duration_minutes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BlockedTime struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	BrokerID uint `gorm:"index;not null" json:"broker_id"`

	StartDatetime time.Time `gorm:"not null;index" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"not null" json:"end_datetime"`
	Reason        string    `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
