package models

import "time"

type RentalListing struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	BrokerID uint   `gorm:"index;not null" json:"broker_id"`
	Title    string `gorm:"size:200;not null" json:"title"`

	BaseNightlyRate    float64 `gorm:"not null;default:0" json:"base_nightly_rate"`
	DefaultMinimumStay int     `gorm:"not null;default:1" json:"default_minimum_stay"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RentalCalendarDay overrides availability and pricing of one listing night.
type RentalCalendarDay struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ListingID uint   `gorm:"uniqueIndex:idx_calendar_listing_date;not null" json:"listing_id"`
	Date      string `gorm:"size:10;uniqueIndex:idx_calendar_listing_date;not null" json:"date"`

	IsAvailable          bool    `gorm:"not null;default:false" json:"is_available"`
	NightlyRate          float64 `gorm:"not null;default:0" json:"nightly_rate"`
	MinimumStay          int     `gorm:"not null;default:1" json:"minimum_stay"`
	IsSpecialPricing     bool    `gorm:"not null;default:false" json:"is_special_pricing"`
	SpecialPricingReason string  `gorm:"size:255" json:"special_pricing_reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
