package models

import "time"

type Property struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:200;not null" json:"title"`
	Address  string `gorm:"size:255" json:"address"`
	City     string `gorm:"size:100" json:"city"`
	Timezone string `gorm:"size:64" json:"timezone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PropertyBroker assigns a broker to a property. Only active assignments
// allow viewings to be booked.
type PropertyBroker struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PropertyID uint     `gorm:"uniqueIndex:idx_property_broker;not null" json:"property_id"`
	Property   Property `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	BrokerID uint   `gorm:"uniqueIndex:idx_property_broker;not null" json:"broker_id"`
	Broker   Broker `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Active bool `gorm:"not null;default:false" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
