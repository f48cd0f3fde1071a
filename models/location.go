package models

import "time"

// Location is attached 1:1 to an issue when the issue is created and is
// never updated afterwards.
type Location struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Upazila     string    `gorm:"not null" json:"upazila"`
	District    string    `gorm:"not null" json:"district"`
	FullAddress string    `gorm:"not null" json:"full_address"`
	Latitude    *float64  `json:"latitude,omitempty"`
	Longitude   *float64  `json:"longitude,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
