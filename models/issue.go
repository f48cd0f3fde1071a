package models

import "time"

type Issue struct {
	ID               uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	Title            string        `gorm:"not null" json:"title"`
	Description      string        `gorm:"not null;type:text" json:"description"`
	Category         string        `gorm:"not null" json:"category"`
	Priority         IssuePriority `gorm:"not null;default:'medium';type:varchar(20)" json:"priority"`
	Status           IssueStatus   `gorm:"not null;default:'submitted';type:varchar(20)" json:"status"`
	Image            string        `json:"image"`
	CitizenID        uint          `gorm:"not null" json:"citizen_id"`
	Citizen          User          `json:"citizen,omitempty" gorm:"foreignKey:CitizenID"`
	AssignedWorkerID *uint         `json:"assigned_worker_id"`
	AssignedWorker   *User         `json:"assigned_worker,omitempty" gorm:"foreignKey:AssignedWorkerID"`
	LocationID       uint          `gorm:"not null" json:"location_id"`
	Location         Location      `json:"location,omitempty" gorm:"foreignKey:LocationID"`

	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:IssueID"`
}
