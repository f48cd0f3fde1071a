package models

import "time"

// Application is a worker's bid on an issue. One worker holds at most one
// application per issue; controllers check before inserting.
type Application struct {
	ID            uint              `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	IssueID       uint              `gorm:"not null;index" json:"issue_id"`
	Issue         Issue             `json:"issue,omitempty" gorm:"foreignKey:IssueID"`
	WorkerID      uint              `gorm:"not null;index" json:"worker_id"`
	Worker        User              `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	EstimatedCost float64           `gorm:"not null" json:"estimated_cost"`
	EstimatedTime string            `gorm:"not null" json:"estimated_time"`
	Proposal      string            `gorm:"type:text" json:"proposal"`
	Status        ApplicationStatus `gorm:"not null;default:'submitted';type:varchar(20)" json:"status"`
	Feedback      string            `json:"feedback"`
}
