package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleCitizen = "citizen"
	RoleWorker  = "worker"
	RoleAdmin   = "admin"
)

func ValidRole(role string) bool {
	return role == RoleCitizen || role == RoleWorker || role == RoleAdmin
}

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Phone     string         `json:"phone"`
	Password  string         `gorm:"not null" json:"-"` // Don't expose password in JSON
	Role      string         `gorm:"not null;default:'citizen'" json:"role"`
	Status    string         `gorm:"not null;default:'active'" json:"status"`
	Avatar    string         `json:"avatar"`

	Issues       []Issue       `json:"issues,omitempty" gorm:"foreignKey:CitizenID"`
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:WorkerID"`
}
