package models

import "time"

// Payment statuses
const (
	PaymentCompleted = "completed"
	PaymentPending   = "pending"
	PaymentFailed    = "failed"
)

// Payment is a disbursement record. There are no update or delete
// endpoints; a payment row is immutable once written.
type Payment struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	IssueID       uint      `gorm:"not null;index" json:"issue_id"`
	Issue         Issue     `json:"issue,omitempty" gorm:"foreignKey:IssueID"`
	CitizenID     uint      `gorm:"not null" json:"citizen_id"`
	WorkerID      uint      `gorm:"not null;index" json:"worker_id"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Method        string    `gorm:"not null" json:"method"`
	Status        string    `gorm:"not null;default:'completed'" json:"status"`
	TransactionID string    `gorm:"not null;unique" json:"transaction_id"`
}
