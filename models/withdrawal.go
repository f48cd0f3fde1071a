package models

import "time"

// Withdrawal statuses
const (
	WithdrawalProcessing = "processing"
	WithdrawalSuccessful = "successful"
	WithdrawalFailed     = "failed"
)

// WithdrawalMethods is the accepted payout channel list.
var WithdrawalMethods = []string{"bkash", "nagad", "rocket", "bank"}

func ValidWithdrawalMethod(method string) bool {
	for _, m := range WithdrawalMethods {
		if m == method {
			return true
		}
	}
	return false
}

// Withdrawal is a worker's request to cash out balance. Balance itself is
// never stored; it is computed from completed payments minus non-failed
// withdrawals.
type Withdrawal struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	WorkerID      uint      `gorm:"not null;index" json:"worker_id"`
	Worker        User      `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	Method        string    `gorm:"not null" json:"method"`
	AccountNumber string    `gorm:"not null" json:"account_number"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Status        string    `gorm:"not null;default:'processing'" json:"status"`
}
