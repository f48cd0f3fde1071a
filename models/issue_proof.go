package models

import "time"

// IssueProof is the worker's evidence of completed work. One proof per
// issue; an admin review either approves it (issue resolved) or rejects it
// (issue returns to in_progress so the worker can resubmit).
type IssueProof struct {
	ID                 uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	IssueID            uint        `gorm:"not null;index" json:"issue_id"`
	Issue              Issue       `json:"issue,omitempty" gorm:"foreignKey:IssueID"`
	WorkerID           uint        `gorm:"not null" json:"worker_id"`
	Worker             User        `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
	Photo              string      `gorm:"not null" json:"photo"`
	Description        string      `gorm:"not null;type:text" json:"description"`
	VerificationStatus ProofStatus `gorm:"not null;default:'pending';type:varchar(20)" json:"verification_status"`
	ReviewerID         *uint       `json:"reviewer_id"`
	ReviewNote         string      `json:"review_note"`
	ReviewedAt         *time.Time  `json:"reviewed_at"`
}
