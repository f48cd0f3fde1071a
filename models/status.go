package models

// IssueStatus enum
type IssueStatus string

const (
	IssueSubmitted   IssueStatus = "submitted"
	IssueApplied     IssueStatus = "applied"
	IssueAssigned    IssueStatus = "assigned"
	IssueInProgress  IssueStatus = "in_progress"
	IssueUnderReview IssueStatus = "under_review"
	IssueResolved    IssueStatus = "resolved"
	IssueClosed      IssueStatus = "closed"
)

// ApplicationStatus enum
type ApplicationStatus string

const (
	ApplicationSubmitted ApplicationStatus = "submitted"
	ApplicationAccepted  ApplicationStatus = "accepted"
	ApplicationRejected  ApplicationStatus = "rejected"
)

// ProofStatus enum
type ProofStatus string

const (
	ProofPending  ProofStatus = "pending"
	ProofApproved ProofStatus = "approved"
	ProofRejected ProofStatus = "rejected"
)

// issueTransitions is the single source of truth for the issue lifecycle.
// Every status change in the API goes through CanTransition; controllers
// never compare and flip status strings on their own.
var issueTransitions = map[IssueStatus][]IssueStatus{
	IssueSubmitted:   {IssueApplied, IssueAssigned},
	IssueApplied:     {IssueAssigned},
	IssueAssigned:    {IssueInProgress},
	IssueInProgress:  {IssueUnderReview},
	IssueUnderReview: {IssueResolved, IssueInProgress},
	IssueResolved:    {IssueClosed},
	IssueClosed:      {},
}

func (s IssueStatus) Valid() bool {
	_, ok := issueTransitions[s]
	return ok
}

// CanTransition reports whether moving from s to next is an allowed
// lifecycle step.
func (s IssueStatus) CanTransition(next IssueStatus) bool {
	for _, allowed := range issueTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions exist from s.
func (s IssueStatus) Terminal() bool {
	return len(issueTransitions[s]) == 0
}

func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationAccepted || s == ApplicationRejected
}

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

func (p IssuePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
