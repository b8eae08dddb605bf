package model

import "time"

type ReviewFlag string

const (
	ReviewFlagYes ReviewFlag = "YES"
	ReviewFlagNo  ReviewFlag = "NO"
)

// CategoryUncategorized is substituted for an absent category during loading.
const CategoryUncategorized = "Uncategorized"

// Ticket is one row of the categorized support-ticket export. Records are
// immutable after loading; date fields are nil when the source value was
// absent or unparseable.
type Ticket struct {
	Key        string     `json:"key,omitempty"`
	Summary    string     `json:"summary"`
	Category   string     `json:"category"`
	ReviewFlag ReviewFlag `json:"review_flag"`
	Status     string     `json:"status,omitempty"`
	Priority   string     `json:"priority,omitempty"`
	Assignee   string     `json:"assignee,omitempty"`

	Created    *time.Time `json:"created,omitempty"`
	Updated    *time.Time `json:"updated,omitempty"`
	LastViewed *time.Time `json:"last_viewed,omitempty"`
	Resolved   *time.Time `json:"resolved,omitempty"`
}

// IsResolved reports whether the ticket has a resolution timestamp.
func (t *Ticket) IsResolved() bool {
	return t.Resolved != nil
}

// IsFlagged reports whether the ticket was flagged for manual review.
func (t *Ticket) IsFlagged() bool {
	return t.ReviewFlag == ReviewFlagYes
}
