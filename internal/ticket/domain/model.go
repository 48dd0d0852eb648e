package domain

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusOpen              Status = "open"
	StatusPending           Status = "pending"
	StatusInProgress        Status = "in_progress"
	StatusAwaitingUserReply Status = "awaiting_user_reply"
	StatusResolved          Status = "resolved"
	StatusClosed            Status = "closed"
)

var statusAliases = map[string]Status{
	"inprogress":        StatusInProgress,
	"awaitinguserreply": StatusAwaitingUserReply,
}

func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusPending, StatusInProgress, StatusAwaitingUserReply, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusClosed
}

// ParseStatus accepts the wire values plus the camelCase spellings used by
// older clients (inProgress, awaitingUserReply).
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	if alias, ok := statusAliases[normalized]; ok {
		return alias, nil
	}
	s := Status(normalized)
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func ParsePriority(value string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(value)))
	if !p.Valid() {
		return "", ErrInvalidPriority
	}
	return p, nil
}

type Ticket struct {
	ID            int64                       `json:"id" gorm:"primaryKey"`
	TicketNumber  string                      `json:"ticket_number" gorm:"type:text;not null;uniqueIndex:ux_support_tickets_ticket_number"`
	UserID        string                      `json:"user_id" gorm:"type:text;not null;index:ix_support_tickets_user_id"`
	AssignedTo    *string                     `json:"assigned_to,omitempty" gorm:"type:text;index:ix_support_tickets_assigned_to"`
	CategoryID    string                      `json:"category_id" gorm:"type:text;not null"`
	Subject       string                      `json:"subject" gorm:"type:text;not null"`
	Description   string                      `json:"description" gorm:"type:text;not null"`
	Status        Status                      `json:"status" gorm:"type:text;not null;index:ix_support_tickets_status"`
	Priority      Priority                    `json:"priority" gorm:"type:text;not null"`
	TransactionID *string                     `json:"transaction_id,omitempty" gorm:"type:text"`
	Attachments   datatypes.JSONSlice[string] `json:"attachments,omitempty"`
	Metadata      datatypes.JSONMap           `json:"metadata,omitempty"`
	LastRepliedAt *time.Time                  `json:"last_replied_at,omitempty"`
	ResolvedAt    *time.Time                  `json:"resolved_at,omitempty"`
	ClosedAt      *time.Time                  `json:"closed_at,omitempty"`
	CreatedAt     time.Time                   `json:"created_at" gorm:"not null;index:ix_support_tickets_created_at"`
	UpdatedAt     time.Time                   `json:"updated_at" gorm:"not null"`
}

func (Ticket) TableName() string { return "support_tickets" }
