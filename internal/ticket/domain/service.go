package domain

import (
	"context"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	// Close is idempotent; closing a closed ticket returns it unchanged.
	Close(ctx context.Context, id string) (*Response, error)
	Assign(ctx context.Context, id string, staffID string) (*Response, error)
	RecordReply(ctx context.Context, id string, req ReplyRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

type CreateRequest struct {
	UserID        string         `json:"user_id"`
	CategoryID    string         `json:"category_id"`
	Subject       string         `json:"subject"`
	Description   string         `json:"description"`
	TransactionID *string        `json:"transaction_id"`
	Priority      string         `json:"priority"`
	Attachments   []string       `json:"attachments"`
	Metadata      map[string]any `json:"metadata"`

	// Status is accepted for compatibility and ignored; tickets always start open.
	Status string `json:"status"`
}

type UpdateRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AssignedTo *string `json:"assigned_to"`
}

type ReplyRequest struct {
	FromStaff bool `json:"from_staff"`
}

type ListRequest struct {
	pagination.Pagination
	Status     string
	Priority   string
	UserID     string
	AssignedTo string
}

type ListResponse struct {
	Tickets []Response      `json:"tickets"`
	Meta    pagination.Meta `json:"meta"`
}

type Response struct {
	ID            string         `json:"id"`
	TicketNumber  string         `json:"ticket_number"`
	UserID        string         `json:"user_id"`
	AssignedTo    *string        `json:"assigned_to,omitempty"`
	CategoryID    string         `json:"category_id"`
	Subject       string         `json:"subject"`
	Description   string         `json:"description"`
	Status        Status         `json:"status"`
	Priority      Priority       `json:"priority"`
	TransactionID *string        `json:"transaction_id,omitempty"`
	Attachments   []string       `json:"attachments"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	LastRepliedAt *time.Time     `json:"last_replied_at,omitempty"`
	ResolvedAt    *time.Time     `json:"resolved_at,omitempty"`
	ClosedAt      *time.Time     `json:"closed_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

var (
	ErrInvalidID          = apperror.Validation("invalid_id")
	ErrInvalidUserID      = apperror.Validation("invalid_user_id")
	ErrInvalidCategoryID  = apperror.Validation("invalid_category_id")
	ErrInvalidSubject     = apperror.Validation("invalid_subject")
	ErrInvalidDescription = apperror.Validation("invalid_description")
	ErrInvalidStatus      = apperror.Validation("invalid_status")
	ErrInvalidPriority    = apperror.Validation("invalid_priority")
	ErrInvalidAssignee    = apperror.Validation("invalid_assigned_to")

	ErrNotFound        = apperror.NotFound("ticket_not_found")
	ErrClosed          = apperror.Conflict("ticket_closed")
	ErrNumberExhausted = apperror.Conflict("ticket_number_exhausted")

	ErrReadBackFailed = apperror.Internal("ticket_read_back_failed")
)
