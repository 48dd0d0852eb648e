package domain

import (
	"context"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/pagination"
	"gorm.io/gorm"
)

type Service interface {
	// Record appends an entry using db, so callers can enlist it in their
	// own transaction. A nil db uses the service connection.
	Record(ctx context.Context, db *gorm.DB, req RecordRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

type RecordRequest struct {
	UserID      string         `json:"user_id"`
	Type        string         `json:"type"`
	Description *string        `json:"description"`
	Source      string         `json:"source"`
	ClientID    *string        `json:"client_id"`
	DeviceInfo  *string        `json:"device_info"`
	IPAddress   *string        `json:"ip_address"`
	UserAgent   *string        `json:"user_agent"`
	Location    *string        `json:"location"`
	Metadata    map[string]any `json:"metadata"`
}

type ListRequest struct {
	pagination.Pagination
	UserID    string
	Type      string
	Source    string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
}

type ListResponse struct {
	Logs []Response      `json:"logs"`
	Meta pagination.Meta `json:"meta"`
}

type Response struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Type        ActivityType   `json:"type"`
	Description *string        `json:"description,omitempty"`
	Source      ClientSource   `json:"source"`
	ClientID    *string        `json:"client_id,omitempty"`
	DeviceInfo  *string        `json:"device_info,omitempty"`
	IPAddress   *string        `json:"ip_address,omitempty"`
	UserAgent   *string        `json:"user_agent,omitempty"`
	Location    *string        `json:"location,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

var (
	ErrInvalidUserID    = apperror.Validation("invalid_user_id")
	ErrInvalidType      = apperror.Validation("invalid_type")
	ErrInvalidSource    = apperror.Validation("invalid_source")
	ErrInvalidTimeRange = apperror.Validation("invalid_time_range")
)
