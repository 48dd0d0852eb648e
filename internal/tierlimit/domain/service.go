package domain

import (
	"context"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	GetByLevel(ctx context.Context, level int) (*Response, error)
}

type CreateRequest struct {
	Level          int             `json:"level"`
	DailyLimit     decimal.Decimal `json:"daily_limit"`
	MaximumBalance decimal.Decimal `json:"maximum_balance"`
	Requirements   *Requirements   `json:"requirements"`
	Metadata       map[string]any  `json:"metadata"`
}

// UpdateRequest merges only the non-nil fields.
type UpdateRequest struct {
	Level          *int             `json:"level"`
	DailyLimit     *decimal.Decimal `json:"daily_limit"`
	MaximumBalance *decimal.Decimal `json:"maximum_balance"`
	Requirements   *Requirements    `json:"requirements"`
	Metadata       map[string]any   `json:"metadata"`
}

type Response struct {
	ID             string          `json:"id"`
	Level          int             `json:"level"`
	DailyLimit     decimal.Decimal `json:"daily_limit"`
	MaximumBalance decimal.Decimal `json:"maximum_balance"`
	Requirements   *Requirements   `json:"requirements,omitempty"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

var (
	ErrInvalidID             = apperror.Validation("invalid_id")
	ErrInvalidLevel          = apperror.Validation("invalid_level")
	ErrInvalidDailyLimit     = apperror.Validation("invalid_daily_limit")
	ErrInvalidMaximumBalance = apperror.Validation("invalid_maximum_balance")
	ErrNotMonotonic          = apperror.Validation("tier_limit_not_monotonic")
	ErrNotFound              = apperror.NotFound("tier_limit_not_found")
	ErrLevelExists           = apperror.Conflict("tier_level_exists")
	ErrReadBackFailed        = apperror.Internal("tier_limit_read_back_failed")
)
