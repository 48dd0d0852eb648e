package domain

import (
	"context"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/shopspring/decimal"
)

type Service interface {
	// Configure upserts the link for a product/provider pair. Setting
	// IsDefault demotes every other default link of the same product.
	Configure(ctx context.Context, req ConfigureRequest) (*Response, error)
	ResolveEffectiveFee(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
	ResolveDefault(ctx context.Context, productID string) (*Response, error)
	Get(ctx context.Context, productID, providerID string) (*Response, error)
	List(ctx context.Context, productID string) ([]Response, error)
	SetEnabled(ctx context.Context, id string, enabled bool) (*Response, error)
}

type ConfigureRequest struct {
	ProductID           string           `json:"product_id"`
	ProviderID          string           `json:"provider_id"`
	ProviderProductCode string           `json:"provider_product_code"`
	FeeType             string           `json:"fee_type"`
	FeeValue            decimal.Decimal  `json:"fee_value"`
	MinFee              *decimal.Decimal `json:"min_fee"`
	MaxFee              *decimal.Decimal `json:"max_fee"`
	Priority            int              `json:"priority"`
	IsEnabled           *bool            `json:"is_enabled"`
	IsDefault           bool             `json:"is_default"`
	Metadata            map[string]any   `json:"metadata"`
}

type QuoteRequest struct {
	ProductID  string          `json:"product_id"`
	ProviderID string          `json:"provider_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type QuoteResponse struct {
	FeeConfigurationID string          `json:"fee_configuration_id"`
	ProductID          string          `json:"product_id"`
	ProviderID         string          `json:"provider_id"`
	FeeType            FeeType         `json:"fee_type"`
	Amount             decimal.Decimal `json:"amount"`
	Fee                decimal.Decimal `json:"fee"`
}

type Response struct {
	ID                  string           `json:"id"`
	ProductID           string           `json:"product_id"`
	ProviderID          string           `json:"provider_id"`
	ProviderProductCode string           `json:"provider_product_code"`
	FeeType             FeeType          `json:"fee_type"`
	FeeValue            decimal.Decimal  `json:"fee_value"`
	MinFee              *decimal.Decimal `json:"min_fee,omitempty"`
	MaxFee              *decimal.Decimal `json:"max_fee,omitempty"`
	Priority            int              `json:"priority"`
	IsEnabled           bool             `json:"is_enabled"`
	IsDefault           bool             `json:"is_default"`
	Metadata            map[string]any   `json:"metadata,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

var (
	ErrInvalidID                  = apperror.Validation("invalid_id")
	ErrInvalidProduct             = apperror.Validation("invalid_product_id")
	ErrInvalidProvider            = apperror.Validation("invalid_provider_id")
	ErrInvalidProviderProductCode = apperror.Validation("invalid_provider_product_code")
	ErrInvalidFeeType             = apperror.Validation("invalid_fee_type")
	ErrInvalidFeeValue            = apperror.Validation("invalid_fee_value")
	ErrInvalidMinFee              = apperror.Validation("invalid_min_fee")
	ErrInvalidMaxFee              = apperror.Validation("invalid_max_fee")
	ErrInvalidFeeRange            = apperror.Validation("invalid_fee_range")
	ErrInvalidPriority            = apperror.Validation("invalid_priority")
	ErrInvalidDefault             = apperror.Validation("invalid_is_default")
	ErrInvalidAmount              = apperror.Validation("invalid_amount")

	ErrNotFound         = apperror.NotFound("fee_configuration_not_found")
	ErrProductNotFound  = apperror.NotFound("product_not_found")
	ErrProviderNotFound = apperror.NotFound("provider_not_found")

	ErrAlreadyExists     = apperror.Conflict("fee_configuration_exists")
	ErrProductCodeExists = apperror.Conflict("provider_product_code_exists")
	ErrDisabled          = apperror.Conflict("fee_configuration_disabled")
	ErrBusy              = apperror.Conflict("fee_configuration_busy")

	ErrReadBackFailed = apperror.Internal("fee_configuration_read_back_failed")
)
