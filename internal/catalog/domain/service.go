package domain

import (
	"context"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
)

type Service interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	ListCategories(ctx context.Context, parentID string) ([]CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (*ProductResponse, error)
	ListProducts(ctx context.Context, categoryID string) ([]ProductResponse, error)

	CreateProvider(ctx context.Context, req CreateProviderRequest) (*ProviderResponse, error)
	GetProvider(ctx context.Context, id string) (*ProviderResponse, error)
	UpdateProvider(ctx context.Context, id string, req UpdateProviderRequest) (*ProviderResponse, error)
	ListProviders(ctx context.Context) ([]ProviderResponse, error)

	// ProductExists and ProviderExists back the fee resolver's reference checks.
	ProductExists(ctx context.Context, id int64) (bool, error)
	ProviderExists(ctx context.Context, id int64) (bool, error)
}

type CreateCategoryRequest struct {
	ParentID    string         `json:"parent_id"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description"`
	IsActive    *bool          `json:"is_active"`
	Metadata    map[string]any `json:"metadata"`
}

type CreateProductRequest struct {
	CategoryID  string         `json:"category_id"`
	Name        string         `json:"name"`
	Code        string         `json:"code"`
	Description *string        `json:"description"`
	IsActive    *bool          `json:"is_active"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateProductRequest leaves nil fields untouched. Codes are immutable.
type UpdateProductRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	IsActive    *bool          `json:"is_active"`
	Metadata    map[string]any `json:"metadata"`
}

type CreateProviderRequest struct {
	Name     string         `json:"name"`
	Code     string         `json:"code"`
	IsActive *bool          `json:"is_active"`
	Metadata map[string]any `json:"metadata"`
}

type UpdateProviderRequest struct {
	Name     *string        `json:"name"`
	IsActive *bool          `json:"is_active"`
	Metadata map[string]any `json:"metadata"`
}

type CategoryResponse struct {
	ID          string         `json:"id"`
	ParentID    *string        `json:"parent_id,omitempty"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ProductResponse struct {
	ID          string         `json:"id"`
	CategoryID  string         `json:"category_id"`
	Name        string         `json:"name"`
	Code        string         `json:"code"`
	Description *string        `json:"description,omitempty"`
	IsActive    bool           `json:"is_active"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ProviderResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Code      string         `json:"code"`
	IsActive  bool           `json:"is_active"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

var (
	ErrInvalidID       = apperror.Validation("invalid_id")
	ErrInvalidName     = apperror.Validation("invalid_name")
	ErrInvalidSlug     = apperror.Validation("invalid_slug")
	ErrInvalidCode     = apperror.Validation("invalid_code")
	ErrInvalidParent   = apperror.Validation("invalid_parent_id")
	ErrInvalidCategory = apperror.Validation("invalid_category_id")

	ErrCategoryNotFound = apperror.NotFound("category_not_found")
	ErrProductNotFound  = apperror.NotFound("product_not_found")
	ErrProviderNotFound = apperror.NotFound("provider_not_found")

	ErrCategorySlugExists = apperror.Conflict("category_slug_exists")
	ErrProductCodeExists  = apperror.Conflict("product_code_exists")
	ErrProviderCodeExists = apperror.Conflict("provider_code_exists")
	ErrCategoryInUse      = apperror.Conflict("category_in_use")
)
