package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCategory(ctx context.Context, db *gorm.DB, category *Category) error
	FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*Category, error)
	CountCategoriesBySlug(ctx context.Context, db *gorm.DB, slug string) (int64, error)
	ListCategories(ctx context.Context, db *gorm.DB, parentID *int64) ([]Category, error)
	// ReparentCategories moves every child of fromID under toID (nil = top level).
	ReparentCategories(ctx context.Context, db *gorm.DB, fromID int64, toID *int64, updatedAt time.Time) (int64, error)
	DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error

	CreateProduct(ctx context.Context, db *gorm.DB, product *Product) error
	FindProductByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	CountProductsByCode(ctx context.Context, db *gorm.DB, code string) (int64, error)
	ListProducts(ctx context.Context, db *gorm.DB, categoryID *int64) ([]Product, error)
	CountProductsInCategory(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error)
	UpdateProduct(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error

	CreateProvider(ctx context.Context, db *gorm.DB, provider *Provider) error
	FindProviderByID(ctx context.Context, db *gorm.DB, id int64) (*Provider, error)
	CountProvidersByCode(ctx context.Context, db *gorm.DB, code string) (int64, error)
	ListProviders(ctx context.Context, db *gorm.DB) ([]Provider, error)
	UpdateProvider(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error
}
