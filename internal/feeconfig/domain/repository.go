package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cfg *FeeConfiguration) error
	Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error
	FindByID(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*FeeConfiguration, error)
	FindByPair(ctx context.Context, db *gorm.DB, productID, providerID int64, forUpdate bool) (*FeeConfiguration, error)
	// ClearDefaults drops the default flag from every link of productID except
	// exceptID and reports how many rows changed.
	ClearDefaults(ctx context.Context, db *gorm.DB, productID, exceptID int64, updatedAt time.Time) (int64, error)
	FindDefault(ctx context.Context, db *gorm.DB, productID int64) (*FeeConfiguration, error)
	FindFirstEnabled(ctx context.Context, db *gorm.DB, productID int64) (*FeeConfiguration, error)
	ListByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]FeeConfiguration, error)
}
