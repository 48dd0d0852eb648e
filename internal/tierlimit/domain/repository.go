package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, tier *TierLimit) error
	Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*TierLimit, error)
	FindByLevel(ctx context.Context, db *gorm.DB, level int) (*TierLimit, error)
	// FindNeighbours returns the nearest existing tiers below and above level,
	// skipping excludeID.
	FindNeighbours(ctx context.Context, db *gorm.DB, level int, excludeID int64) (prev *TierLimit, next *TierLimit, err error)
	List(ctx context.Context, db *gorm.DB) ([]TierLimit, error)
}
