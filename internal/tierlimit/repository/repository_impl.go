package repository

import (
	"context"
	"errors"

	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, tier *domain.TierLimit) error {
	return db.WithContext(ctx).Create(tier).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&domain.TierLimit{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.TierLimit, error) {
	return r.first(db.WithContext(ctx).Where("id = ?", id))
}

func (r *repo) FindByLevel(ctx context.Context, db *gorm.DB, level int) (*domain.TierLimit, error) {
	return r.first(db.WithContext(ctx).Where("level = ?", level))
}

func (r *repo) FindNeighbours(ctx context.Context, db *gorm.DB, level int, excludeID int64) (*domain.TierLimit, *domain.TierLimit, error) {
	prev, err := r.first(db.WithContext(ctx).
		Where("level < ? AND id <> ?", level, excludeID).
		Order("level desc"))
	if err != nil {
		return nil, nil, err
	}

	next, err := r.first(db.WithContext(ctx).
		Where("level > ? AND id <> ?", level, excludeID).
		Order("level asc"))
	if err != nil {
		return nil, nil, err
	}
	return prev, next, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.TierLimit, error) {
	var items []domain.TierLimit
	if err := db.WithContext(ctx).Order("level asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) first(stmt *gorm.DB) (*domain.TierLimit, error) {
	var item domain.TierLimit
	if err := stmt.Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
