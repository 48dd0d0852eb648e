package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cfg *domain.FeeConfiguration) error {
	return db.WithContext(ctx).Create(cfg).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&domain.FeeConfiguration{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*domain.FeeConfiguration, error) {
	return r.first(ctx, db,
		option.WithWhere("id = ?", id),
		option.ForUpdate(forUpdate),
	)
}

func (r *repo) FindByPair(ctx context.Context, db *gorm.DB, productID, providerID int64, forUpdate bool) (*domain.FeeConfiguration, error) {
	return r.first(ctx, db,
		option.WithWhere("product_id = ? AND provider_id = ?", productID, providerID),
		option.ForUpdate(forUpdate),
	)
}

func (r *repo) ClearDefaults(ctx context.Context, db *gorm.DB, productID, exceptID int64, updatedAt time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.FeeConfiguration{}).
		Where("product_id = ? AND id <> ? AND is_default = ?", productID, exceptID, true).
		Updates(map[string]any{
			"is_default": false,
			"updated_at": updatedAt,
		})
	return res.RowsAffected, res.Error
}

func (r *repo) FindDefault(ctx context.Context, db *gorm.DB, productID int64) (*domain.FeeConfiguration, error) {
	return r.first(ctx, db,
		option.WithWhere("product_id = ? AND is_default = ? AND is_enabled = ?", productID, true, true),
	)
}

func (r *repo) FindFirstEnabled(ctx context.Context, db *gorm.DB, productID int64) (*domain.FeeConfiguration, error) {
	return r.first(ctx, db,
		option.WithWhere("product_id = ? AND is_enabled = ?", productID, true),
		option.WithOrderBy("priority", false),
		option.WithOrderBy("created_at", false),
		option.WithOrderBy("id", false),
	)
}

func (r *repo) ListByProduct(ctx context.Context, db *gorm.DB, productID int64) ([]domain.FeeConfiguration, error) {
	var items []domain.FeeConfiguration
	stmt := db.WithContext(ctx).Model(&domain.FeeConfiguration{})
	for _, opt := range []option.QueryOption{
		option.WithWhere("product_id = ?", productID),
		option.WithOrderBy("priority", false),
		option.WithOrderBy("created_at", false),
		option.WithOrderBy("id", false),
	} {
		stmt = opt.Apply(stmt)
	}
	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) first(ctx context.Context, db *gorm.DB, opts ...option.QueryOption) (*domain.FeeConfiguration, error) {
	var item domain.FeeConfiguration
	stmt := db.WithContext(ctx).Model(&domain.FeeConfiguration{})
	for _, opt := range opts {
		stmt = opt.Apply(stmt)
	}
	if err := stmt.Take(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}
