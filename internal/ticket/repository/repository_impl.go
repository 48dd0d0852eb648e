package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/option"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, ticket *domain.Ticket) error {
	return db.WithContext(ctx).Create(ticket).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Model(&domain.Ticket{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*domain.Ticket, error) {
	var ticket domain.Ticket
	stmt := db.WithContext(ctx)
	for _, opt := range []option.QueryOption{
		option.WithWhere("id = ?", id),
		option.ForUpdate(forUpdate),
	} {
		stmt = opt.Apply(stmt)
	}
	if err := stmt.Take(&ticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Ticket, error) {
	var items []domain.Ticket
	stmt := applyFilter(db.WithContext(ctx).Model(&domain.Ticket{}), filter).
		Order("created_at desc, id desc")

	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		stmt = stmt.Offset(filter.Offset)
	}

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, filter domain.ListFilter) (int64, error) {
	var total int64
	if err := applyFilter(db.WithContext(ctx).Model(&domain.Ticket{}), filter).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyFilter(stmt *gorm.DB, filter domain.ListFilter) *gorm.DB {
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		stmt = stmt.Where("priority = ?", filter.Priority)
	}
	if userID := strings.TrimSpace(filter.UserID); userID != "" {
		stmt = stmt.Where("user_id = ?", userID)
	}
	if assignee := strings.TrimSpace(filter.AssignedTo); assignee != "" {
		stmt = stmt.Where("assigned_to = ?", assignee)
	}
	return stmt
}
