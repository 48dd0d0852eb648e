package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ListFilter struct {
	UserID  string
	Type    ActivityType
	Source  ClientSource
	StartAt *time.Time
	EndAt   *time.Time
	Search  string
	Offset  int
	Limit   int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]AuditLog, error)
	// Count applies the same predicates as List and ignores Offset/Limit.
	Count(ctx context.Context, db *gorm.DB, filter ListFilter) (int64, error)
}
