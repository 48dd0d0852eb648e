// Package repository provides a generic gorm-backed store exposing the
// find / insert / update / delete / count capability set.
package repository

import (
	"context"

	"github.com/Achorval/Voouch-Api-sub001/pkg/db/option"
	"gorm.io/gorm"
)

type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID any, fields map[string]any) error
	UpdateWhere(ctx context.Context, fields map[string]any, opts ...option.QueryOption) (int64, error)
	Delete(ctx context.Context, resourceID any) error
	Count(ctx context.Context, query *T, opts ...option.QueryOption) (int64, error)
}
