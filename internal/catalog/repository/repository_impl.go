package repository

import (
	"context"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/internal/catalog/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/option"
	"github.com/Achorval/Voouch-Api-sub001/pkg/repository"
	"gorm.io/gorm"
)

type repo struct {
	categories repository.Repository[domain.Category]
	products   repository.Repository[domain.Product]
	providers  repository.Repository[domain.Provider]
}

func Provide(db *gorm.DB) domain.Repository {
	return &repo{
		categories: repository.ProvideStore[domain.Category](db),
		products:   repository.ProvideStore[domain.Product](db),
		providers:  repository.ProvideStore[domain.Provider](db),
	}
}

func (r *repo) CreateCategory(ctx context.Context, db *gorm.DB, category *domain.Category) error {
	return r.categories.WithTrx(db).Create(ctx, category)
}

func (r *repo) FindCategoryByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Category, error) {
	return r.categories.WithTrx(db).FindOne(ctx, &domain.Category{ID: id})
}

func (r *repo) CountCategoriesBySlug(ctx context.Context, db *gorm.DB, slug string) (int64, error) {
	return r.categories.WithTrx(db).Count(ctx, nil, option.WithWhere("slug = ?", slug))
}

func (r *repo) ListCategories(ctx context.Context, db *gorm.DB, parentID *int64) ([]domain.Category, error) {
	opts := []option.QueryOption{option.WithOrderBy("name", false)}
	if parentID != nil {
		opts = append(opts, option.WithWhere("parent_id = ?", *parentID))
	}
	items, err := r.categories.WithTrx(db).Find(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (r *repo) ReparentCategories(ctx context.Context, db *gorm.DB, fromID int64, toID *int64, updatedAt time.Time) (int64, error) {
	var parent any
	if toID != nil {
		parent = *toID
	}
	return r.categories.WithTrx(db).UpdateWhere(ctx,
		map[string]any{"parent_id": parent, "updated_at": updatedAt},
		option.WithWhere("parent_id = ?", fromID),
	)
}

func (r *repo) DeleteCategory(ctx context.Context, db *gorm.DB, id int64) error {
	return r.categories.WithTrx(db).Delete(ctx, id)
}

func (r *repo) CreateProduct(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return r.products.WithTrx(db).Create(ctx, product)
}

func (r *repo) FindProductByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	return r.products.WithTrx(db).FindOne(ctx, &domain.Product{ID: id})
}

func (r *repo) CountProductsByCode(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	return r.products.WithTrx(db).Count(ctx, nil, option.WithWhere("code = ?", code))
}

func (r *repo) ListProducts(ctx context.Context, db *gorm.DB, categoryID *int64) ([]domain.Product, error) {
	opts := []option.QueryOption{option.WithOrderBy("name", false)}
	if categoryID != nil {
		opts = append(opts, option.WithWhere("category_id = ?", *categoryID))
	}
	items, err := r.products.WithTrx(db).Find(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (r *repo) CountProductsInCategory(ctx context.Context, db *gorm.DB, categoryID int64) (int64, error) {
	return r.products.WithTrx(db).Count(ctx, nil, option.WithWhere("category_id = ?", categoryID))
}

func (r *repo) UpdateProduct(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error {
	return r.products.WithTrx(db).Update(ctx, id, fields)
}

func (r *repo) CreateProvider(ctx context.Context, db *gorm.DB, provider *domain.Provider) error {
	return r.providers.WithTrx(db).Create(ctx, provider)
}

func (r *repo) FindProviderByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Provider, error) {
	return r.providers.WithTrx(db).FindOne(ctx, &domain.Provider{ID: id})
}

func (r *repo) CountProvidersByCode(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	return r.providers.WithTrx(db).Count(ctx, nil, option.WithWhere("code = ?", code))
}

func (r *repo) ListProviders(ctx context.Context, db *gorm.DB) ([]domain.Provider, error) {
	items, err := r.providers.WithTrx(db).Find(ctx, nil, option.WithOrderBy("name", false))
	if err != nil {
		return nil, err
	}
	return deref(items), nil
}

func (r *repo) UpdateProvider(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error {
	return r.providers.WithTrx(db).Update(ctx, id, fields)
}

func deref[T any](items []*T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}
