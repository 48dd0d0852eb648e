package service

import (
	"context"
	"strings"

	"github.com/Achorval/Voouch-Api-sub001/internal/catalog/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/logger"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("catalog.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreateCategory(ctx context.Context, req domain.CreateCategoryRequest) (*domain.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	code := normalizeCode(req.Slug, name)
	if !slug.IsSlug(code) {
		return nil, domain.ErrInvalidSlug
	}

	var parentID *int64
	if raw := strings.TrimSpace(req.ParentID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidParent
		}
		parent, err := s.repo.FindCategoryByID(ctx, s.db, id.Int64())
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ErrCategoryNotFound
		}
		value := parent.ID
		parentID = &value
	}

	count, err := s.repo.CountCategoriesBySlug(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrCategorySlugExists
	}

	now := s.clock.Now()
	category := &domain.Category{
		ID:          s.genID.Generate().Int64(),
		ParentID:    parentID,
		Name:        name,
		Slug:        code,
		Description: trimmedPtr(req.Description),
		IsActive:    boolOr(req.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Metadata != nil {
		category.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.CreateCategory(ctx, s.db, category); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, apperror.Wrap(domain.ErrCategorySlugExists, err)
		}
		return nil, err
	}

	resp := toCategoryResponse(category)
	return &resp, nil
}

func (s *Service) ListCategories(ctx context.Context, parentID string) ([]domain.CategoryResponse, error) {
	var filter *int64
	if raw := strings.TrimSpace(parentID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidParent
		}
		value := id.Int64()
		filter = &value
	}

	items, err := s.repo.ListCategories(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.CategoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toCategoryResponse(&items[i]))
	}
	return resp, nil
}

// DeleteCategory removes a category that holds no products. Its child
// categories move up to its own parent.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := parseID(id)
	if err != nil {
		return err
	}

	var lifted int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		category, err := s.repo.FindCategoryByID(ctx, tx, categoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrCategoryNotFound
		}

		products, err := s.repo.CountProductsInCategory(ctx, tx, categoryID)
		if err != nil {
			return err
		}
		if products > 0 {
			return domain.ErrCategoryInUse
		}

		lifted, err = s.repo.ReparentCategories(ctx, tx, categoryID, category.ParentID, s.clock.Now())
		if err != nil {
			return err
		}
		return s.repo.DeleteCategory(ctx, tx, categoryID)
	})
	if err != nil {
		return err
	}

	logger.WithContext(ctx, s.log).Info("category deleted",
		zap.Int64("category_id", categoryID),
		zap.Int64("children_moved", lifted),
	)
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.ProductResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	code := normalizeCode(req.Code, name)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	categoryID, err := snowflake.ParseString(strings.TrimSpace(req.CategoryID))
	if err != nil {
		return nil, domain.ErrInvalidCategory
	}
	category, err := s.repo.FindCategoryByID(ctx, s.db, categoryID.Int64())
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}

	count, err := s.repo.CountProductsByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrProductCodeExists
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          s.genID.Generate().Int64(),
		CategoryID:  category.ID,
		Name:        name,
		Code:        code,
		Description: trimmedPtr(req.Description),
		IsActive:    boolOr(req.IsActive, true),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Metadata != nil {
		product.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.CreateProduct(ctx, s.db, product); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, apperror.Wrap(domain.ErrProductCodeExists, err)
		}
		return nil, err
	}

	resp := toProductResponse(product)
	return &resp, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.ProductResponse, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindProductByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrProductNotFound
	}

	resp := toProductResponse(item)
	return &resp, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.UpdateProductRequest) (*domain.ProductResponse, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = nullable(trimmedPtr(req.Description))
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(req.Metadata)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindProductByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrProductNotFound
		}
		if len(fields) == 0 {
			return nil
		}
		fields["updated_at"] = s.clock.Now()
		return s.repo.UpdateProduct(ctx, tx, productID, fields)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, categoryID string) ([]domain.ProductResponse, error) {
	var filter *int64
	if raw := strings.TrimSpace(categoryID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, domain.ErrInvalidCategory
		}
		value := id.Int64()
		filter = &value
	}

	items, err := s.repo.ListProducts(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ProductResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toProductResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) CreateProvider(ctx context.Context, req domain.CreateProviderRequest) (*domain.ProviderResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	code := normalizeCode(req.Code, name)
	if code == "" {
		return nil, domain.ErrInvalidCode
	}

	count, err := s.repo.CountProvidersByCode(ctx, s.db, code)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.ErrProviderCodeExists
	}

	now := s.clock.Now()
	provider := &domain.Provider{
		ID:        s.genID.Generate().Int64(),
		Name:      name,
		Code:      code,
		IsActive:  boolOr(req.IsActive, true),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Metadata != nil {
		provider.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := s.repo.CreateProvider(ctx, s.db, provider); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, apperror.Wrap(domain.ErrProviderCodeExists, err)
		}
		return nil, err
	}

	resp := toProviderResponse(provider)
	return &resp, nil
}

func (s *Service) GetProvider(ctx context.Context, id string) (*domain.ProviderResponse, error) {
	providerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindProviderByID(ctx, s.db, providerID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrProviderNotFound
	}

	resp := toProviderResponse(item)
	return &resp, nil
}

func (s *Service) UpdateProvider(ctx context.Context, id string, req domain.UpdateProviderRequest) (*domain.ProviderResponse, error) {
	providerID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.Metadata != nil {
		fields["metadata"] = datatypes.JSONMap(req.Metadata)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindProviderByID(ctx, tx, providerID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrProviderNotFound
		}
		if len(fields) == 0 {
			return nil
		}
		fields["updated_at"] = s.clock.Now()
		return s.repo.UpdateProvider(ctx, tx, providerID, fields)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProvider(ctx, id)
}

func (s *Service) ListProviders(ctx context.Context) ([]domain.ProviderResponse, error) {
	items, err := s.repo.ListProviders(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ProviderResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toProviderResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) ProductExists(ctx context.Context, id int64) (bool, error) {
	if id == 0 {
		return false, nil
	}
	item, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

func (s *Service) ProviderExists(ctx context.Context, id int64) (bool, error) {
	if id == 0 {
		return false, nil
	}
	item, err := s.repo.FindProviderByID(ctx, s.db, id)
	if err != nil {
		return false, err
	}
	return item != nil, nil
}

// normalizeCode slugs the explicit value, or the name when no value is given.
func normalizeCode(value, name string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		value = name
	}
	return slug.Make(value)
}

func parseID(value string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id.Int64(), nil
}

// nullable turns a nil pointer into an untyped nil so map updates write NULL.
func nullable(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func boolOr(value *bool, def bool) bool {
	if value == nil {
		return def
	}
	return *value
}

func toCategoryResponse(c *domain.Category) domain.CategoryResponse {
	resp := domain.CategoryResponse{
		ID:          snowflake.ID(c.ID).String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if c.ParentID != nil {
		parent := snowflake.ID(*c.ParentID).String()
		resp.ParentID = &parent
	}
	if len(c.Metadata) > 0 {
		resp.Metadata = map[string]any(c.Metadata)
	}
	return resp
}

func toProductResponse(p *domain.Product) domain.ProductResponse {
	resp := domain.ProductResponse{
		ID:          snowflake.ID(p.ID).String(),
		CategoryID:  snowflake.ID(p.CategoryID).String(),
		Name:        p.Name,
		Code:        p.Code,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	return resp
}

func toProviderResponse(p *domain.Provider) domain.ProviderResponse {
	resp := domain.ProviderResponse{
		ID:        snowflake.ID(p.ID).String(),
		Name:      p.Name,
		Code:      p.Code,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if len(p.Metadata) > 0 {
		resp.Metadata = map[string]any(p.Metadata)
	}
	return resp
}
