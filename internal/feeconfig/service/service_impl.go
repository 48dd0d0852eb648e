package service

import (
	"context"
	"errors"
	"strings"
	"time"

	catalogdomain "github.com/Achorval/Voouch-Api-sub001/internal/catalog/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/feeconfig/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/locking"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/logger"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/metrics"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultLockTTL  = 10 * time.Second
	defaultLockWait = 2 * time.Second
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Catalog catalogdomain.Service
	Locker  *locking.Locker      `optional:"true"`
	Policy  *config.PolicyHolder `optional:"true"`
	Metrics *metrics.Metrics     `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	catalog catalogdomain.Service
	locker  *locking.Locker
	policy  *config.PolicyHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	log := p.Log.Named("feeconfig.service")
	if p.Locker == nil && !db.SupportsPartialIndexes(p.DB) {
		log.Warn("no lock or partial index guards the default fee per product; concurrent defaults rely on transactional demotion",
			zap.String("dialect", p.DB.Dialector.Name()),
		)
	}

	return &Service{
		db:      p.DB,
		log:     log,
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		catalog: p.Catalog,
		locker:  p.Locker,
		policy:  p.Policy,
		metrics: p.Metrics,
	}
}

type configureInput struct {
	productID  int64
	providerID int64
	code       string
	feeType    domain.FeeType
	feeValue   decimal.Decimal
	minFee     *decimal.Decimal
	maxFee     *decimal.Decimal
	priority   int
	isEnabled  bool
	isDefault  bool
	metadata   map[string]any
}

func (s *Service) Configure(ctx context.Context, req domain.ConfigureRequest) (*domain.Response, error) {
	in, err := s.validateConfigure(req)
	if err != nil {
		return nil, err
	}

	if err := s.ensureReferences(ctx, in.productID, in.providerID); err != nil {
		return nil, err
	}

	var (
		savedID   int64
		operation string
	)
	write := func(ctx context.Context) error {
		id, op, err := s.upsert(ctx, in)
		if err != nil {
			return err
		}
		savedID, operation = id, op
		return nil
	}

	if in.isDefault {
		err = s.locker.WithLock(ctx, defaultLockKey(in.productID), defaultLockTTL, defaultLockWait, write)
		if errors.Is(err, locking.ErrLockBusy) {
			return nil, apperror.Wrap(domain.ErrBusy, err)
		}
	} else {
		err = write(ctx)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.RecordFeeConfigured(ctx, string(in.feeType), operation)
	logger.WithContext(ctx, s.log).Info("fee configuration saved",
		zap.Int64("fee_configuration_id", savedID),
		zap.Int64("product_id", in.productID),
		zap.Int64("provider_id", in.providerID),
		zap.String("operation", operation),
		zap.Bool("is_default", in.isDefault),
	)

	return s.readBack(ctx, savedID)
}

// upsert writes the link and, for a default link, demotes its siblings in
// the same transaction.
func (s *Service) upsert(ctx context.Context, in configureInput) (int64, string, error) {
	var (
		savedID   int64
		operation string
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := s.clock.Now()

		existing, err := s.repo.FindByPair(ctx, tx, in.productID, in.providerID, db.SupportsRowLocks(tx))
		if err != nil {
			return err
		}

		if in.isDefault {
			var exceptID int64
			if existing != nil {
				exceptID = existing.ID
			}
			demoted, err := s.repo.ClearDefaults(ctx, tx, in.productID, exceptID, now)
			if err != nil {
				return err
			}
			if demoted > 0 {
				s.metrics.RecordDefaultDemotions(ctx, demoted)
				logger.WithContext(ctx, s.log).Warn("demoted previous default fee configuration",
					zap.Int64("product_id", in.productID),
					zap.Int64("demoted", demoted),
				)
			}
		}

		if existing != nil {
			fields := map[string]any{
				"provider_product_code": in.code,
				"fee_type":              in.feeType,
				"fee_value":             in.feeValue,
				"min_fee":               in.minFee,
				"max_fee":               in.maxFee,
				"priority":              in.priority,
				"is_enabled":            in.isEnabled,
				"is_default":            in.isDefault,
				"updated_at":            now,
			}
			if in.metadata != nil {
				fields["metadata"] = datatypes.JSONMap(in.metadata)
			}
			if err := s.repo.Update(ctx, tx, existing.ID, fields); err != nil {
				return mapWriteErr(err)
			}
			savedID, operation = existing.ID, "update"
			return nil
		}

		cfg := &domain.FeeConfiguration{
			ID:                  s.genID.Generate().Int64(),
			ProductID:           in.productID,
			ProviderID:          in.providerID,
			ProviderProductCode: in.code,
			FeeType:             in.feeType,
			FeeValue:            in.feeValue,
			MinFee:              in.minFee,
			MaxFee:              in.maxFee,
			Priority:            in.priority,
			IsEnabled:           in.isEnabled,
			IsDefault:           in.isDefault,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if in.metadata != nil {
			cfg.Metadata = datatypes.JSONMap(in.metadata)
		}
		if err := s.repo.Insert(ctx, tx, cfg); err != nil {
			return mapWriteErr(err)
		}
		savedID, operation = cfg.ID, "insert"
		return nil
	})
	return savedID, operation, err
}

func (s *Service) ResolveEffectiveFee(ctx context.Context, req domain.QuoteRequest) (*domain.QuoteResponse, error) {
	productID, err := parseRef(req.ProductID, domain.ErrInvalidProduct)
	if err != nil {
		return nil, err
	}
	providerID, err := parseRef(req.ProviderID, domain.ErrInvalidProvider)
	if err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	item, err := s.repo.FindByPair(ctx, s.db, productID, providerID, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.IsEnabled {
		return nil, domain.ErrDisabled
	}

	return &domain.QuoteResponse{
		FeeConfigurationID: snowflake.ID(item.ID).String(),
		ProductID:          snowflake.ID(item.ProductID).String(),
		ProviderID:         snowflake.ID(item.ProviderID).String(),
		FeeType:            item.FeeType,
		Amount:             req.Amount,
		Fee:                domain.EffectiveFee(item.Schedule(), req.Amount),
	}, nil
}

// ResolveDefault returns the enabled default link, falling back to the enabled
// link with the lowest priority.
func (s *Service) ResolveDefault(ctx context.Context, productID string) (*domain.Response, error) {
	id, err := parseRef(productID, domain.ErrInvalidProduct)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindDefault(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item, err = s.repo.FindFirstEnabled(ctx, s.db, id)
		if err != nil {
			return nil, err
		}
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, productID, providerID string) (*domain.Response, error) {
	product, err := parseRef(productID, domain.ErrInvalidProduct)
	if err != nil {
		return nil, err
	}
	provider, err := parseRef(providerID, domain.ErrInvalidProvider)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByPair(ctx, s.db, product, provider, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, productID string) ([]domain.Response, error) {
	id, err := parseRef(productID, domain.ErrInvalidProduct)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByProduct(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) SetEnabled(ctx context.Context, id string, enabled bool) (*domain.Response, error) {
	cfgID, err := parseRef(id, domain.ErrInvalidID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, cfgID, db.SupportsRowLocks(tx))
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}

		fields := map[string]any{
			"is_enabled": enabled,
			"updated_at": s.clock.Now(),
		}
		if !enabled && item.IsDefault {
			fields["is_default"] = false
		}
		return s.repo.Update(ctx, tx, item.ID, fields)
	})
	if err != nil {
		return nil, err
	}

	operation := "disable"
	if enabled {
		operation = "enable"
	}
	logger.WithContext(ctx, s.log).Info("fee configuration toggled",
		zap.Int64("fee_configuration_id", cfgID),
		zap.String("operation", operation),
	)

	return s.readBack(ctx, cfgID)
}

func (s *Service) validateConfigure(req domain.ConfigureRequest) (configureInput, error) {
	var in configureInput

	productID, err := parseRef(req.ProductID, domain.ErrInvalidProduct)
	if err != nil {
		return in, err
	}
	providerID, err := parseRef(req.ProviderID, domain.ErrInvalidProvider)
	if err != nil {
		return in, err
	}

	code := strings.TrimSpace(req.ProviderProductCode)
	if code == "" {
		return in, domain.ErrInvalidProviderProductCode
	}

	feeType, err := domain.ParseFeeType(req.FeeType)
	if err != nil {
		return in, err
	}

	switch feeType {
	case domain.FeeTypeFlat:
		if !req.FeeValue.IsPositive() {
			return in, domain.ErrInvalidFeeValue
		}
	case domain.FeeTypePercentage:
		maxPct := s.policy.Get().Fees.MaxPercentageValue()
		if !req.FeeValue.IsPositive() || req.FeeValue.GreaterThan(maxPct) {
			return in, domain.ErrInvalidFeeValue
		}
	}

	if req.MinFee != nil && req.MinFee.IsNegative() {
		return in, domain.ErrInvalidMinFee
	}
	if req.MaxFee != nil && req.MaxFee.IsNegative() {
		return in, domain.ErrInvalidMaxFee
	}
	if req.MinFee != nil && req.MaxFee != nil && req.MinFee.GreaterThan(*req.MaxFee) {
		return in, domain.ErrInvalidFeeRange
	}

	priority := req.Priority
	if priority < 0 {
		return in, domain.ErrInvalidPriority
	}
	if priority == 0 {
		priority = 1
	}

	isEnabled := true
	if req.IsEnabled != nil {
		isEnabled = *req.IsEnabled
	}
	if req.IsDefault && !isEnabled {
		return in, domain.ErrInvalidDefault
	}

	return configureInput{
		productID:  productID,
		providerID: providerID,
		code:       code,
		feeType:    feeType,
		feeValue:   req.FeeValue,
		minFee:     req.MinFee,
		maxFee:     req.MaxFee,
		priority:   priority,
		isEnabled:  isEnabled,
		isDefault:  req.IsDefault,
		metadata:   req.Metadata,
	}, nil
}

func (s *Service) ensureReferences(ctx context.Context, productID, providerID int64) error {
	ok, err := s.catalog.ProductExists(ctx, productID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProductNotFound
	}

	ok, err = s.catalog.ProviderExists(ctx, providerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrProviderNotFound
	}
	return nil
}

func (s *Service) readBack(ctx context.Context, id int64) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		logger.WithContext(ctx, s.log).Error("fee configuration missing after write", zap.Int64("fee_configuration_id", id))
		return nil, domain.ErrReadBackFailed
	}

	resp := toResponse(item)
	return &resp, nil
}

func mapWriteErr(err error) error {
	if !db.IsDuplicateKeyErr(err) {
		return err
	}
	if db.DuplicateKeyMentions(err, "ux_fee_configurations_provider_product_code", "provider_product_code") {
		return apperror.Wrap(domain.ErrProductCodeExists, err)
	}
	// A concurrent default write lost the race on the partial unique index.
	if db.DuplicateKeyMentions(err, "ux_fee_configurations_single_default") {
		return apperror.Wrap(domain.ErrBusy, err)
	}
	return apperror.Wrap(domain.ErrAlreadyExists, err)
}

func defaultLockKey(productID int64) string {
	return "feeconfig:default:" + snowflake.ID(productID).String()
}

func parseRef(value string, invalid *apperror.Error) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, invalid
	}
	return parsed.Int64(), nil
}

func toResponse(c *domain.FeeConfiguration) domain.Response {
	resp := domain.Response{
		ID:                  snowflake.ID(c.ID).String(),
		ProductID:           snowflake.ID(c.ProductID).String(),
		ProviderID:          snowflake.ID(c.ProviderID).String(),
		ProviderProductCode: c.ProviderProductCode,
		FeeType:             c.FeeType,
		FeeValue:            c.FeeValue,
		MinFee:              c.MinFee,
		MaxFee:              c.MaxFee,
		Priority:            c.Priority,
		IsEnabled:           c.IsEnabled,
		IsDefault:           c.IsDefault,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if len(c.Metadata) > 0 {
		resp.Metadata = map[string]any(c.Metadata)
	}
	return resp
}
