package service

import (
	"context"
	"strings"

	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/logger"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/metrics"
	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Policy  *config.PolicyHolder `optional:"true"`
	Metrics *metrics.Metrics     `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	policy  *config.PolicyHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("tierlimit.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		policy:  p.Policy,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	if req.Level < 1 {
		return nil, domain.ErrInvalidLevel
	}
	if req.DailyLimit.IsNegative() {
		return nil, domain.ErrInvalidDailyLimit
	}
	if req.MaximumBalance.IsNegative() {
		return nil, domain.ErrInvalidMaximumBalance
	}

	now := s.clock.Now()
	tier := &domain.TierLimit{
		ID:             s.genID.Generate().Int64(),
		Level:          req.Level,
		DailyLimit:     req.DailyLimit,
		MaximumBalance: req.MaximumBalance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Requirements != nil {
		requirements := datatypes.NewJSONType(normalizeRequirements(*req.Requirements))
		tier.Requirements = &requirements
	}
	if req.Metadata != nil {
		tier.Metadata = datatypes.JSONMap(req.Metadata)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByLevel(ctx, tx, tier.Level)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrLevelExists
		}

		if err := s.checkMonotonic(ctx, tx, tier.Level, 0, tier.DailyLimit, tier.MaximumBalance); err != nil {
			return err
		}

		if err := s.repo.Insert(ctx, tx, tier); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return apperror.Wrap(domain.ErrLevelExists, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTierLimitWrite(ctx, "create")
	logger.WithContext(ctx, s.log).Info("tier limit created",
		zap.Int64("tier_limit_id", tier.ID),
		zap.Int("level", tier.Level),
	)

	return s.readBack(ctx, tier.ID)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	tierID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindByID(ctx, tx, tierID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}

		level := current.Level
		dailyLimit := current.DailyLimit
		maximumBalance := current.MaximumBalance
		fields := map[string]any{}

		if req.Level != nil {
			if *req.Level < 1 {
				return domain.ErrInvalidLevel
			}
			level = *req.Level
			fields["level"] = level
		}
		if req.DailyLimit != nil {
			if req.DailyLimit.IsNegative() {
				return domain.ErrInvalidDailyLimit
			}
			dailyLimit = *req.DailyLimit
			fields["daily_limit"] = dailyLimit
		}
		if req.MaximumBalance != nil {
			if req.MaximumBalance.IsNegative() {
				return domain.ErrInvalidMaximumBalance
			}
			maximumBalance = *req.MaximumBalance
			fields["maximum_balance"] = maximumBalance
		}
		if req.Requirements != nil {
			fields["requirements"] = datatypes.NewJSONType(normalizeRequirements(*req.Requirements))
		}
		if req.Metadata != nil {
			fields["metadata"] = datatypes.JSONMap(req.Metadata)
		}

		if level != current.Level {
			taken, err := s.repo.FindByLevel(ctx, tx, level)
			if err != nil {
				return err
			}
			if taken != nil && taken.ID != current.ID {
				return domain.ErrLevelExists
			}
		}

		if err := s.checkMonotonic(ctx, tx, level, current.ID, dailyLimit, maximumBalance); err != nil {
			return err
		}

		fields["updated_at"] = s.clock.Now()
		if err := s.repo.Update(ctx, tx, current.ID, fields); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return apperror.Wrap(domain.ErrLevelExists, err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTierLimitWrite(ctx, "update")
	return s.readBack(ctx, tierID)
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	tierID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, tierID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) GetByLevel(ctx context.Context, level int) (*domain.Response, error) {
	if level < 1 {
		return nil, domain.ErrInvalidLevel
	}

	item, err := s.repo.FindByLevel(ctx, s.db, level)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

// checkMonotonic requires prev <= candidate <= next for both limits, where
// prev and next are the closest existing levels around the candidate.
func (s *Service) checkMonotonic(ctx context.Context, tx *gorm.DB, level int, excludeID int64, dailyLimit, maximumBalance decimal.Decimal) error {
	if !s.policy.Get().Tiers.EnforceMonotonic {
		return nil
	}

	prev, next, err := s.repo.FindNeighbours(ctx, tx, level, excludeID)
	if err != nil {
		return err
	}
	if prev != nil && (dailyLimit.LessThan(prev.DailyLimit) || maximumBalance.LessThan(prev.MaximumBalance)) {
		return domain.ErrNotMonotonic
	}
	if next != nil && (dailyLimit.GreaterThan(next.DailyLimit) || maximumBalance.GreaterThan(next.MaximumBalance)) {
		return domain.ErrNotMonotonic
	}
	return nil
}

// readBack returns the stored row rather than the merged request.
func (s *Service) readBack(ctx context.Context, id int64) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		logger.WithContext(ctx, s.log).Error("tier limit missing after write", zap.Int64("tier_limit_id", id))
		return nil, domain.ErrReadBackFailed
	}

	resp := toResponse(item)
	return &resp, nil
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
}

func normalizeRequirements(r domain.Requirements) domain.Requirements {
	docs := make([]string, 0, len(r.Documents))
	for _, doc := range r.Documents {
		if doc = strings.TrimSpace(doc); doc != "" {
			docs = append(docs, doc)
		}
	}
	return domain.Requirements{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Documents:   docs,
	}
}

func toResponse(t *domain.TierLimit) domain.Response {
	resp := domain.Response{
		ID:             snowflake.ID(t.ID).String(),
		Level:          t.Level,
		DailyLimit:     t.DailyLimit,
		MaximumBalance: t.MaximumBalance,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
	if t.Requirements != nil {
		requirements := t.Requirements.Data()
		resp.Requirements = &requirements
	}
	if len(t.Metadata) > 0 {
		resp.Metadata = map[string]any(t.Metadata)
	}
	return resp
}
