package service

import (
	"context"
	"strings"

	auditdomain "github.com/Achorval/Voouch-Api-sub001/internal/audit/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/audit/masking"
	"github.com/Achorval/Voouch-Api-sub001/internal/auditcontext"
	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/logger"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   auditdomain.Repository
	Policy *config.PolicyHolder `optional:"true"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   auditdomain.Repository
	policy *config.PolicyHolder
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("audit.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		policy: p.Policy,
	}
}

func (s *Service) Record(ctx context.Context, db *gorm.DB, req auditdomain.RecordRequest) (*auditdomain.Response, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, auditdomain.ErrInvalidUserID
	}

	activityType, err := auditdomain.ParseActivityType(req.Type)
	if err != nil {
		return nil, err
	}

	sourceValue := strings.TrimSpace(req.Source)
	if sourceValue == "" {
		sourceValue = auditcontext.ClientSourceFromContext(ctx)
	}
	if sourceValue == "" {
		sourceValue = string(auditdomain.SourceAPI)
	}
	source, err := auditdomain.ParseClientSource(sourceValue)
	if err != nil {
		return nil, err
	}

	payload := masking.MaskSensitive(req.Metadata)
	if requestID := auditcontext.RequestIDFromContext(ctx); requestID != "" {
		if payload == nil {
			payload = map[string]any{}
		}
		payload["request_id"] = requestID
	}

	entry := auditdomain.AuditLog{
		ID:          s.genID.Generate().Int64(),
		UserID:      userID,
		Type:        activityType,
		Description: normalizePointer(req.Description),
		Source:      source,
		ClientID:    valueOrContext(req.ClientID, auditcontext.ClientIDFromContext(ctx)),
		DeviceInfo:  valueOrContext(req.DeviceInfo, auditcontext.DeviceInfoFromContext(ctx)),
		IPAddress:   valueOrContext(req.IPAddress, auditcontext.IPAddressFromContext(ctx)),
		UserAgent:   valueOrContext(req.UserAgent, auditcontext.UserAgentFromContext(ctx)),
		Location:    normalizePointer(req.Location),
		CreatedAt:   s.clock.Now(),
	}
	if payload != nil {
		entry.Metadata = datatypes.JSONMap(payload)
	}

	if db == nil {
		db = s.db
	}
	if err := s.repo.Insert(ctx, db, &entry); err != nil {
		logger.WithContext(ctx, s.log).Warn("failed to write audit log",
			zap.String("type", string(activityType)),
			zap.Error(err),
		)
		return nil, err
	}

	resp := toResponse(&entry)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) (auditdomain.ListResponse, error) {
	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return auditdomain.ListResponse{}, auditdomain.ErrInvalidTimeRange
	}

	filter := auditdomain.ListFilter{
		UserID:  strings.TrimSpace(req.UserID),
		StartAt: req.StartDate,
		EndAt:   req.EndDate,
		Search:  strings.TrimSpace(req.Search),
	}
	if strings.TrimSpace(req.Type) != "" {
		activityType, err := auditdomain.ParseActivityType(req.Type)
		if err != nil {
			return auditdomain.ListResponse{}, err
		}
		filter.Type = activityType
	}
	if strings.TrimSpace(req.Source) != "" {
		source, err := auditdomain.ParseClientSource(req.Source)
		if err != nil {
			return auditdomain.ListResponse{}, err
		}
		filter.Source = source
	}

	limits := s.policy.Get().Pagination
	page := req.Pagination.Normalize(limits.DefaultLimit, limits.MaxLimit)
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return auditdomain.ListResponse{}, err
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return auditdomain.ListResponse{}, err
	}

	logs := make([]auditdomain.Response, 0, len(items))
	for i := range items {
		logs = append(logs, toResponse(&items[i]))
	}

	return auditdomain.ListResponse{
		Logs: logs,
		Meta: pagination.NewMeta(total, page),
	}, nil
}

func toResponse(entry *auditdomain.AuditLog) auditdomain.Response {
	resp := auditdomain.Response{
		ID:          snowflake.ID(entry.ID).String(),
		UserID:      entry.UserID,
		Type:        entry.Type,
		Description: entry.Description,
		Source:      entry.Source,
		ClientID:    entry.ClientID,
		DeviceInfo:  entry.DeviceInfo,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		Location:    entry.Location,
		CreatedAt:   entry.CreatedAt,
	}
	if len(entry.Metadata) > 0 {
		resp.Metadata = map[string]any(entry.Metadata)
	}
	return resp
}

func valueOrContext(value *string, fallback string) *string {
	if normalized := normalizePointer(value); normalized != nil {
		return normalized
	}
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return nil
	}
	return &fallback
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
