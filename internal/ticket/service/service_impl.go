package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	auditdomain "github.com/Achorval/Voouch-Api-sub001/internal/audit/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/logger"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/metrics"
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/domain"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
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
	Audit   auditdomain.Service
	Numbers domain.NumberGenerator `optional:"true"`
	Policy  *config.PolicyHolder   `optional:"true"`
	Metrics *metrics.Metrics       `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	audit   auditdomain.Service
	numbers domain.NumberGenerator
	policy  *config.PolicyHolder
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	numbers := p.Numbers
	if numbers == nil {
		numbers = NewNumberGenerator()
	}
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("ticket.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		audit:   p.Audit,
		numbers: numbers,
		policy:  p.Policy,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return nil, domain.ErrInvalidUserID
	}
	categoryID := strings.TrimSpace(req.CategoryID)
	if categoryID == "" {
		return nil, domain.ErrInvalidCategoryID
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, domain.ErrInvalidSubject
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, domain.ErrInvalidDescription
	}

	priority := domain.PriorityMedium
	if strings.TrimSpace(req.Priority) != "" {
		parsed, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return nil, err
		}
		priority = parsed
	}

	attachments := make([]string, 0, len(req.Attachments))
	for _, attachment := range req.Attachments {
		if attachment = strings.TrimSpace(attachment); attachment != "" {
			attachments = append(attachments, attachment)
		}
	}

	policy := s.policy.Get().Tickets
	log := logger.WithContext(ctx, s.log)

	for attempt := 1; attempt <= policy.NumberRetries; attempt++ {
		number, err := s.numbers.Next(policy.NumberPrefix, policy.NumberLength)
		if err != nil {
			return nil, err
		}

		now := s.clock.Now()
		ticket := &domain.Ticket{
			ID:            s.genID.Generate().Int64(),
			TicketNumber:  number,
			UserID:        userID,
			CategoryID:    categoryID,
			Subject:       subject,
			Description:   description,
			Status:        domain.StatusOpen,
			Priority:      priority,
			TransactionID: normalizePointer(req.TransactionID),
			Attachments:   datatypes.JSONSlice[string](attachments),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if req.Metadata != nil {
			ticket.Metadata = datatypes.JSONMap(req.Metadata)
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.Insert(ctx, tx, ticket); err != nil {
				return err
			}
			return s.recordCreated(ctx, tx, ticket)
		})
		if err == nil {
			s.metrics.RecordTicketCreated(ctx, string(priority))
			log.Info("support ticket created",
				zap.Int64("ticket_id", ticket.ID),
				zap.String("ticket_number", ticket.TicketNumber),
				zap.String("priority", string(priority)),
			)
			return s.readBack(ctx, ticket.ID)
		}

		if !db.DuplicateKeyMentions(err, "ux_support_tickets_ticket_number", "ticket_number") {
			return nil, err
		}

		s.metrics.RecordTicketNumberCollision(ctx)
		log.Warn("ticket number collision, retrying",
			zap.String("ticket_number", number),
			zap.Int("attempt", attempt),
		)
	}

	return nil, domain.ErrNumberExhausted
}

func (s *Service) recordCreated(ctx context.Context, tx *gorm.DB, ticket *domain.Ticket) error {
	description := fmt.Sprintf("Support ticket %s created", ticket.TicketNumber)
	_, err := s.audit.Record(ctx, tx, auditdomain.RecordRequest{
		UserID:      ticket.UserID,
		Type:        string(auditdomain.ActivitySupportTicket),
		Description: &description,
		Metadata: map[string]any{
			"ticket_id":     snowflake.ID(ticket.ID).String(),
			"ticket_number": ticket.TicketNumber,
			"category_id":   ticket.CategoryID,
			"priority":      string(ticket.Priority),
		},
	})
	return err
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	ticketID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var (
		nextStatus *domain.Status
		priority   *domain.Priority
	)
	if req.Status != nil {
		parsed, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		nextStatus = &parsed
	}
	if req.Priority != nil {
		parsed, err := domain.ParsePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		priority = &parsed
	}

	var previous domain.Status
	err = s.mutate(ctx, ticketID, func(current *domain.Ticket, fields map[string]any) error {
		previous = current.Status
		if nextStatus != nil {
			applyStatus(fields, *nextStatus, s.clock.Now())
		}
		if priority != nil {
			fields["priority"] = *priority
		}
		if req.AssignedTo != nil {
			if assignee := strings.TrimSpace(*req.AssignedTo); assignee != "" {
				fields["assigned_to"] = assignee
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if nextStatus != nil && *nextStatus != previous {
		s.metrics.RecordTicketTransition(ctx, string(previous), string(*nextStatus))
		logger.WithContext(ctx, s.log).Info("support ticket status changed",
			zap.Int64("ticket_id", ticketID),
			zap.String("from_status", string(previous)),
			zap.String("to_status", string(*nextStatus)),
		)
	}

	return s.readBack(ctx, ticketID)
}

func (s *Service) Close(ctx context.Context, id string) (*domain.Response, error) {
	ticketID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var previous domain.Status
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindByID(ctx, tx, ticketID, db.SupportsRowLocks(tx))
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		previous = current.Status
		if current.Status == domain.StatusClosed {
			return nil
		}

		fields := map[string]any{}
		now := s.clock.Now()
		applyStatus(fields, domain.StatusClosed, now)
		fields["updated_at"] = now
		return s.repo.Update(ctx, tx, ticketID, fields)
	})
	if err != nil {
		return nil, err
	}

	if previous != domain.StatusClosed {
		s.metrics.RecordTicketTransition(ctx, string(previous), string(domain.StatusClosed))
		logger.WithContext(ctx, s.log).Info("support ticket closed", zap.Int64("ticket_id", ticketID))
	}

	return s.readBack(ctx, ticketID)
}

func (s *Service) Assign(ctx context.Context, id string, staffID string) (*domain.Response, error) {
	ticketID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	assignee := strings.TrimSpace(staffID)
	if assignee == "" {
		return nil, domain.ErrInvalidAssignee
	}

	err = s.mutate(ctx, ticketID, func(current *domain.Ticket, fields map[string]any) error {
		fields["assigned_to"] = assignee
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx, s.log).Info("support ticket assigned",
		zap.Int64("ticket_id", ticketID),
		zap.String("assigned_to", assignee),
	)
	return s.readBack(ctx, ticketID)
}

func (s *Service) RecordReply(ctx context.Context, id string, req domain.ReplyRequest) (*domain.Response, error) {
	ticketID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var from, to domain.Status
	err = s.mutate(ctx, ticketID, func(current *domain.Ticket, fields map[string]any) error {
		now := s.clock.Now()
		from, to = current.Status, current.Status

		switch {
		case req.FromStaff:
			to = domain.StatusAwaitingUserReply
		case current.Status == domain.StatusAwaitingUserReply:
			to = domain.StatusInProgress
		}
		if to != from {
			applyStatus(fields, to, now)
		}
		fields["last_replied_at"] = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if to != from {
		s.metrics.RecordTicketTransition(ctx, string(from), string(to))
	}
	return s.readBack(ctx, ticketID)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	ticketID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, ticketID, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	filter := domain.ListFilter{
		UserID:     strings.TrimSpace(req.UserID),
		AssignedTo: strings.TrimSpace(req.AssignedTo),
	}
	if strings.TrimSpace(req.Status) != "" {
		status, err := domain.ParseStatus(req.Status)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.Status = status
	}
	if strings.TrimSpace(req.Priority) != "" {
		priority, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.Priority = priority
	}

	limits := s.policy.Get().Pagination
	page := req.Pagination.Normalize(limits.DefaultLimit, limits.MaxLimit)
	filter.Offset = page.Offset()
	filter.Limit = page.Limit

	total, err := s.repo.Count(ctx, s.db, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}
	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return domain.ListResponse{}, err
	}

	tickets := make([]domain.Response, 0, len(items))
	for i := range items {
		tickets = append(tickets, toResponse(&items[i]))
	}

	return domain.ListResponse{
		Tickets: tickets,
		Meta:    pagination.NewMeta(total, page),
	}, nil
}

// mutate loads the ticket under lock, rejects changes to closed tickets and
// writes whatever fields apply sets, stamping updated_at.
func (s *Service) mutate(ctx context.Context, ticketID int64, apply func(current *domain.Ticket, fields map[string]any) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.FindByID(ctx, tx, ticketID, db.SupportsRowLocks(tx))
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status.Terminal() {
			return domain.ErrClosed
		}

		fields := map[string]any{}
		if err := apply(current, fields); err != nil {
			return err
		}
		fields["updated_at"] = s.clock.Now()
		return s.repo.Update(ctx, tx, ticketID, fields)
	})
}

// applyStatus sets status and the timestamp that entering it implies.
func applyStatus(fields map[string]any, status domain.Status, now time.Time) {
	fields["status"] = status
	switch status {
	case domain.StatusResolved:
		fields["resolved_at"] = now
	case domain.StatusClosed:
		fields["closed_at"] = now
	case domain.StatusAwaitingUserReply:
		fields["last_replied_at"] = now
	}
}

func (s *Service) readBack(ctx context.Context, id int64) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if item == nil {
		logger.WithContext(ctx, s.log).Error("ticket missing after write", zap.Int64("ticket_id", id))
		return nil, domain.ErrReadBackFailed
	}

	resp := toResponse(item)
	return &resp, nil
}

func parseID(id string) (int64, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed <= 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed.Int64(), nil
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

func toResponse(t *domain.Ticket) domain.Response {
	resp := domain.Response{
		ID:            snowflake.ID(t.ID).String(),
		TicketNumber:  t.TicketNumber,
		UserID:        t.UserID,
		AssignedTo:    t.AssignedTo,
		CategoryID:    t.CategoryID,
		Subject:       t.Subject,
		Description:   t.Description,
		Status:        t.Status,
		Priority:      t.Priority,
		TransactionID: t.TransactionID,
		Attachments:   []string(t.Attachments),
		LastRepliedAt: t.LastRepliedAt,
		ResolvedAt:    t.ResolvedAt,
		ClosedAt:      t.ClosedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	if resp.Attachments == nil {
		resp.Attachments = []string{}
	}
	if len(t.Metadata) > 0 {
		resp.Metadata = map[string]any(t.Metadata)
	}
	return resp
}
