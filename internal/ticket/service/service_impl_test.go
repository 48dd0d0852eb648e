package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	auditdomain "github.com/Achorval/Voouch-Api-sub001/internal/audit/domain"
	auditrepo "github.com/Achorval/Voouch-Api-sub001/internal/audit/repository"
	auditservice "github.com/Achorval/Voouch-Api-sub001/internal/audit/service"
	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/observability/metrics"
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/repository"
	"github.com/Achorval/Voouch-Api-sub001/internal/ticket/service"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sequenceGenerator struct {
	mu      sync.Mutex
	numbers []string
	calls   int
}

func (g *sequenceGenerator) Next(prefix string, length int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := g.numbers[g.calls%len(g.numbers)]
	g.calls++
	return n, nil
}

type harness struct {
	svc   domain.Service
	audit auditdomain.Service
	clock *clock.FakeClock
}

func setup(t *testing.T, numbers domain.NumberGenerator) harness {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Ticket{}, &auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(5)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC))

	audit := auditservice.NewService(auditservice.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  auditrepo.Provide(),
	})

	svc := service.New(service.Params{
		DB:      conn,
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clk,
		Repo:    repository.Provide(),
		Audit:   audit,
		Numbers: numbers,
		Policy:  config.NewStaticPolicyHolder(config.DefaultPolicy()),
		Metrics: metrics.NewNoop(),
	})
	return harness{svc: svc, audit: audit, clock: clk}
}

func createReq(user string) domain.CreateRequest {
	return domain.CreateRequest{
		UserID:      user,
		CategoryID:  "failed-transactions",
		Subject:     "Debited but not credited",
		Description: "My wallet was debited for airtime that never arrived.",
	}
}

func TestCreateTicketStartsOpen(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	req := createReq("u1")
	req.Status = "resolved"
	req.Attachments = []string{" receipt.png ", ""}

	ticket, err := h.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOpen, ticket.Status)
	assert.Equal(t, domain.PriorityMedium, ticket.Priority)
	assert.True(t, strings.HasPrefix(ticket.TicketNumber, "TKT-"))
	assert.Len(t, ticket.TicketNumber, len("TKT-")+8)
	assert.Equal(t, []string{"receipt.png"}, ticket.Attachments)
	assert.Nil(t, ticket.ClosedAt)

	other, err := h.svc.Create(ctx, createReq("u2"))
	require.NoError(t, err)
	assert.NotEqual(t, ticket.TicketNumber, other.TicketNumber)

	logs, err := h.audit.List(ctx, auditdomain.ListRequest{UserID: "u1", Type: "support_ticket"})
	require.NoError(t, err)
	require.Len(t, logs.Logs, 1)
	assert.Equal(t, ticket.TicketNumber, logs.Logs[0].Metadata["ticket_number"])
}

func TestCreateTicketValidation(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	req := createReq("")
	_, err := h.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)

	req = createReq("u1")
	req.Priority = "urgent"
	_, err = h.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	req = createReq("u1")
	req.Subject = " "
	_, err = h.svc.Create(ctx, req)
	assert.ErrorIs(t, err, domain.ErrInvalidSubject)
}

func TestCreateTicketRetriesNumberCollision(t *testing.T) {
	gen := &sequenceGenerator{numbers: []string{"TKT-AAAA1111", "TKT-AAAA1111", "TKT-BBBB2222"}}
	h := setup(t, gen)
	ctx := context.Background()

	first, err := h.svc.Create(ctx, createReq("u1"))
	require.NoError(t, err)
	assert.Equal(t, "TKT-AAAA1111", first.TicketNumber)

	second, err := h.svc.Create(ctx, createReq("u2"))
	require.NoError(t, err)
	assert.Equal(t, "TKT-BBBB2222", second.TicketNumber)
	assert.Equal(t, 3, gen.calls)

	logs, err := h.audit.List(ctx, auditdomain.ListRequest{Type: "support_ticket"})
	require.NoError(t, err)
	assert.Len(t, logs.Logs, 2)
}

func TestCreateTicketNumberExhausted(t *testing.T) {
	gen := &sequenceGenerator{numbers: []string{"TKT-SAME0000"}}
	h := setup(t, gen)
	ctx := context.Background()

	_, err := h.svc.Create(ctx, createReq("u1"))
	require.NoError(t, err)

	_, err = h.svc.Create(ctx, createReq("u2"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNumberExhausted)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	assert.Equal(t, 1+config.DefaultPolicy().Tickets.NumberRetries, gen.calls)
}

func TestUpdateTicketAppliesSuppliedFields(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	ticket, err := h.svc.Create(ctx, createReq("u1"))
	require.NoError(t, err)

	h.clock.Advance(time.Minute)
	status := "inProgress"
	assignee := "staff-7"
	updated, err := h.svc.Update(ctx, ticket.ID, domain.UpdateRequest{Status: &status, AssignedTo: &assignee})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, updated.Status)
	assert.Equal(t, domain.PriorityMedium, updated.Priority)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "staff-7", *updated.AssignedTo)
	assert.True(t, updated.UpdatedAt.After(ticket.UpdatedAt))

	empty := ""
	priority := "high"
	updated, err = h.svc.Update(ctx, ticket.ID, domain.UpdateRequest{AssignedTo: &empty, Priority: &priority})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "staff-7", *updated.AssignedTo)
	assert.Equal(t, domain.PriorityHigh, updated.Priority)

	resolved := "resolved"
	updated, err = h.svc.Update(ctx, ticket.ID, domain.UpdateRequest{Status: &resolved})
	require.NoError(t, err)
	assert.NotNil(t, updated.ResolvedAt)
	assert.Nil(t, updated.ClosedAt)

	bogus := "escalated"
	_, err = h.svc.Update(ctx, ticket.ID, domain.UpdateRequest{Status: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = h.svc.Update(ctx, "987654", domain.UpdateRequest{Status: &resolved})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCloseTicketIsIdempotent(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	ticket, err := h.svc.Create(ctx, createReq("u1"))
	require.NoError(t, err)

	h.clock.Advance(time.Hour)
	closed, err := h.svc.Close(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	h.clock.Advance(time.Hour)
	again, err := h.svc.Close(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, again.Status)
	assert.True(t, closed.ClosedAt.Equal(*again.ClosedAt))
	assert.True(t, closed.UpdatedAt.Equal(again.UpdatedAt))

	_, err = h.svc.Close(ctx, "987654")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClosedTicketRejectsMutations(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	ticket, err := h.svc.Create(ctx, createReq("u1"))
	require.NoError(t, err)
	_, err = h.svc.Close(ctx, ticket.ID)
	require.NoError(t, err)

	open := "open"
	_, err = h.svc.Update(ctx, ticket.ID, domain.UpdateRequest{Status: &open})
	assert.ErrorIs(t, err, domain.ErrClosed)

	_, err = h.svc.Assign(ctx, ticket.ID, "staff-1")
	assert.ErrorIs(t, err, domain.ErrClosed)

	_, err = h.svc.RecordReply(ctx, ticket.ID, domain.ReplyRequest{FromStaff: true})
	assert.ErrorIs(t, err, domain.ErrClosed)
}

func TestAssignTicket(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	ticket, err := h.svc.Create(ctx, createReq("u1"))
	require.NoError(t, err)

	_, err = h.svc.Assign(ctx, ticket.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidAssignee)

	assigned, err := h.svc.Assign(ctx, ticket.ID, "staff-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-1", *assigned.AssignedTo)

	reassigned, err := h.svc.Assign(ctx, ticket.ID, "staff-2")
	require.NoError(t, err)
	assert.Equal(t, "staff-2", *reassigned.AssignedTo)

	_, err = h.svc.Assign(ctx, "987654", "staff-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordReplyMovesStatus(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	ticket, err := h.svc.Create(ctx, createReq("u1"))
	require.NoError(t, err)

	staff, err := h.svc.RecordReply(ctx, ticket.ID, domain.ReplyRequest{FromStaff: true})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAwaitingUserReply, staff.Status)
	assert.NotNil(t, staff.LastRepliedAt)

	user, err := h.svc.RecordReply(ctx, ticket.ID, domain.ReplyRequest{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, user.Status)
}

func TestListTicketsPagination(t *testing.T) {
	h := setup(t, nil)
	ctx := context.Background()

	for i := 0; i < 23; i++ {
		req := createReq(fmt.Sprintf("u%d", i%3))
		if i%2 == 0 {
			req.Priority = "high"
		}
		_, err := h.svc.Create(ctx, req)
		require.NoError(t, err)
		h.clock.Advance(time.Second)
	}

	resp, err := h.svc.List(ctx, domain.ListRequest{Pagination: pagination.Pagination{Page: 2, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, resp.Tickets, 10)
	assert.Equal(t, pagination.Meta{Total: 23, Pages: 3, Page: 2, Limit: 10}, resp.Meta)

	resp, err = h.svc.List(ctx, domain.ListRequest{Pagination: pagination.Pagination{Page: 3, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, resp.Tickets, 3)

	resp, err = h.svc.List(ctx, domain.ListRequest{Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, int64(12), resp.Meta.Total)
	for i := 1; i < len(resp.Tickets); i++ {
		assert.False(t, resp.Tickets[i].CreatedAt.After(resp.Tickets[i-1].CreatedAt))
	}

	resp, err = h.svc.List(ctx, domain.ListRequest{Status: "open", UserID: "u0"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.Meta.Total)

	_, err = h.svc.List(ctx, domain.ListRequest{Status: "archived"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestGetTicketNotFound(t *testing.T) {
	h := setup(t, nil)

	_, err := h.svc.Get(context.Background(), "987654")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.svc.Get(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
