package service_test

import (
	"context"
	"testing"
	"time"

	auditdomain "github.com/Achorval/Voouch-Api-sub001/internal/audit/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/audit/repository"
	"github.com/Achorval/Voouch-Api-sub001/internal/audit/service"
	"github.com/Achorval/Voouch-Api-sub001/internal/auditcontext"
	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var base = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newService(t *testing.T) (auditdomain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&auditdomain.AuditLog{}))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	clk := clock.NewFakeClock(base)
	return service.NewService(service.Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  repository.Provide(),
	}), clk
}

func str(v string) *string { return &v }

// seed writes one entry per day starting at base.
func seed(t *testing.T, svc auditdomain.Service, clk *clock.FakeClock, entries []auditdomain.RecordRequest) {
	t.Helper()
	for _, entry := range entries {
		_, err := svc.Record(context.Background(), nil, entry)
		require.NoError(t, err)
		clk.Advance(24 * time.Hour)
	}
}

func fixtures() []auditdomain.RecordRequest {
	return []auditdomain.RecordRequest{
		{UserID: "u1", Type: "login", Source: "web", Description: str("Signed in from Chrome")},
		{UserID: "u1", Type: "transaction", Source: "mobile", Description: str("Airtime purchase 100% bonus")},
		{UserID: "u2", Type: "pin_change", Source: "mobile", Description: str("PIN updated")},
		{UserID: "u2", Type: "login", Source: "ussd"},
		{UserID: "u1", Type: "security_alert", Source: "api", Description: str("New device detected")},
	}
}

func TestListNewestFirstWithoutFilters(t *testing.T) {
	svc, clk := newService(t)
	seed(t, svc, clk, fixtures())

	resp, err := svc.List(context.Background(), auditdomain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 5)
	assert.Equal(t, auditdomain.ActivitySecurityAlert, resp.Logs[0].Type)
	assert.Equal(t, auditdomain.ActivityLogin, resp.Logs[4].Type)
	for i := 1; i < len(resp.Logs); i++ {
		assert.False(t, resp.Logs[i].CreatedAt.After(resp.Logs[i-1].CreatedAt))
	}
	assert.Equal(t, int64(5), resp.Meta.Total)
}

func TestListDateRangeIsInclusive(t *testing.T) {
	svc, clk := newService(t)
	seed(t, svc, clk, fixtures())

	start := base.Add(24 * time.Hour)
	end := base.Add(3 * 24 * time.Hour)
	resp, err := svc.List(context.Background(), auditdomain.ListRequest{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	require.Len(t, resp.Logs, 3)
	for _, entry := range resp.Logs {
		assert.False(t, entry.CreatedAt.Before(start))
		assert.False(t, entry.CreatedAt.After(end))
	}
	assert.Equal(t, int64(3), resp.Meta.Total)
}

func TestListSingleBoundIsHalfOpen(t *testing.T) {
	svc, clk := newService(t)
	seed(t, svc, clk, fixtures())
	ctx := context.Background()

	start := base.Add(3 * 24 * time.Hour)
	resp, err := svc.List(ctx, auditdomain.ListRequest{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, resp.Logs, 2)

	end := base.Add(24 * time.Hour)
	resp, err = svc.List(ctx, auditdomain.ListRequest{EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, resp.Logs, 2)
}

func TestListRejectsInvertedRange(t *testing.T) {
	svc, _ := newService(t)

	start := base.Add(time.Hour)
	end := base
	_, err := svc.List(context.Background(), auditdomain.ListRequest{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidTimeRange)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestListFiltersConjoin(t *testing.T) {
	svc, clk := newService(t)
	seed(t, svc, clk, fixtures())
	ctx := context.Background()

	resp, err := svc.List(ctx, auditdomain.ListRequest{UserID: "u2", Type: "login"})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, auditdomain.SourceUSSD, resp.Logs[0].Source)

	resp, err = svc.List(ctx, auditdomain.ListRequest{Source: "MOBILE"})
	require.NoError(t, err)
	assert.Len(t, resp.Logs, 2)

	_, err = svc.List(ctx, auditdomain.ListRequest{Type: "coffee"})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidType)

	_, err = svc.List(ctx, auditdomain.ListRequest{Source: "fax"})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidSource)
}

func TestListSearchMatchesDescriptionOrType(t *testing.T) {
	svc, clk := newService(t)
	seed(t, svc, clk, fixtures())
	ctx := context.Background()

	resp, err := svc.List(ctx, auditdomain.ListRequest{Search: "DEVICE"})
	require.NoError(t, err)
	require.Len(t, resp.Logs, 1)
	assert.Equal(t, auditdomain.ActivitySecurityAlert, resp.Logs[0].Type)

	resp, err = svc.List(ctx, auditdomain.ListRequest{Search: "login"})
	require.NoError(t, err)
	assert.Len(t, resp.Logs, 2)

	resp, err = svc.List(ctx, auditdomain.ListRequest{Search: "100%"})
	require.NoError(t, err)
	assert.Len(t, resp.Logs, 1)

	resp, err = svc.List(ctx, auditdomain.ListRequest{Search: "%"})
	require.NoError(t, err)
	assert.Len(t, resp.Logs, 1)
}

func TestListPaginationMeta(t *testing.T) {
	svc, clk := newService(t)
	seed(t, svc, clk, fixtures())

	resp, err := svc.List(context.Background(), auditdomain.ListRequest{
		Pagination: pagination.Pagination{Page: 2, Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Logs, 2)
	assert.Equal(t, pagination.Meta{Total: 5, Pages: 3, Page: 2, Limit: 2}, resp.Meta)
	assert.Equal(t, auditdomain.ActivityPinChange, resp.Logs[0].Type)
}

func TestRecordDefaultsFromContextAndMasksMetadata(t *testing.T) {
	svc, _ := newService(t)

	ctx := auditcontext.WithClientSource(context.Background(), "Mobile")
	ctx = auditcontext.WithIPAddress(ctx, "10.0.0.8")
	ctx = auditcontext.WithRequestID(ctx, "req-1")

	entry, err := svc.Record(ctx, nil, auditdomain.RecordRequest{
		UserID:   "u9",
		Type:     "pin_change",
		Metadata: map[string]any{"new_pin": "1234", "channel": "app"},
	})
	require.NoError(t, err)

	assert.Equal(t, auditdomain.SourceMobile, entry.Source)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "10.0.0.8", *entry.IPAddress)
	assert.Equal(t, "****", entry.Metadata["new_pin"])
	assert.Equal(t, "app", entry.Metadata["channel"])
	assert.Equal(t, "req-1", entry.Metadata["request_id"])
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Record(ctx, nil, auditdomain.RecordRequest{Type: "login"})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidUserID)

	_, err = svc.Record(ctx, nil, auditdomain.RecordRequest{UserID: "u1", Type: "unknown"})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidType)

	_, err = svc.Record(ctx, nil, auditdomain.RecordRequest{UserID: "u1", Type: "login", Source: "fax"})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidSource)
}
