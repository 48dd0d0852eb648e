package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	"github.com/Achorval/Voouch-Api-sub001/internal/config"
	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/repository"
	"github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/service"
	"github.com/Achorval/Voouch-Api-sub001/pkg/apperror"
	"github.com/Achorval/Voouch-Api-sub001/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T, policy config.Policy) (domain.Service, *clock.FakeClock) {
	t.Helper()
	return newServiceWithRepo(t, policy, repository.Provide())
}

func newServiceWithRepo(t *testing.T, policy config.Policy, repo domain.Repository) (domain.Service, *clock.FakeClock) {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.TierLimit{}))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	clk := clock.NewFakeClock(time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC))
	svc := service.New(service.Params{
		DB:     conn,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  clk,
		Repo:   repo,
		Policy: config.NewStaticPolicyHolder(policy),
	})
	return svc, clk
}

func tier(level int, daily, max int64) domain.CreateRequest {
	return domain.CreateRequest{
		Level:          level,
		DailyLimit:     decimal.NewFromInt(daily),
		MaximumBalance: decimal.NewFromInt(max),
	}
}

func TestCreateTierLimit(t *testing.T) {
	svc, _ := newService(t, config.DefaultPolicy())
	ctx := context.Background()

	req := tier(1, 50000, 300000)
	req.Requirements = &domain.Requirements{
		Title:     "Basic",
		Documents: []string{" BVN ", ""},
	}

	created, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, created.Level)
	assert.True(t, created.DailyLimit.Equal(decimal.NewFromInt(50000)))
	require.NotNil(t, created.Requirements)
	assert.Equal(t, []string{"BVN"}, created.Requirements.Documents)
}

func TestCreateTierLimitDuplicateLevelConflicts(t *testing.T) {
	svc, _ := newService(t, config.DefaultPolicy())
	ctx := context.Background()

	_, err := svc.Create(ctx, tier(1, 50000, 300000))
	require.NoError(t, err)

	_, err = svc.Create(ctx, tier(1, 50000, 300000))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLevelExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCreateTierLimitValidation(t *testing.T) {
	svc, _ := newService(t, config.DefaultPolicy())
	ctx := context.Background()

	_, err := svc.Create(ctx, tier(0, 1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidLevel)

	_, err = svc.Create(ctx, tier(1, -1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidDailyLimit)

	_, err = svc.Create(ctx, tier(1, 1, -1))
	assert.ErrorIs(t, err, domain.ErrInvalidMaximumBalance)
}

func TestCreateTierLimitEnforcesMonotonicLimits(t *testing.T) {
	svc, _ := newService(t, config.DefaultPolicy())
	ctx := context.Background()

	_, err := svc.Create(ctx, tier(1, 50000, 300000))
	require.NoError(t, err)
	_, err = svc.Create(ctx, tier(3, 5000000, 0))
	assert.ErrorIs(t, err, domain.ErrNotMonotonic)

	_, err = svc.Create(ctx, tier(3, 5000000, 10000000))
	require.NoError(t, err)

	_, err = svc.Create(ctx, tier(2, 6000000, 500000))
	assert.ErrorIs(t, err, domain.ErrNotMonotonic)

	_, err = svc.Create(ctx, tier(2, 200000, 500000))
	require.NoError(t, err)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{items[0].Level, items[1].Level, items[2].Level})
}

func TestCreateTierLimitMonotonicDisabled(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.Tiers.EnforceMonotonic = false
	svc, _ := newService(t, policy)
	ctx := context.Background()

	_, err := svc.Create(ctx, tier(2, 50000, 300000))
	require.NoError(t, err)
	_, err = svc.Create(ctx, tier(1, 90000, 900000))
	assert.NoError(t, err)
}

func TestUpdateTierLimitMergesAndReadsBack(t *testing.T) {
	svc, clk := newService(t, config.DefaultPolicy())
	ctx := context.Background()

	created, err := svc.Create(ctx, tier(1, 50000, 300000))
	require.NoError(t, err)

	clk.Advance(time.Hour)
	daily := decimal.NewFromInt(75000)
	updated, err := svc.Update(ctx, created.ID, domain.UpdateRequest{DailyLimit: &daily})
	require.NoError(t, err)

	assert.True(t, updated.DailyLimit.Equal(daily))
	assert.True(t, updated.MaximumBalance.Equal(decimal.NewFromInt(300000)))
	assert.Equal(t, 1, updated.Level)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateTierLimitErrors(t *testing.T) {
	svc, _ := newService(t, config.DefaultPolicy())
	ctx := context.Background()

	_, err := svc.Update(ctx, "1234", domain.UpdateRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	first, err := svc.Create(ctx, tier(1, 50000, 300000))
	require.NoError(t, err)
	_, err = svc.Create(ctx, tier(2, 200000, 500000))
	require.NoError(t, err)

	level := 2
	_, err = svc.Update(ctx, first.ID, domain.UpdateRequest{Level: &level})
	assert.ErrorIs(t, err, domain.ErrLevelExists)

	max := decimal.NewFromInt(900000)
	_, err = svc.Update(ctx, first.ID, domain.UpdateRequest{MaximumBalance: &max})
	assert.ErrorIs(t, err, domain.ErrNotMonotonic)
}

func TestGetByLevel(t *testing.T) {
	svc, _ := newService(t, config.DefaultPolicy())
	ctx := context.Background()

	_, err := svc.Create(ctx, tier(1, 50000, 300000))
	require.NoError(t, err)

	got, err := svc.GetByLevel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Level)

	_, err = svc.GetByLevel(ctx, 9)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// staleLevelRepo never sees an existing level, as if a concurrent writer
// committed between the level check and the write.
type staleLevelRepo struct {
	domain.Repository
}

func (staleLevelRepo) FindByLevel(context.Context, *gorm.DB, int) (*domain.TierLimit, error) {
	return nil, nil
}

func TestCreateTierLimitUniqueIndexConflicts(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.Tiers.EnforceMonotonic = false
	svc, _ := newServiceWithRepo(t, policy, staleLevelRepo{repository.Provide()})
	ctx := context.Background()

	_, err := svc.Create(ctx, tier(1, 50000, 200000))
	require.NoError(t, err)

	_, err = svc.Create(ctx, tier(1, 60000, 300000))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLevelExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUpdateTierLimitUniqueIndexConflicts(t *testing.T) {
	policy := config.DefaultPolicy()
	policy.Tiers.EnforceMonotonic = false
	svc, _ := newServiceWithRepo(t, policy, staleLevelRepo{repository.Provide()})
	ctx := context.Background()

	_, err := svc.Create(ctx, tier(1, 50000, 200000))
	require.NoError(t, err)
	second, err := svc.Create(ctx, tier(2, 100000, 500000))
	require.NoError(t, err)

	level := 1
	_, err = svc.Update(ctx, second.ID, domain.UpdateRequest{Level: &level})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLevelExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	got, err := svc.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)
}
