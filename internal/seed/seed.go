package seed

import (
	"context"
	"errors"

	catalogdomain "github.com/Achorval/Voouch-Api-sub001/internal/catalog/domain"
	"github.com/Achorval/Voouch-Api-sub001/internal/clock"
	tierlimitdomain "github.com/Achorval/Voouch-Api-sub001/internal/tierlimit/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type defaultTier struct {
	level          int
	dailyLimit     int64
	maximumBalance int64
	requirements   tierlimitdomain.Requirements
}

var defaultTiers = []defaultTier{
	{
		level:          1,
		dailyLimit:     50000,
		maximumBalance: 300000,
		requirements: tierlimitdomain.Requirements{
			Title:       "Basic",
			Description: "Phone number and BVN verified",
			Documents:   []string{"bvn"},
		},
	},
	{
		level:          2,
		dailyLimit:     200000,
		maximumBalance: 500000,
		requirements: tierlimitdomain.Requirements{
			Title:       "Standard",
			Description: "Government issued identity verified",
			Documents:   []string{"bvn", "nin", "selfie"},
		},
	},
	{
		level:          3,
		dailyLimit:     5000000,
		maximumBalance: 10000000,
		requirements: tierlimitdomain.Requirements{
			Title:       "Premium",
			Description: "Proof of address verified",
			Documents:   []string{"bvn", "nin", "selfie", "utility_bill"},
		},
	},
}

var defaultCategories = []string{
	"Airtime",
	"Data",
	"Electricity",
	"Cable TV",
	"Betting",
	"Education",
}

// EnsureDefaults seeds the baseline tier ladder and bill payment categories.
// Existing rows are left untouched.
func EnsureDefaults(db *gorm.DB, node *snowflake.Node, clk clock.Clock) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		generated, err := snowflake.NewNode(1)
		if err != nil {
			return err
		}
		node = generated
	}
	if clk == nil {
		clk = clock.NewSystemClock()
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureTierLimitsTx(ctx, tx, node, clk); err != nil {
			return err
		}
		return ensureCategoriesTx(ctx, tx, node, clk)
	})
}

func ensureTierLimitsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, clk clock.Clock) error {
	for _, tier := range defaultTiers {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&tierlimitdomain.TierLimit{}).
			Where("level = ?", tier.level).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := clk.Now()
		requirements := datatypes.NewJSONType(tier.requirements)
		row := tierlimitdomain.TierLimit{
			ID:             node.Generate().Int64(),
			Level:          tier.level,
			DailyLimit:     decimal.NewFromInt(tier.dailyLimit),
			MaximumBalance: decimal.NewFromInt(tier.maximumBalance),
			Requirements:   &requirements,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureCategoriesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, clk clock.Clock) error {
	for _, name := range defaultCategories {
		code := slug.Make(name)

		var count int64
		if err := tx.WithContext(ctx).
			Model(&catalogdomain.Category{}).
			Where("slug = ?", code).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		now := clk.Now()
		row := catalogdomain.Category{
			ID:        node.Generate().Int64(),
			Name:      name,
			Slug:      code,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
