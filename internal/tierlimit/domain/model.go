package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// TierLimit caps what an account at a KYC level may hold and move per day.
type TierLimit struct {
	ID             int64                             `json:"id" gorm:"primaryKey"`
	Level          int                               `json:"level" gorm:"not null;uniqueIndex:ux_tier_limits_level"`
	DailyLimit     decimal.Decimal                   `json:"daily_limit" gorm:"type:numeric(20,2);not null"`
	MaximumBalance decimal.Decimal                   `json:"maximum_balance" gorm:"type:numeric(20,2);not null"`
	Requirements   *datatypes.JSONType[Requirements] `json:"requirements,omitempty"`
	Metadata       datatypes.JSONMap                 `json:"metadata,omitempty"`
	CreatedAt      time.Time                         `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time                         `json:"updated_at" gorm:"not null"`
}

func (TierLimit) TableName() string { return "tier_limits" }

type Requirements struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Documents   []string `json:"documents"`
}
