package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type FeeType string

const (
	FeeTypeFlat       FeeType = "flat"
	FeeTypePercentage FeeType = "percentage"
)

func (t FeeType) Valid() bool {
	switch t {
	case FeeTypeFlat, FeeTypePercentage:
		return true
	}
	return false
}

func ParseFeeType(value string) (FeeType, error) {
	t := FeeType(strings.ToLower(strings.TrimSpace(value)))
	if !t.Valid() {
		return "", ErrInvalidFeeType
	}
	return t, nil
}

// FeeConfiguration links a product to a provider and carries the fee charged
// when the provider fulfils that product.
type FeeConfiguration struct {
	ID                  int64             `json:"id" gorm:"primaryKey"`
	ProductID           int64             `json:"product_id" gorm:"column:product_id;not null;uniqueIndex:ux_fee_configurations_product_provider,priority:1;index:ix_fee_configurations_product_default,priority:1"`
	ProviderID          int64             `json:"provider_id" gorm:"column:provider_id;not null;uniqueIndex:ux_fee_configurations_product_provider,priority:2"`
	ProviderProductCode string            `json:"provider_product_code" gorm:"type:text;not null;uniqueIndex:ux_fee_configurations_provider_product_code"`
	FeeType             FeeType           `json:"fee_type" gorm:"type:text;not null"`
	FeeValue            decimal.Decimal   `json:"fee_value" gorm:"type:numeric(20,6);not null"`
	MinFee              *decimal.Decimal  `json:"min_fee,omitempty" gorm:"type:numeric(20,2)"`
	MaxFee              *decimal.Decimal  `json:"max_fee,omitempty" gorm:"type:numeric(20,2)"`
	Priority            int               `json:"priority" gorm:"not null;default:1"`
	IsEnabled           bool              `json:"is_enabled" gorm:"not null"`
	IsDefault           bool              `json:"is_default" gorm:"not null;index:ix_fee_configurations_product_default,priority:2"`
	Metadata            datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt           time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt           time.Time         `json:"updated_at" gorm:"not null"`
}

func (FeeConfiguration) TableName() string { return "fee_configurations" }

func (c FeeConfiguration) Schedule() Schedule {
	return Schedule{
		FeeType:  c.FeeType,
		FeeValue: c.FeeValue,
		MinFee:   c.MinFee,
		MaxFee:   c.MaxFee,
	}
}
