package domain

import (
	"time"

	"gorm.io/datatypes"
)

type Category struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	ParentID    *int64            `json:"parent_id,omitempty" gorm:"column:parent_id;index"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Slug        string            `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_categories_slug"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool              `json:"is_active" gorm:"not null"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null"`
}

func (Category) TableName() string { return "categories" }

type Product struct {
	ID          int64             `json:"id" gorm:"primaryKey"`
	CategoryID  int64             `json:"category_id" gorm:"column:category_id;not null;index"`
	Name        string            `json:"name" gorm:"type:text;not null"`
	Code        string            `json:"code" gorm:"type:text;not null;uniqueIndex:ux_products_code"`
	Description *string           `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool              `json:"is_active" gorm:"not null"`
	Metadata    datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time         `json:"updated_at" gorm:"not null"`
}

func (Product) TableName() string { return "products" }

type Provider struct {
	ID        int64             `json:"id" gorm:"primaryKey"`
	Name      string            `json:"name" gorm:"type:text;not null"`
	Code      string            `json:"code" gorm:"type:text;not null;uniqueIndex:ux_providers_code"`
	IsActive  bool              `json:"is_active" gorm:"not null"`
	Metadata  datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at" gorm:"not null"`
	UpdatedAt time.Time         `json:"updated_at" gorm:"not null"`
}

func (Provider) TableName() string { return "providers" }
