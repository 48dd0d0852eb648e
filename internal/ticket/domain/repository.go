package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListFilter struct {
	Status     Status
	Priority   Priority
	UserID     string
	AssignedTo string
	Offset     int
	Limit      int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, ticket *Ticket) error
	Update(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error
	FindByID(ctx context.Context, db *gorm.DB, id int64, forUpdate bool) (*Ticket, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Ticket, error)
	Count(ctx context.Context, db *gorm.DB, filter ListFilter) (int64, error)
}

// NumberGenerator produces candidate ticket numbers; uniqueness is enforced
// by the storage index.
type NumberGenerator interface {
	Next(prefix string, length int) (string, error)
}
