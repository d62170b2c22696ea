package repository

import (
	"context"
	"math"

	"realtors/internal/model"
)

// RealtorRepository defines data access for realtors. No business logic here.
type RealtorRepository interface {
	// Create inserts a new realtor. An id is generated when r.ID is empty and
	// CreatedAt is set when zero. Returns the stored record.
	Create(ctx context.Context, r *model.Realtor) (*model.Realtor, error)

	// List returns one page of realtors ordered by creation time, then id.
	// Pages past the end yield an empty slice.
	List(ctx context.Context, pq PageQuery) ([]model.Realtor, error)

	// Count returns the total number of realtors.
	Count(ctx context.Context) (int64, error)

	// FindByEmail returns the earliest created realtor with exactly this email.
	FindByEmail(ctx context.Context, email string) (*model.Realtor, error)

	// DeleteByEmail removes the earliest created realtor with exactly this email.
	// Returns ErrNotFound when no row matches.
	DeleteByEmail(ctx context.Context, email string) error
}

// PageQuery holds 1-indexed page/size pagination parameters.
type PageQuery struct {
	Page     int
	PageSize int
}

// Offset converts the page number into a row offset. ok is false when the
// offset does not fit in an int; no table can hold rows that far in.
func (pq PageQuery) Offset() (offset int, ok bool) {
	if pq.Page < 1 || pq.PageSize < 1 {
		return 0, true
	}
	if pq.Page-1 > math.MaxInt/pq.PageSize {
		return 0, false
	}
	return (pq.Page - 1) * pq.PageSize, true
}
