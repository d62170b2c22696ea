package gormrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"realtors/internal/model"
	"realtors/internal/repository"
)

// RealtorGorm is a gorm implementation of repository.RealtorRepository.
// The *gorm.DB is shared by all requests and is safe for concurrent use.
type RealtorGorm struct {
	db *gorm.DB
}

// NewRealtorGorm creates a new RealtorGorm repository.
func NewRealtorGorm(db *gorm.DB) *RealtorGorm {
	return &RealtorGorm{db: db}
}

var _ repository.RealtorRepository = (*RealtorGorm)(nil)

// creationOrder is the single ordering used for paging and for picking among
// rows that share an email.
const creationOrder = "created_at ASC, id ASC"

// Create inserts a new realtor row and returns the stored record.
func (r *RealtorGorm) Create(ctx context.Context, rec *model.Realtor) (*model.Realtor, error) {
	out := *rec
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
		return nil, storageErr("create", err)
	}
	return &out, nil
}

// List returns realtors using LIMIT/OFFSET pagination.
func (r *RealtorGorm) List(ctx context.Context, pq repository.PageQuery) ([]model.Realtor, error) {
	offset, ok := pq.Offset()
	if !ok {
		return []model.Realtor{}, nil
	}

	items := make([]model.Realtor, 0, pq.PageSize)
	err := r.db.WithContext(ctx).
		Order(creationOrder).
		Limit(pq.PageSize).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, storageErr("list", err)
	}
	return items, nil
}

// Count returns the total number of rows.
func (r *RealtorGorm) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Realtor{}).Count(&total).Error; err != nil {
		return 0, storageErr("count", err)
	}
	return total, nil
}

// FindByEmail fetches the earliest created realtor with the given email.
func (r *RealtorGorm) FindByEmail(ctx context.Context, email string) (*model.Realtor, error) {
	var rec model.Realtor
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order(creationOrder).
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, storageErr("find by email", err)
	}
	return &rec, nil
}

// DeleteByEmail removes exactly one row: the earliest created match.
// A row removed concurrently between lookup and delete counts as not found.
func (r *RealtorGorm) DeleteByEmail(ctx context.Context, email string) error {
	rec, err := r.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("id = ?", rec.ID).Delete(&model.Realtor{})
	if res.Error != nil {
		return storageErr("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
