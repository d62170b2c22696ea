package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"realtors/internal/model"
	"realtors/internal/repository"
)

type MockRealtorRepository struct {
	mock.Mock
}

func (m *MockRealtorRepository) Create(ctx context.Context, r *model.Realtor) (*model.Realtor, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) List(ctx context.Context, pq repository.PageQuery) ([]model.Realtor, error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRealtorRepository) FindByEmail(ctx context.Context, email string) (*model.Realtor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Realtor), args.Error(1)
}

func (m *MockRealtorRepository) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
