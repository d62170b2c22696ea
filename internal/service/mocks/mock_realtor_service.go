package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"realtors/internal/model"
	"realtors/internal/service"
)

type MockRealtorService struct {
	mock.Mock
}

func (m *MockRealtorService) Create(ctx context.Context, in service.CreateRealtorInput) (*model.Realtor, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Realtor), args.Error(1)
}

func (m *MockRealtorService) List(ctx context.Context, page, pageSize int) (*service.RealtorListResult, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RealtorListResult), args.Error(1)
}

func (m *MockRealtorService) DeleteByEmail(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
