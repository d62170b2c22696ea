package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"realtors/internal/service"
)

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (*service.PhotoResult, error) {
	args := m.Called(ctx, r, originalFilename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PhotoResult), args.Error(1)
}
