package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"realtors/internal/model"
	"realtors/internal/repository"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	defaultCallTimeout = 5 * time.Second
)

// CreateRealtorInput is the accepted shape for new realtors.
type CreateRealtorInput struct {
	FullName    string  `json:"full_name" validate:"required,notblank"`
	Email       string  `json:"email" validate:"required,notblank"`
	Phone       string  `json:"phone" validate:"required,notblank"`
	Photo       *string `json:"photo"`
	IsMVP       *bool   `json:"is_mvp"`
	Description *string `json:"description"`
}

// RealtorListResult is one page of realtors plus the total row count.
// It is not serialized as a whole: handlers write Items as the body and Total as a header.
type RealtorListResult struct {
	Items []model.Realtor
	Total int64
}

// RealtorService defines the use cases for realtors.
type RealtorService interface {
	// Create validates the input and stores a new realtor with a generated id.
	Create(ctx context.Context, in CreateRealtorInput) (*model.Realtor, error)

	// List returns one page of realtors and the total count.
	// Non-positive page or pageSize fall back to the defaults. pageSize is capped at
	// MaxPageSize; the HTTP layer rejects larger values before they get here.
	List(ctx context.Context, page, pageSize int) (*RealtorListResult, error)

	// DeleteByEmail removes the earliest created realtor with the given email.
	DeleteByEmail(ctx context.Context, email string) error
}

type realtorService struct {
	repo     repository.RealtorRepository
	validate *validator.Validate
	timeout  time.Duration
}

// NewRealtorService constructs a RealtorService. Each repository call is bounded by
// callTimeout; zero selects a 5s default.
func NewRealtorService(repo repository.RealtorRepository, callTimeout time.Duration) RealtorService {
	if callTimeout <= 0 {
		callTimeout = defaultCallTimeout
	}
	return &realtorService{repo: repo, validate: newValidator(), timeout: callTimeout}
}

func (s *realtorService) Create(ctx context.Context, in CreateRealtorInput) (*model.Realtor, error) {
	if err := validateStruct(s.validate, in); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.repo.Create(ctx, &model.Realtor{
		FullName:    in.FullName,
		Email:       in.Email,
		Phone:       in.Phone,
		Photo:       in.Photo,
		IsMVP:       in.IsMVP,
		Description: in.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create realtor: %w", err)
	}
	return stored, nil
}

func (s *realtorService) List(ctx context.Context, page, pageSize int) (*RealtorListResult, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, err := s.repo.List(ctx, repository.PageQuery{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, fmt.Errorf("list realtors: %w", err)
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count realtors: %w", err)
	}
	return &RealtorListResult{Items: items, Total: total}, nil
}

func (s *realtorService) DeleteByEmail(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete realtor: %w", err)
	}
	return nil
}
