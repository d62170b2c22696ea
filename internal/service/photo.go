package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"realtors/internal/model"
	"realtors/internal/storage"
)

const (
	photoPrefix           = "realtors/photos"
	defaultPhotoURLExpiry = 7 * 24 * time.Hour
)

// PhotoResult identifies an uploaded photo. URL can be sent as the realtor's photo.
type PhotoResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PhotoService stores realtor photos in object storage.
type PhotoService interface {
	// Upload streams an image into storage under a generated key and returns a presigned URL.
	Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (*PhotoResult, error)
}

type photoService struct {
	store  storage.Storage
	expiry time.Duration
}

// NewPhotoService constructs a PhotoService. A nil store yields a service that
// rejects every upload with ErrStorageDisabled.
func NewPhotoService(store storage.Storage, urlExpiry time.Duration) PhotoService {
	if urlExpiry <= 0 {
		urlExpiry = defaultPhotoURLExpiry
	}
	return &photoService{store: store, expiry: urlExpiry}
}

func (s *photoService) Upload(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (*PhotoResult, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	if r == nil {
		return nil, ErrReaderNil
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrUnsupportedMedia
	}

	id, err := model.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate photo key: %w", err)
	}
	key := path.Join(photoPrefix, id+strings.ToLower(filepath.Ext(originalFilename)))

	info, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	u, err := s.store.PresignGet(ctx, info.Key, s.expiry)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, info.Key); delErr != nil {
			return nil, fmt.Errorf("presign failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("presign failed: %w", err)
	}
	return &PhotoResult{Key: info.Key, URL: u}, nil
}
