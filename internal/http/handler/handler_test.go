package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"realtors/internal/http/middleware"
	"realtors/internal/model"
	"realtors/internal/repository/gormrepo"
	"realtors/internal/service"
	serviceMocks "realtors/internal/service/mocks"
)

func decodeError(t *testing.T, r io.Reader) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(r).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp.Body).Error.Code)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListRealtors(t *testing.T) {
	mockSvc := new(serviceMocks.MockRealtorService)
	app := fiber.New()
	app.Get("/get", ListRealtors(mockSvc))

	t.Run("success", func(t *testing.T) {
		expected := &service.RealtorListResult{
			Items: []model.Realtor{{ID: "abc", FullName: "Jane Doe", Email: "jane@x.com", Phone: "555-0100"}},
			Total: 11,
		}
		mockSvc.On("List", mock.Anything, 2, 5).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/get?page=2&page_size=5", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "11", resp.Header.Get(TotalCountHeader))

		var items []model.Realtor
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
		require.Len(t, items, 1)
		assert.Equal(t, "abc", items[0].ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("defaults", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.DefaultPage, service.DefaultPageSize).
			Return(&service.RealtorListResult{Items: []model.Realtor{}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/get", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `[]`, string(body))
		mockSvc.AssertExpectations(t)
	})

	tests := []struct {
		name     string
		query    string
		wantCode string
	}{
		{"non-numeric page", "?page=abc", "INVALID_PAGE"},
		{"zero page", "?page=0", "INVALID_PAGE"},
		{"negative page size", "?page_size=-3", "INVALID_PAGE_SIZE"},
		{"non-numeric page size", "?page=1&page_size=ten", "INVALID_PAGE_SIZE"},
		{"page size above maximum", "?page_size=101", "INVALID_PAGE_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/get"+tt.query, nil)
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, resp.Body).Error.Code)
		})
	}

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, 1, 10).Return(nil, errors.New("connection refused")).Once()

		req := httptest.NewRequest(http.MethodGet, "/get", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		raw, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(raw), "connection refused")
		mockSvc.AssertExpectations(t)
	})
}

func TestInternalError_LogsRequestIDOnce(t *testing.T) {
	var buf bytes.Buffer
	mockSvc := new(serviceMocks.MockRealtorService)
	mockSvc.On("List", mock.Anything, 1, 10).Return(nil, errors.New("connection refused")).Once()

	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zerolog.New(&buf)))
	app.Get("/get", ListRealtors(mockSvc))

	req := httptest.NewRequest(http.MethodGet, "/get", nil)
	req.Header.Set(middleware.RequestIDHeader, "rid-7")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	failure := lines[0]
	assert.Contains(t, failure, "request failed")
	assert.Contains(t, failure, "connection refused")
	assert.Equal(t, 1, strings.Count(failure, `"request_id"`))
	assert.Contains(t, failure, `"request_id":"rid-7"`)
	mockSvc.AssertExpectations(t)
}

func TestCreateRealtor(t *testing.T) {
	mockSvc := new(serviceMocks.MockRealtorService)
	app := fiber.New()
	app.Post("/add", CreateRealtor(mockSvc))

	t.Run("success", func(t *testing.T) {
		in := service.CreateRealtorInput{FullName: "Jane Doe", Email: "jane@x.com", Phone: "555-0100"}
		mockSvc.On("Create", mock.Anything, in).
			Return(&model.Realtor{ID: "gen-id", FullName: in.FullName, Email: in.Email, Phone: in.Phone}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"full_name":"Jane Doe","email":"jane@x.com","phone":"555-0100"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.JSONEq(t, `{"id":"gen-id","full_name":"Jane Doe","email":"jane@x.com","photo":null,"phone":"555-0100","is_mvp":null,"description":null}`, string(body))
		mockSvc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"full_name":`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("wrong field type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"full_name":"A","email":"a@x.com","phone":"1","is_mvp":"yes"}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_BODY", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		ve := &service.ValidationError{Fields: []service.FieldError{{Field: "email", Message: "is required"}}}
		mockSvc.On("Create", mock.Anything, service.CreateRealtorInput{FullName: "A", Phone: "1"}).
			Return(nil, ve).Once()

		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"full_name":"A","phone":"1"}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp.Body)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		require.Len(t, body.Error.Fields, 1)
		assert.Equal(t, "email", body.Error.Fields[0].Field)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("insert failed")).Once()

		req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"full_name":"A","email":"a@x.com","phone":"1"}`))
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteRealtor(t *testing.T) {
	mockSvc := new(serviceMocks.MockRealtorService)
	app := fiber.New()
	app.Delete("/delete", DeleteRealtor(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("DeleteByEmail", mock.Anything, "jane@x.com").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/delete?email=jane@x.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		assert.Empty(t, body)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/delete", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "EMAIL_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("DeleteByEmail", mock.Anything, "ghost@x.com").
			Return(errors.Join(errors.New("delete realtor"), service.ErrNotFound)).Once()

		req := httptest.NewRequest(http.MethodDelete, "/delete?email=ghost@x.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("DeleteByEmail", mock.Anything, "jane@x.com").Return(errors.New("delete error")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/delete?email=jane@x.com", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func multipartBody(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadPhoto(t *testing.T) {
	mockSvc := new(serviceMocks.MockPhotoService)
	app := fiber.New()
	app.Post("/photo", UploadPhoto(mockSvc))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, "face.png", "image/png", []byte("\x89PNG fake"))
		expected := &service.PhotoResult{Key: "realtors/photos/xyz.png", URL: "http://minio/realtors/photos/xyz.png?sig"}
		mockSvc.On("Upload", mock.Anything, mock.Anything, "face.png", "image/png", int64(9)).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/photo", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		var result service.PhotoResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, *expected, result)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/photo", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp.Body).Error.Code)
	})

	errCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unsupported media", service.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"},
		{"storage disabled", service.ErrStorageDisabled, http.StatusServiceUnavailable, "STORAGE_DISABLED"},
		{"storage failure", errors.New("put object: timeout"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, "notes.txt", "text/plain", []byte("hello"))
			mockSvc.On("Upload", mock.Anything, mock.Anything, "notes.txt", "text/plain", int64(5)).Return(nil, tt.err).Once()

			req := httptest.NewRequest(http.MethodPost, "/photo", body)
			req.Header.Set("Content-Type", ct)
			resp, _ := app.Test(req)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, resp.Body).Error.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	RegisterRoutes(app, nil, new(serviceMocks.MockRealtorService), new(serviceMocks.MockPhotoService))

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp.Body).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, APIPrefix+"/get", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp.Body).Error.Code)
	})
}

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "realtors_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	app := fiber.New()
	RegisterMetrics(app, reg)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "realtors_test_total 1")
}

// TestRealtorLifecycle drives add, list and delete through the real service
// and a sqlite-backed repository.
func TestRealtorLifecycle(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(&model.Realtor{}))

	svc := service.NewRealtorService(gormrepo.NewRealtorGorm(gdb), time.Second)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, sqlDB, svc, service.NewPhotoService(nil, 0))

	req := httptest.NewRequest(http.MethodPost, APIPrefix+"/add",
		strings.NewReader(`{"full_name":"Jane Doe","email":"jane@x.com","phone":"555-0100"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	id, _ := created["id"].(string)
	assert.NotEmpty(t, id)
	assert.Equal(t, "Jane Doe", created["full_name"])
	assert.Nil(t, created["photo"])
	assert.Nil(t, created["is_mvp"])
	assert.Nil(t, created["description"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, APIPrefix+"/get?page=1&page_size=10", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get(TotalCountHeader))
	var listed []model.Realtor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listed))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, APIPrefix+"/get?page=922337203685477582&page_size=10", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	far, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(far))

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, APIPrefix+"/delete?email=jane@x.com", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, APIPrefix+"/delete?email=jane@x.com", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
