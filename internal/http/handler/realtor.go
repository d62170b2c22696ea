package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"realtors/internal/service"
)

// TotalCountHeader carries the total number of realtors on list responses.
const TotalCountHeader = "X-Total-Count"

// internalError logs err with the request-scoped logger and answers a generic 500.
func internalError(c *fiber.Ctx, err error) error {
	// The request-scoped logger already carries request_id.
	zerolog.Ctx(c.UserContext()).Error().
		Err(err).
		Str("path", c.Path()).
		Msg("request failed")
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// positiveQueryInt reads an optional positive integer query parameter.
func positiveQueryInt(c *fiber.Ctx, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ListRealtors returns one page of realtors as a JSON array.
//
// @Summary  List realtors
// @Tags     realtors
// @Produce  json
// @Param    page      query int false "1-indexed page" default(1) minimum(1)
// @Param    page_size query int false "rows per page, 1 to 100; larger values are rejected" default(10) minimum(1) maximum(100)
// @Success  200 {array}  model.Realtor
// @Header   200 {integer} X-Total-Count "total number of realtors"
// @Failure  400 {object} errorPayload
// @Failure  500 {object} errorPayload "JSON error envelope without internal detail (failures are never an empty body)"
// @Router   /api/v1/realtors/get [get]
func ListRealtors(svc service.RealtorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, ok := positiveQueryInt(c, "page", service.DefaultPage)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE", "page must be a positive integer")
		}
		pageSize, ok := positiveQueryInt(c, "page_size", service.DefaultPageSize)
		if !ok || pageSize > service.MaxPageSize {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGE_SIZE", "page_size must be an integer between 1 and 100")
		}

		res, err := svc.List(c.UserContext(), page, pageSize)
		if err != nil {
			return internalError(c, err)
		}
		c.Set(TotalCountHeader, strconv.FormatInt(res.Total, 10))
		return c.JSON(res.Items)
	}
}

// CreateRealtor stores a new realtor and returns it with its generated id.
//
// @Summary  Create realtor
// @Tags     realtors
// @Accept   json
// @Produce  json
// @Param    body body     service.CreateRealtorInput true "realtor"
// @Success  200  {object} model.Realtor
// @Failure  400  {object} errorPayload
// @Failure  500  {object} errorPayload "JSON error envelope without internal detail (failures are never an empty body)"
// @Router   /api/v1/realtors/add [post]
func CreateRealtor(svc service.RealtorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateRealtorInput
		if err := c.App().Config().JSONDecoder(c.Body(), &in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON realtor")
		}

		realtor, err := svc.Create(c.UserContext(), in)
		if err != nil {
			var ve *service.ValidationError
			if errors.As(err, &ve) {
				return writeValidationError(c, ve)
			}
			return internalError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(realtor)
	}
}

// DeleteRealtor removes the realtor registered under the email query parameter.
//
// @Summary  Delete realtor by email
// @Tags     realtors
// @Param    email query string true "exact, case-sensitive email"
// @Success  200
// @Failure  400 {object} errorPayload
// @Failure  404 {object} errorPayload
// @Failure  500 {object} errorPayload "JSON error envelope without internal detail (failures are never an empty body)"
// @Router   /api/v1/realtors/delete [delete]
func DeleteRealtor(svc service.RealtorService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Query("email")
		if email == "" {
			return writeError(c, fiber.StatusBadRequest, "EMAIL_REQUIRED", "email query parameter is required")
		}

		if err := svc.DeleteByEmail(c.UserContext(), email); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "realtor not found")
			}
			return internalError(c, err)
		}
		// Empty 200; SendStatus would write the status text as body.
		c.Status(fiber.StatusOK)
		return nil
	}
}

// UploadPhoto stores a realtor photo (multipart field "file") and returns a URL for it.
//
// @Summary  Upload realtor photo
// @Tags     realtors
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "image"
// @Success  201  {object} service.PhotoResult
// @Failure  400  {object} errorPayload
// @Failure  415  {object} errorPayload
// @Failure  503  {object} errorPayload
// @Failure  500  {object} errorPayload "JSON error envelope without internal detail (failures are never an empty body)"
// @Router   /api/v1/realtors/photo [post]
func UploadPhoto(svc service.PhotoService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		res, err := svc.Upload(c.UserContext(), f, fh.Filename, ct, fh.Size)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrUnsupportedMedia):
				return writeError(c, fiber.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE", "photo must be an image")
			case errors.Is(err, service.ErrStorageDisabled):
				return writeError(c, fiber.StatusServiceUnavailable, "STORAGE_DISABLED", "photo storage is not configured")
			default:
				return internalError(c, err)
			}
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}
