package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"realtors/internal/service"
)

// APIPrefix is the versioned path every realtor route lives under.
const APIPrefix = "/api/v1/realtors"

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db Pinger, realtorSvc service.RealtorService, photoSvc service.PhotoService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	realtors := app.Group(APIPrefix)
	realtors.Get("/get", ListRealtors(realtorSvc))
	realtors.Post("/add", CreateRealtor(realtorSvc))
	realtors.Delete("/delete", DeleteRealtor(realtorSvc))
	realtors.Post("/photo", UploadPhoto(photoSvc))
}

// RegisterMetrics exposes the Prometheus registry on /metrics.
func RegisterMetrics(app *fiber.App, g prometheus.Gatherer) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
}
