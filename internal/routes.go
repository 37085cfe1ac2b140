package internal

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/karloscodes/cartridge"

	"ctrcompare/internal/http"
)

// NewServerConfig returns cartridge's defaults minus the browser-only
// features. The API is called by scripts that send no Sec-Fetch-Site header.
func NewServerConfig() *cartridge.ServerConfig {
	cfg := cartridge.DefaultServerConfig()
	cfg.EnableTemplates = false
	cfg.EnableStaticAssets = false
	cfg.EnableSecFetchSite = false
	cfg.ErrorHandler = jsonErrorHandler
	return cfg
}

// UploadBodyLimit is the transport backstop. It sits above the upload limit
// so oversized uploads reach LimitUploadSize and get a JSON answer.
func UploadBodyLimit(maxUploadBytes int) int {
	return 2 * maxUploadBytes
}

// MountRoutes registers the API on the server.
func MountRoutes(srv *cartridge.Server, h *http.Handlers, maxUploadBytes int) {
	srv.App().Server().MaxRequestBodySize = UploadBodyLimit(maxUploadBytes)

	srv.Get("/_health", h.HealthIndexAction)
	srv.Head("/_health", h.HealthIndexAction)
	srv.App().Get("/metrics", adaptor.HTTPHandler(h.Metrics.Handler()))

	uploadConfig := &cartridge.RouteConfig{
		CustomMiddleware: []fiber.Handler{http.LimitUploadSize(maxUploadBytes)},
	}
	writeConfig := &cartridge.RouteConfig{
		WriteConcurrency: true,
	}

	srv.Post("/api/periods/:period", h.UploadPeriodAction, uploadConfig)
	srv.Get("/api/periods/:period", h.ShowPeriodAction)
	srv.Get("/api/periods/:period/chart", h.PeriodChartAction)

	srv.Get("/api/comparison", h.ShowComparisonAction)
	srv.Post("/api/comparison", h.CreateComparisonAction, writeConfig)
	srv.Get("/api/comparison/chart", h.ComparisonChartAction)

	srv.Delete("/api/session", h.ResetSessionAction, writeConfig)
}

func jsonErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "Internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
		switch status {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusRequestEntityTooLarge:
			code = "FILE_TOO_LARGE"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		default:
			code = "REQUEST_ERROR"
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}
