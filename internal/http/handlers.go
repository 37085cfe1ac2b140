// Package http exposes the comparison session over a JSON API.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"ctrcompare/internal/metrics"
	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/session"
)

const (
	codeInvalidPeriod        = "INVALID_PERIOD"
	codeMissingFile          = "MISSING_FILE"
	codeUnsupportedFileType  = "UNSUPPORTED_FILE_TYPE"
	codeSourceFormatError    = "SOURCE_FORMAT_ERROR"
	codeSchemaError          = "SCHEMA_ERROR"
	codePeriodNotLoaded      = "PERIOD_NOT_LOADED"
	codeComparisonIncomplete = "COMPARISON_INCOMPLETE"
	codePersistenceError     = "PERSISTENCE_ERROR"
	codeInternalError        = "INTERNAL_ERROR"
	codeFileTooLarge         = "FILE_TOO_LARGE"
)

// Handlers carries the comparison state shared by every route. Logging and
// the database come from the request's cartridge.Context.
type Handlers struct {
	Session *session.ComparisonSession
	Metrics *metrics.Metrics
}

func NewHandlers(cs *session.ComparisonSession, m *metrics.Metrics) *Handlers {
	return &Handlers{
		Session: cs,
		Metrics: m,
	}
}

func errorResponse(c *fiber.Ctx, status int, message, code string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"code":  code,
	})
}

// periodParam resolves :period or writes a 400 response.
func (h *Handlers) periodParam(ctx *cartridge.Context) (searchperf.Period, bool, error) {
	period, err := searchperf.ParsePeriod(ctx.Params("period"))
	if err != nil {
		return "", false, errorResponse(ctx.Ctx, fiber.StatusBadRequest, err.Error(), codeInvalidPeriod)
	}
	return period, true, nil
}
