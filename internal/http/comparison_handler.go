package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/session"
)

func (h *Handlers) comparisonIncomplete(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusConflict, session.ErrComparisonIncomplete.Error(), codeComparisonIncomplete)
}

// ShowComparisonAction returns the per-position comparison.
func (h *Handlers) ShowComparisonAction(ctx *cartridge.Context) error {
	comparison, err := h.Session.Comparison()
	if errors.Is(err, session.ErrComparisonIncomplete) {
		return h.comparisonIncomplete(ctx.Ctx)
	}
	if err != nil {
		ctx.Logger.Error("Failed to build comparison", slog.Any("error", err))
		return errorResponse(ctx.Ctx, fiber.StatusInternalServerError, "Failed to build comparison", codeInternalError)
	}
	return ctx.JSON(comparison)
}

// CreateComparisonAction computes the comparison and mirrors both summaries
// to the store so it can be restored after a restart.
func (h *Handlers) CreateComparisonAction(ctx *cartridge.Context) error {
	comparison, err := h.Session.Comparison()
	if errors.Is(err, session.ErrComparisonIncomplete) {
		return h.comparisonIncomplete(ctx.Ctx)
	}
	if err != nil {
		ctx.Logger.Error("Failed to build comparison", slog.Any("error", err))
		return errorResponse(ctx.Ctx, fiber.StatusInternalServerError, "Failed to build comparison", codeInternalError)
	}

	if err := h.Session.Persist(); err != nil {
		if errors.Is(err, session.ErrComparisonIncomplete) {
			return h.comparisonIncomplete(ctx.Ctx)
		}
		return errorResponse(ctx.Ctx, fiber.StatusInternalServerError, "Failed to save comparison", codePersistenceError)
	}

	h.Metrics.Comparisons.Inc()
	return ctx.JSON(comparison)
}

// ComparisonChartAction returns the two-series chart projection.
func (h *Handlers) ComparisonChartAction(ctx *cartridge.Context) error {
	pre, post, err := h.Session.Summaries()
	if errors.Is(err, session.ErrComparisonIncomplete) {
		return h.comparisonIncomplete(ctx.Ctx)
	}
	if err != nil {
		ctx.Logger.Error("Failed to load summaries", slog.Any("error", err))
		return errorResponse(ctx.Ctx, fiber.StatusInternalServerError, "Failed to build chart", codeInternalError)
	}
	return ctx.JSON(searchperf.ComparisonProjection(pre, post))
}

// ResetSessionAction discards both periods and the persisted copy.
func (h *Handlers) ResetSessionAction(ctx *cartridge.Context) error {
	if err := h.Session.Reset(); err != nil {
		return errorResponse(ctx.Ctx, fiber.StatusInternalServerError, "Failed to clear saved comparison", codePersistenceError)
	}
	h.Metrics.Resets.Inc()
	return ctx.SendStatus(fiber.StatusNoContent)
}
