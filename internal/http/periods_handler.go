package http

import (
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"ctrcompare/internal/metrics"
	"ctrcompare/internal/searchperf"
	"ctrcompare/internal/tabular"
)

const uploadField = "file"

// UploadPeriodAction ingests a multipart export into the :period slot.
func (h *Handlers) UploadPeriodAction(ctx *cartridge.Context) error {
	period, ok, err := h.periodParam(ctx)
	if !ok {
		return err
	}

	fileHeader, err := ctx.FormFile(uploadField)
	if err != nil {
		ctx.Logger.Debug("Upload without file", slog.Any("error", err))
		return errorResponse(ctx.Ctx, fiber.StatusBadRequest, "A CSV file is required in the \"file\" field", codeMissingFile)
	}

	start := time.Now()
	observe := func(outcome string, summary searchperf.PeriodSummary) {
		h.Metrics.ObserveIngestion(string(period), outcome, summary.TotalKeywords, summary.TotalQueries, time.Since(start))
	}

	if !isCSVUpload(fileHeader) {
		ctx.Logger.Warn("Rejected non-CSV upload",
			slog.String("period", string(period)),
			slog.String("filename", fileHeader.Filename))
		observe(metrics.OutcomeRejectedFile, searchperf.PeriodSummary{})
		return errorResponse(ctx.Ctx, fiber.StatusUnsupportedMediaType, "Please upload a valid CSV file", codeUnsupportedFileType)
	}

	table, err := readUpload(fileHeader)
	if err != nil {
		var formatErr *tabular.SourceFormatError
		if errors.As(err, &formatErr) {
			ctx.Logger.Warn("Unreadable upload", slog.String("period", string(period)), slog.Any("error", err))
			observe(metrics.OutcomeFormatError, searchperf.PeriodSummary{})
			return errorResponse(ctx.Ctx, fiber.StatusBadRequest, err.Error(), codeSourceFormatError)
		}
		ctx.Logger.Error("Failed to read upload", slog.Any("error", err))
		return errorResponse(ctx.Ctx, fiber.StatusInternalServerError, "Failed to read upload", codeInternalError)
	}

	summary, err := h.Session.IngestPeriod(period, table)
	if err != nil {
		var schemaErr *searchperf.SchemaError
		if errors.As(err, &schemaErr) {
			observe(metrics.OutcomeSchemaError, searchperf.PeriodSummary{})
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   err.Error(),
				"code":    codeSchemaError,
				"missing": schemaErr.Missing,
			})
		}
		var formatErr *tabular.SourceFormatError
		if errors.As(err, &formatErr) {
			observe(metrics.OutcomeFormatError, searchperf.PeriodSummary{})
			return errorResponse(ctx.Ctx, fiber.StatusBadRequest, err.Error(), codeSourceFormatError)
		}
		ctx.Logger.Error("Failed to ingest period", slog.Any("error", err))
		return errorResponse(ctx.Ctx, fiber.StatusInternalServerError, "Failed to process file", codeInternalError)
	}

	observe(metrics.OutcomeSuccess, summary)
	return ctx.Status(fiber.StatusCreated).JSON(summary)
}

// ShowPeriodAction returns the summary currently held for :period.
func (h *Handlers) ShowPeriodAction(ctx *cartridge.Context) error {
	period, ok, err := h.periodParam(ctx)
	if !ok {
		return err
	}

	summary, loaded := h.Session.Summary(period)
	if !loaded {
		return errorResponse(ctx.Ctx, fiber.StatusNotFound, "No data loaded for period "+string(period), codePeriodNotLoaded)
	}
	return ctx.JSON(summary)
}

// PeriodChartAction returns the single-series chart projection for :period.
func (h *Handlers) PeriodChartAction(ctx *cartridge.Context) error {
	period, ok, err := h.periodParam(ctx)
	if !ok {
		return err
	}

	summary, loaded := h.Session.Summary(period)
	if !loaded {
		return errorResponse(ctx.Ctx, fiber.StatusNotFound, "No data loaded for period "+string(period), codePeriodNotLoaded)
	}
	return ctx.JSON(searchperf.PeriodProjection(period, summary))
}

// isCSVUpload accepts a .csv name or a text/csv part, like the upload form did.
func isCSVUpload(fileHeader *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(fileHeader.Filename), ".csv") {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(fileHeader.Header.Get(fiber.HeaderContentType))
	return err == nil && mediaType == "text/csv"
}

func readUpload(fileHeader *multipart.FileHeader) (*tabular.Table, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return tabular.Parse(file)
}
