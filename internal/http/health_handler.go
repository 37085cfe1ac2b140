package http

import (
	"log/slog"
	"time"

	"github.com/karloscodes/cartridge"

	"ctrcompare/internal/searchperf"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	DBStatus   string    `json:"db_status"`
	PreLoaded  bool      `json:"pre_loaded"`
	PostLoaded bool      `json:"post_loaded"`
}

// HealthIndexAction handles the health check endpoint
func (h *Handlers) HealthIndexAction(ctx *cartridge.Context) error {
	dbStatus := "ok"

	db := ctx.DBManager.GetConnection()
	if db == nil {
		dbStatus = "error"
		ctx.Logger.Error("Database connection unavailable")
	} else {
		sqlDB, err := db.DB()
		if err != nil {
			dbStatus = "error"
			ctx.Logger.Error("Database connection error", slog.Any("error", err))
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
			ctx.Logger.Error("Database ping failed", slog.Any("error", err))
		}
	}

	_, preLoaded := h.Session.Summary(searchperf.PeriodPre)
	_, postLoaded := h.Session.Summary(searchperf.PeriodPost)

	health := HealthStatus{
		Status:     "ok",
		Timestamp:  time.Now(),
		DBStatus:   dbStatus,
		PreLoaded:  preLoaded,
		PostLoaded: postLoaded,
	}

	if dbStatus != "ok" {
		health.Status = "degraded"
	}

	return ctx.JSON(health)
}
