package testsupport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"ctrcompare/internal"
	"ctrcompare/internal/config"
	"ctrcompare/internal/store"
)

// testDBCache caches test databases by root test name so subtests share one
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// SetupTestDB creates an in-memory database with the settings table migrated.
// Uses a named in-memory database with cache=shared so every connection of
// the pool sees the same data. Subtests of one test share the database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	rootName := t.Name()
	if idx := strings.Index(rootName, "/"); idx > 0 {
		rootName = rootName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", rootName, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&store.Setting{}); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CleanAllTables clears all non-system tables in the database
func CleanAllTables(db *gorm.DB) {
	var tableNames []string
	db.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tableNames)

	db.Transaction(func(tx *gorm.DB) error {
		for _, table := range tableNames {
			tx.Exec("DELETE FROM " + table)
		}
		return nil
	})
}

// GetLogger returns a logger that only reports errors.
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}

// TestConfig returns a test-environment config whose database lives in a
// per-test temporary directory.
func TestConfig(t *testing.T, persist bool) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		AppName:         "ctrcompare",
		AppPort:         "0",
		Environment:     config.Test,
		LogLevel:        config.LogLevelError,
		DatabasePath:    dir,
		DatabaseName:    filepath.Join(dir, "ctrcompare-test.db"),
		LogsDirectory:   filepath.Join(dir, "logs"),
		MaxUploadSizeMB: 1,
		PersistSession:  persist,
	}
}

// NewTestApp wires a full application for handler tests, migrated and
// restored the way the server binary starts.
func NewTestApp(t *testing.T, cfg *config.Config) *internal.Application {
	t.Helper()
	app, err := internal.NewAppWithLogger(cfg, GetLogger())
	if err != nil {
		t.Fatalf("testsupport: failed to create app: %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if err := app.DBManager.MigrateDatabase(); err != nil {
		t.Fatalf("testsupport: failed to migrate: %v", err)
	}
	app.RestoreSession()
	return app
}

// ExportHeaders is the header row of a Search Console query export.
var ExportHeaders = []string{"Query", "Clicks", "Impressions", "CTR", "Position"}

// ExportRow is one line of a Search Console query export, as text.
type ExportRow struct {
	Query       string
	Clicks      string
	Impressions string
	CTR         string
	Position    string
}

// ExportCSV renders rows under ExportHeaders with comma delimiters.
func ExportCSV(rows ...ExportRow) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(ExportHeaders)
	for _, row := range rows {
		w.Write([]string{row.Query, row.Clicks, row.Impressions, row.CTR, row.Position})
	}
	w.Flush()
	return buf.String()
}

// WriteExport stores rows as a CSV file in a temporary directory.
func WriteExport(t *testing.T, name string, rows ...ExportRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(ExportCSV(rows...)), 0o600); err != nil {
		t.Fatalf("testsupport: failed to write export: %v", err)
	}
	return path
}

// NewUploadRequest builds a multipart POST carrying content in the "file"
// field. An empty contentType keeps the multipart default.
func NewUploadRequest(t *testing.T, target, filename, contentType string, content io.Reader) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	var part io.Writer
	var err error
	if contentType == "" {
		part, err = writer.CreateFormFile("file", filename)
	} else {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		header.Set("Content-Type", contentType)
		part, err = writer.CreatePart(header)
	}
	if err != nil {
		t.Fatalf("testsupport: failed to create form file: %v", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		t.Fatalf("testsupport: failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("testsupport: failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
