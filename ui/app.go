// Package ui exposes the analysis engine over HTTP. The upload handler is
// presentation plumbing: it parses the file, calls the engine once, and
// returns the full report plus chart payloads as JSON.
package ui

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"datalens/adapters/tabular"
	"datalens/domain/analysis"
	"datalens/internal"
	"datalens/internal/charts"
	"datalens/internal/engine"
	apperrors "datalens/internal/errors"
	"datalens/internal/testkit"
)

// maxUploadBytes caps an uploaded file at 32 MB.
const maxUploadBytes = 32 << 20

// App represents the UI application
type App struct {
	router *chi.Mux
	engine *engine.Engine
	reader *tabular.Reader
	log    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// AnalyzeResponse is the full payload for one analysis run.
type AnalyzeResponse struct {
	Report  *analysis.Report `json:"report"`
	Figures charts.Figures   `json:"figures"`
}

// NewApp creates a new UI application
func NewApp(eng *engine.Engine) *App {
	app := &App{
		router: chi.NewRouter(),
		engine: eng,
		reader: tabular.NewReader(),
		log:    internal.DefaultLogger,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures all HTTP routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)
	a.router.Post("/api/analyze", a.handleAnalyze)
	a.router.Get("/api/sample", a.handleSample)
}

// Start runs the HTTP server
func (a *App) Start(config Config) error {
	addr := fmt.Sprintf(":%s", config.Port)
	a.log.Info("starting server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the mux for tests.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a multipart upload under the "file" field and runs
// one full analysis over it.
func (a *App) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.writeError(w, apperrors.InvalidInput("expected a multipart upload"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeError(w, apperrors.InvalidInput("missing form field \"file\""))
		return
	}
	defer file.Close()

	ds, err := a.reader.Read(file, header.Filename)
	if err != nil {
		a.writeError(w, err)
		return
	}

	report, err := a.engine.Analyze(r.Context(), ds)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, AnalyzeResponse{
		Report:  report,
		Figures: charts.Build(report),
	})
}

// handleSample analyzes a generated sales dataset, for demos and smoke
// checks.
func (a *App) handleSample(w http.ResponseWriter, r *http.Request) {
	ds := testkit.SampleSalesData(365)

	report, err := a.engine.Analyze(r.Context(), ds)
	if err != nil {
		a.writeError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, AnalyzeResponse{
		Report:  report,
		Figures: charts.Build(report),
	})
}

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.CodeEmptyInput, apperrors.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperrors.CodeConfigInvalid:
		status = http.StatusUnprocessableEntity
	}

	a.log.Warn("request failed: %v", err)
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  apperrors.GetCode(err),
	})
}
