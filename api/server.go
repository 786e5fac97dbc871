// Package api - Thin, deterministic HTTP layer
// The API is ONLY responsible for: input ingestion, calculator invocation, output rendering.
// The API NEVER performs pricing logic.
package api

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cardprice/core/form"
	"cardprice/core/messages"
	"cardprice/core/output"
	"cardprice/core/pricing"
	"cardprice/core/types"
	"cardprice/internal/config"
	cperrors "cardprice/internal/errors"
	"cardprice/internal/logging"
)

//go:embed templates/form.html
var templates embed.FS

// RequestIDHeader carries the per-request id
const RequestIDHeader = "X-Request-ID"

// Server is the HTTP server
type Server struct {
	calc    *pricing.Calculator
	catalog *messages.Catalog
	cfg     config.ServerConfig
	mux     *http.ServeMux
	page    *template.Template
	version string
}

// NewServer creates a server around a calculator.
// catalog is the default locale; requests may pick another with ?locale=.
func NewServer(version string, calc *pricing.Calculator, catalog *messages.Catalog, cfg config.ServerConfig) *Server {
	s := &Server{
		calc:    calc,
		catalog: catalog,
		cfg:     cfg,
		mux:     http.NewServeMux(),
		page:    template.Must(template.ParseFS(templates, "templates/form.html")),
		version: version,
	}

	s.registerRoutes()
	return s
}

// registerRoutes registers all routes
func (s *Server) registerRoutes() {
	// Form
	s.mux.HandleFunc("GET /{$}", s.handleForm)
	s.mux.HandleFunc("POST /{$}", s.handleSubmit)

	// JSON API
	s.mux.HandleFunc("POST /api/v1/price", s.handlePrice)
	s.mux.HandleFunc("GET /api/v1/modifiers", s.handleModifiers)

	// Supporting endpoints
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// pageData feeds templates/form.html
type pageData struct {
	Locale     string
	UI         messages.UIText
	Clicks     int
	BasePrice  string
	Languages  []option
	Conditions []option
	Foil       bool
	Alternate  bool
	Outcome    form.Outcome
	IsError    bool
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// handleForm handles GET /: the initial state, nothing computed
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	catalog := s.catalogFor(r)
	s.renderPage(w, r, catalog, form.Initial(), form.Outcome{})
}

// handleSubmit handles POST /: one trigger of the submit button
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.writeError(w, "INVALID_FORM", err.Error(), http.StatusBadRequest)
		return
	}

	catalog := s.catalogFor(r)
	sub := form.Decode(r.PostForm)
	sub.Clicks++

	outcome := form.Evaluate(s.calc, catalog, sub)
	requestLogger(r).Debug("form submitted",
		zap.Int("clicks", sub.Clicks),
		zap.String("outcome", outcome.Text))

	s.renderPage(w, r, catalog, sub, outcome)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, catalog *messages.Catalog, sub form.Submission, outcome form.Outcome) {
	data := pageData{
		Locale:    string(catalog.Locale()),
		UI:        catalog.UI(),
		Clicks:    sub.Clicks,
		BasePrice: sub.Input.BasePrice,
		Foil:      sub.Input.Foil,
		Alternate: sub.Input.Alternate,
		Outcome:   outcome,
		IsError:   outcome.Err != nil,
	}
	table := s.calc.Table()
	for _, l := range table.Languages() {
		data.Languages = append(data.Languages, option{
			Value:    l.Language.String(),
			Label:    catalog.LanguageLabel(l.Language),
			Selected: l.Language == sub.Input.Language,
		})
	}
	for _, c := range table.Conditions() {
		data.Conditions = append(data.Conditions, option{
			Value:    c.Condition.String(),
			Label:    catalog.ConditionLabel(c.Condition),
			Selected: c.Condition == sub.Input.Condition,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		requestLogger(r).Error("render form failed", zap.Error(err))
	}
}

// handlePrice handles POST /api/v1/price
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req PriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	catalog := s.catalogFor(r)
	quote, err := s.price(&req)
	resp := PriceResponse{
		RequestID:   requestID(r),
		Timestamp:   time.Now().UTC(),
		QuoteResult: output.NewQuoteResult(catalog, quote, err),
	}

	status := http.StatusOK
	switch {
	case err == nil:
	case cperrors.IsInput(err):
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		requestLogger(r).Error("pricing failed", zap.Error(err))
	}

	s.writeJSON(w, resp, status)
}

// price resolves free-text options against the table, then computes
func (s *Server) price(req *PriceRequest) (*types.Quote, error) {
	in, err := s.calc.Normalize(types.PricingInput{
		BasePrice: req.BasePriceText(),
		Language:  types.Language(req.Language),
		Condition: types.Condition(req.Condition),
		Foil:      req.Foil,
		Alternate: req.Alternate,
	})
	if err != nil {
		return nil, err
	}
	return s.calc.Compute(in)
}

// handleModifiers handles GET /api/v1/modifiers
func (s *Server) handleModifiers(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, output.NewTableView(s.calc.Table(), s.catalogFor(r)), http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "cardprice",
		"api_version": "v1",
	}, http.StatusOK)
}

// catalogFor honours ?locale= and falls back to the server default
func (s *Server) catalogFor(r *http.Request) *messages.Catalog {
	if l := r.URL.Query().Get("locale"); l != "" {
		if c, err := messages.For(l); err == nil {
			return c
		}
	}
	return s.catalog
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorBody{Error: ErrorDetail{Code: code, Message: message}}, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id := r.Header.Get(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))
	w.Header().Set(RequestIDHeader, id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	requestLogger(r).Info("http request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
		zap.Duration("duration", time.Since(start)))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout(),
		WriteTimeout: s.cfg.WriteTimeout(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("server listening", zap.String("addr", s.cfg.Address), zap.String("version", s.version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()
	logging.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

// requestLogger tags entries with the request id
func requestLogger(r *http.Request) *zap.Logger {
	return logging.With(zap.String(logging.FieldRequestID, requestID(r))).Named("http")
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
