package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iwvelando/roi-forecast/internal/cache"
	"github.com/iwvelando/roi-forecast/internal/forecast"
	"github.com/iwvelando/roi-forecast/internal/session"
	"github.com/iwvelando/roi-forecast/pkg/constants"
	"github.com/iwvelando/roi-forecast/pkg/form"
	"github.com/iwvelando/roi-forecast/pkg/output"
	"github.com/iwvelando/roi-forecast/pkg/quote"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options carries the collaborators of the HTTP handler. Zero values get
// in-memory defaults.
type Options struct {
	MaxUploadSize  int64
	Version        string
	Cache          cache.Cache
	CacheTTL       time.Duration
	Sessions       *session.Store
	RateLimit      RateLimitConfig
	AllowedOrigins []string
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         cache.Cache
	cacheTTL      time.Duration
	sessions      *session.Store
	limiter       *rateLimiter
	metrics       *metrics
}

// NewHandler constructs the HTTP handler that serves the calculator API.
func NewHandler(logger *zap.Logger, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if opts.MaxUploadSize <= 0 {
		opts.MaxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	if opts.Cache == nil {
		opts.Cache = cache.NewMemory(0)
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = cache.Config{}.TTL()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.NewStore()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: opts.MaxUploadSize,
		version:       trimmedVersion,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		sessions:      opts.Sessions,
		limiter:       newRateLimiter(opts.RateLimit),
		metrics:       newMetrics(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", constants.SessionHeader},
		ExposedHeaders: []string{"X-Cache"},
		MaxAge:         300,
	}))
	r.Use(h.rateLimit)

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", h.metrics.handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/version", h.handleVersion)
		api.Get("/niches", h.handleNiches)

		api.Post("/homeowner", h.handleHomeowner)
		api.Post("/provider", h.handleProvider)
		api.Post("/quote", h.handleQuote)
		api.Post("/amortization", h.handleAmortization)
		api.Post("/export/xlsx", h.handleExportXLSX)

		api.Post("/session", h.handleCreateSession)
		api.Route("/session/{id}", func(s chi.Router) {
			s.Get("/", h.handleGetSession)
			s.Put("/niche", h.handleSetNiche)
			s.Delete("/", h.handleDeleteSession)
		})
	})

	return r
}

// NewHandlerFromConfig builds the handler and its cache backend from a
// server configuration. The backend must answer a ping; the returned closer
// releases it after shutdown.
func NewHandlerFromConfig(ctx context.Context, logger *zap.Logger, cfg *Config, version string) (http.Handler, io.Closer, error) {
	resultCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := resultCache.Ping(ctx); err != nil {
		_ = resultCache.Close()
		return nil, nil, eris.Wrapf(err, "cache backend %s unreachable", cfg.Cache.Backend)
	}
	return NewHandler(logger, Options{
		MaxUploadSize:  cfg.UploadSizeBytes(),
		Version:        version,
		Cache:          resultCache,
		CacheTTL:       cfg.Cache.TTL(),
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}), resultCache, nil
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

type nicheResponse struct {
	Niche quote.Niche `json:"niche"`
	Title string      `json:"title"`
}

func (h *handler) handleNiches(w http.ResponseWriter, _ *http.Request) {
	niches := make([]nicheResponse, 0, len(quote.Niches))
	for _, n := range quote.Niches {
		niches = append(niches, nicheResponse{Niche: n, Title: n.Title()})
	}
	h.writeJSON(w, http.StatusOK, niches)
}

func (h *handler) handleHomeowner(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleHomeowner"
	values, ok := h.decodeValues(w, r, op)
	if !ok {
		return
	}
	data := form.Homeowner(values)

	h.calculate(w, r, "homeowner", data, op, func() (*forecast.Report, interface{}, error) {
		section := forecast.Homeowner(h.logger, data)
		return &forecast.Report{Homeowner: section}, buildHomeowner(section), nil
	})
}

func (h *handler) handleProvider(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProvider"
	values, ok := h.decodeValues(w, r, op)
	if !ok {
		return
	}
	data := form.Provider(values)

	h.calculate(w, r, "provider", data, op, func() (*forecast.Report, interface{}, error) {
		section := forecast.Provider(h.logger, data)
		return &forecast.Report{Provider: section}, buildProvider(section), nil
	})
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"
	values, ok := h.decodeValues(w, r, op)
	if !ok {
		return
	}

	niche, err := h.resolveNiche(r, values.String("niche"))
	if err != nil {
		h.metrics.observe("quote", "invalid", 0)
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	req, err := form.QuoteRequest(niche, values.Sub("input"))
	if err != nil {
		h.metrics.observe("quote", "invalid", 0)
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	name := values.String("name")

	h.calculate(w, r, "quote", struct {
		Name    string        `json:"name"`
		Request quote.Request `json:"request"`
	}{name, req}, op, func() (*forecast.Report, interface{}, error) {
		section, err := forecast.Quote(h.logger, name, req)
		if err != nil {
			return nil, nil, err
		}
		return &forecast.Report{Quotes: []forecast.QuoteSection{section}}, buildQuote(section), nil
	})
}

func (h *handler) handleAmortization(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAmortization"
	values, ok := h.decodeValues(w, r, op)
	if !ok {
		return
	}
	principal := values.Float("principal")
	rate := values.Float("interestRate")
	term := values.Int("termYears")

	h.calculate(w, r, "amortization", []interface{}{principal, rate, term}, op, func() (*forecast.Report, interface{}, error) {
		section, err := forecast.Amortization(h.logger, principal, rate, term)
		if err != nil {
			return nil, nil, err
		}
		return &forecast.Report{Amortization: section}, buildAmortization(section), nil
	})
}

// handleExportXLSX renders any combination of homeowner, provider and quote
// inputs as a workbook.
func (h *handler) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExportXLSX"
	values, ok := h.decodeValues(w, r, op)
	if !ok {
		return
	}

	report, err := h.reportFromValues(r, values)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if err := output.XlsxFormat(&buf, report); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render workbook: %v", err), op)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="roi-forecast.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write workbook", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) reportFromValues(r *http.Request, values form.Values) (*forecast.Report, error) {
	report := &forecast.Report{}
	if _, ok := values["homeowner"]; ok {
		report.Homeowner = forecast.Homeowner(h.logger, form.Homeowner(values.Sub("homeowner")))
	}
	if _, ok := values["provider"]; ok {
		report.Provider = forecast.Provider(h.logger, form.Provider(values.Sub("provider")))
	}
	if raw, ok := values["quotes"]; ok {
		items, ok := raw.([]interface{})
		if !ok {
			return nil, eris.New("quotes must be an array")
		}
		for i, item := range items {
			q := form.Values{"quote": item}.Sub("quote")
			niche, err := h.resolveNiche(r, q.String("niche"))
			if err != nil {
				return nil, eris.Wrapf(err, "quote %d", i+1)
			}
			req, err := form.QuoteRequest(niche, q.Sub("input"))
			if err != nil {
				return nil, eris.Wrapf(err, "quote %d", i+1)
			}
			section, err := forecast.Quote(h.logger, q.String("name"), req)
			if err != nil {
				return nil, err
			}
			report.Quotes = append(report.Quotes, section)
		}
	}
	if report.Homeowner == nil && report.Provider == nil && len(report.Quotes) == 0 {
		return nil, eris.New("nothing to export: provide homeowner, provider or quotes")
	}
	return report, nil
}

// resolveNiche parses an explicit niche, falling back to the niche of the
// session named by the session header.
func (h *handler) resolveNiche(r *http.Request, explicit string) (quote.Niche, error) {
	if explicit != "" {
		return quote.ParseNiche(explicit)
	}
	id := strings.TrimSpace(r.Header.Get(constants.SessionHeader))
	if id == "" {
		return quote.NicheUnknown, eris.New("niche is required when no session is given")
	}
	sess, err := h.sessions.Get(id)
	if err != nil {
		return quote.NicheUnknown, err
	}
	return sess.Niche, nil
}

// calculate serves a pure calculation, answering from the result cache when
// the same inputs were seen before. key is encoded to form the cache key.
func (h *handler) calculate(w http.ResponseWriter, r *http.Request, calculator string, key interface{},
	op string, compute func() (*forecast.Report, interface{}, error)) {
	csvOutput := strings.EqualFold(r.URL.Query().Get("format"), constants.OutputFormatCSV)
	contentType := "application/json"
	route := calculator
	if csvOutput {
		contentType = "text/csv"
		route += ".csv"
	}

	canonical, err := json.Marshal(key)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode inputs: %v", err), op)
		return
	}
	cacheKey := cache.Key(route, canonical)

	if body, hit := h.cached(r.Context(), cacheKey, op); hit {
		h.metrics.observe(calculator, "cached", 0)
		h.writeBody(w, contentType, "HIT", body, op)
		return
	}

	start := time.Now()
	report, payload, err := compute()
	if err != nil {
		h.metrics.observe(calculator, "invalid", 0)
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	var buf bytes.Buffer
	if csvOutput {
		err = output.CsvFormat(&buf, report)
	} else {
		err = json.NewEncoder(&buf).Encode(payload)
	}
	if err != nil {
		h.metrics.observe(calculator, "error", 0)
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to render response: %v", err), op)
		return
	}
	elapsed := time.Since(start)
	h.metrics.observe(calculator, "ok", elapsed)

	if err := h.cache.Set(r.Context(), cacheKey, buf.Bytes(), h.cacheTTL); err != nil {
		h.logger.Warn("failed to cache response",
			zap.String("op", op),
			zap.Error(err),
		)
	}

	h.logger.Info(calculator+" computed",
		zap.String("op", op),
		zap.String("requestID", chimw.GetReqID(r.Context())),
		zap.Duration("duration", elapsed),
	)

	h.writeBody(w, contentType, "MISS", buf.Bytes(), op)
}

func (h *handler) cached(ctx context.Context, key, op string) ([]byte, bool) {
	body, hit, err := h.cache.Get(ctx, key)
	if err != nil {
		h.logger.Warn("result cache unavailable",
			zap.String("op", op),
			zap.Error(err),
		)
		return nil, false
	}
	h.metrics.cacheResult(hit)
	return body, hit
}

func (h *handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateSession"
	values, ok := h.decodeValues(w, r, op)
	if !ok {
		return
	}

	niche := quote.NicheUnknown
	if s := values.String("niche"); s != "" {
		parsed, err := quote.ParseNiche(s)
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		niche = parsed
	}

	sess, err := h.sessions.Create(values.String("email"), values.String("name"), niche)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.metrics.sessions.Set(float64(h.sessions.Len()))
	h.logger.Info("session created",
		zap.String("op", op),
		zap.String("session", sess.ID),
		zap.String("niche", sess.Niche.String()),
	)
	h.writeJSON(w, http.StatusCreated, sess)
}

func (h *handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetSession"
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusNotFound, "session not found", op)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *handler) handleSetNiche(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSetNiche"
	values, ok := h.decodeValues(w, r, op)
	if !ok {
		return
	}
	niche, err := quote.ParseNiche(values.String("niche"))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	sess, err := h.sessions.SetNiche(chi.URLParam(r, "id"), niche)
	if err != nil {
		if eris.Is(err, session.ErrNotFound) {
			h.respondErrorWithOp(w, http.StatusNotFound, "session not found", op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *handler) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Delete(chi.URLParam(r, "id"))
	h.metrics.sessions.Set(float64(h.sessions.Len()))
	w.WriteHeader(http.StatusNoContent)
}

// decodeValues reads a JSON object body. An empty body is an empty object.
func (h *handler) decodeValues(w http.ResponseWriter, r *http.Request, op string) (form.Values, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}

	values := form.Values{}
	if len(bytes.TrimSpace(data)) == 0 {
		return values, true
	}
	if err := json.Unmarshal(data, &values); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, false
	}
	return values, true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

func (h *handler) writeBody(w http.ResponseWriter, contentType, cacheStatus string, body []byte, op string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		h.logger.Error("failed to write response", zap.String("op", op), zap.Error(err))
	}
}
