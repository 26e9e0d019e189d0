package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/nexus-form/nexus/internal/config"
	"github.com/nexus-form/nexus/internal/match"
	"github.com/nexus-form/nexus/internal/observability"
	"github.com/nexus-form/nexus/internal/survey"
)

const maxFormBytes = 64 << 10

// Matches is the part of match.Service the HTTP layer drives.
type Matches interface {
	Status(ctx context.Context, id string) (match.Status, error)
	Submit(ctx context.Context, role match.Role, sub match.Submission) (match.Receipt, error)
	Ping(ctx context.Context) error
}

type Server struct {
	cfg     config.Config
	matches Matches
	metrics *observability.Metrics
	logger  *zap.Logger
	limiter *clientLimiter
	static  http.Handler
}

func New(cfg config.Config, matches Matches, metrics *observability.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:     cfg,
		matches: matches,
		metrics: metrics,
		logger:  logger,
		limiter: newClientLimiter(cfg.SubmitRatePerMinute, cfg.SubmitBurst),
		static:  newStaticHandler(),
	}
}

// StartJanitor evicts idle rate-limiter entries until ctx is done.
func (s *Server) StartJanitor(ctx context.Context, interval time.Duration) {
	s.limiter.StartJanitor(ctx, interval)
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleForm)
	r.Post("/", s.handleSubmit)
	r.Handle("/static/*", http.StripPrefix("/static/", s.static))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			http.NotFound(w, r)
			return
		}
		s.metrics.Handler().ServeHTTP(w, r)
	})

	r.Get("/v1/matches/{id}", s.handleMatchStatus)
	r.Get("/v1/perf/store", s.handlePerfStore)

	return r
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	role := match.Classify(r.URL.Query()[match.QueryParam])
	if role.Joining() {
		st, err := s.matches.Status(r.Context(), role.MatchID)
		if err != nil {
			s.render(w, http.StatusServiceUnavailable, pageData{
				View:  viewUnavailable,
				Error: "No se pudo abrir el almacenamiento: " + storeErrorMessage(err),
			})
			return
		}
		if st.Complete {
			s.observeCompletedLink()
			s.render(w, http.StatusOK, pageData{View: viewCompleted})
			return
		}
	}
	s.render(w, http.StatusOK, formData(role, nil))
}

// handleSubmit validates the posted form before charging the client's rate
// bucket, so only submissions that reach the store count against it. Every
// re-rendered form keeps the posted match_id and answers.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		data := formData(match.Classify(r.Form[match.QueryParam]), r.PostForm)
		data.Error = "No se pudo leer el formulario."
		s.render(w, http.StatusBadRequest, data)
		return
	}

	role := match.Classify(r.Form[match.QueryParam])
	if strings.TrimSpace(r.PostForm.Get("consent")) == "" {
		data := formData(role, r.PostForm)
		data.Notice = "Para continuar, debes aceptar el consentimiento informado y privacidad."
		s.render(w, http.StatusBadRequest, data)
		return
	}

	answers, outcome, err := survey.ParseForm(r.PostForm)
	if err != nil {
		data := formData(role, r.PostForm)
		data.Error = "Revisa tus respuestas: " + err.Error()
		s.render(w, http.StatusBadRequest, data)
		return
	}

	if !s.limiter.Allow(clientKey(r)) {
		if s.metrics != nil {
			s.metrics.RateLimited.Inc()
		}
		data := formData(role, r.PostForm)
		data.Error = "Demasiados envíos desde tu conexión. Espera un minuto e inténtalo de nuevo."
		s.render(w, http.StatusTooManyRequests, data)
		return
	}

	out, err := s.matches.Submit(r.Context(), role, match.Submission{Answers: answers, Outcome: outcome})
	switch {
	case errors.Is(err, match.ErrMatchCompleted):
		s.observeCompletedLink()
		s.render(w, http.StatusConflict, pageData{View: viewCompleted})
		return
	case err != nil:
		s.render(w, http.StatusServiceUnavailable, pageData{
			View:  viewUnavailable,
			Error: "No se pudo guardar la respuesta: " + storeErrorMessage(err),
		})
		return
	}

	if role.Joining() {
		s.render(w, http.StatusOK, pageData{View: viewThanks, MatchID: out.MatchID})
		return
	}
	s.render(w, http.StatusCreated, pageData{
		View:      viewShared,
		MatchID:   out.MatchID,
		ShareLink: ShareLink(s.cfg.BaseURL, out.MatchID),
	})
}

func (s *Server) handleMatchStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid_match_id", "missing match id")
		return
	}
	st, err := s.matches.Status(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", storeErrorMessage(err))
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (s *Server) handlePerfStore(w http.ResponseWriter, _ *http.Request) {
	if s.metrics == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"generated_at": "",
			"window_size":  0,
			"ops":          []any{},
		})
		return
	}
	respondJSON(w, http.StatusOK, s.metrics.SnapshotStoreOps())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.matches.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", storeErrorMessage(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) observeCompletedLink() {
	if s.metrics != nil {
		s.metrics.CompletedLinkViews.Inc()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
