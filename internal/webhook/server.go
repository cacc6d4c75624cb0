package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/docflows/pandagate/internal/bus"
	"github.com/docflows/pandagate/internal/metrics"
	"github.com/docflows/pandagate/internal/router"
	"github.com/docflows/pandagate/internal/store"
)

// Server represents the webhook HTTP server.
type Server struct {
	config  Config
	bus     bus.Publisher
	journal Journaler
	metrics *metrics.Metrics
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new webhook server instance. journal may be nil to disable
// journaling.
func New(config Config, publisher bus.Publisher, journal Journaler, m *metrics.Metrics, logger *slog.Logger) *Server {
	if config.MaxBodySize == 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	return &Server{
		config:  config,
		bus:     publisher,
		journal: journal,
		metrics: m,
		logger:  logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	r := s.setupRoutes()

	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("webhook server starting",
		"listen", s.config.Listen,
		"verify_signatures", s.config.VerifySignatures,
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Post("/pandadoc/webhook", s.handleWebhook)
	r.Post("/pandadoc/webhook/{tenant}", s.handleWebhook)

	return r
}

// loggingMiddleware logs HTTP requests (excludes payload bodies).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook handles incoming webhook POST requests.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenant := chi.URLParam(r, "tenant")

	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	// Signature failures reject the whole delivery before any entry is
	// routed.
	if s.config.VerifySignatures {
		signature := extractSignature(r, s.config.SignatureHeader)
		if err := verifyHMACSignature(body, signature, s.config.Secret); err != nil {
			s.logger.Warn("webhook signature verification failed",
				"path", r.URL.Path,
				"tenant", tenant,
			)
			s.metrics.SignatureRejectionsTotal.Inc()
			s.respondError(w, http.StatusForbidden, "forbidden")
			return
		}
	}

	results, err := router.Route(body)
	if err != nil {
		if errors.Is(err, router.ErrMalformedEnvelope) {
			s.logger.Warn("malformed webhook envelope", "tenant", tenant, "error", err)
			s.metrics.MalformedEnvelopesTotal.Inc()
			s.respondError(w, http.StatusBadRequest, "malformed envelope")
			return
		}
		s.respondError(w, http.StatusInternalServerError, "routing failed")
		return
	}

	deliveryID := uuid.NewString()
	s.metrics.DeliveriesTotal.Inc()
	logger := s.logger.With("delivery_id", deliveryID, "tenant", tenant)

	delivery := store.Delivery{
		ID:         deliveryID,
		Tenant:     tenant,
		BodyHash:   store.HashBody(body),
		ReceivedAt: time.Now().UTC(),
		Entries:    make([]store.EntryResult, 0, len(results)),
	}

	resp := DeliveryResponse{DeliveryID: deliveryID, Entries: len(results)}
	for i, res := range results {
		entry := store.EntryResult{Index: i, Event: res.Event}
		switch {
		case res.Unhandled():
			logger.Warn("event type not supported", "event", res.Event, "entry", i)
			entry.Outcome = store.OutcomeUnhandled
			resp.Unhandled++
		case res.Err != nil:
			logger.Warn("entry failed validation", "event", res.Event, "entry", i, "error", res.Err)
			entry.Outcome = store.OutcomeInvalid
			entry.Error = res.Err.Error()
			resp.Invalid++
		default:
			entry.Outcome = store.OutcomeOK
			entry.RouteKey = res.RouteKey
			resp.Handled++
			if err := s.bus.Publish(ctx, res.RouteKey, res.Payload); err != nil {
				// The delivery is already accepted; a publish failure is an
				// operator problem, not the sender's.
				logger.Error("bus publish failed", "route_key", res.RouteKey, "entry", i, "error", err)
				entry.Error = err.Error()
			}
		}
		s.metrics.ObserveEntry(entry.Outcome)
		delivery.Entries = append(delivery.Entries, entry)
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, delivery); err != nil {
			logger.Error("failed to journal delivery", "error", err)
		}
	}

	logger.Info("delivery routed",
		"entries", resp.Entries,
		"handled", resp.Handled,
		"unhandled", resp.Unhandled,
		"invalid", resp.Invalid,
	)

	s.respondJSON(w, http.StatusAccepted, resp)
}

// respondJSON sends a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends a JSON error response.
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{Error: message})
}
