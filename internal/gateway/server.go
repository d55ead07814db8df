// Package gateway is the simulated payment processor: a small HTTP
// service that issues payment references on demand. It stands in for
// the external gateway the real checkout would redirect to, so the
// full initiate/collect/verify sequence can run end to end locally.
package gateway

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skylight-sports/storefront/pkg/logger"
)

// Metrics counts issued and rejected reference requests.
type Metrics struct {
	registry *prometheus.Registry
	issued   prometheus.Counter
	rejected prometheus.Counter
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	issued := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_sim",
		Name:      "references_issued_total",
		Help:      "Payment references issued.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gateway_sim",
		Name:      "references_rejected_total",
		Help:      "Reference requests rejected as invalid.",
	})
	registry.MustRegister(issued, rejected)
	return &Metrics{registry: registry, issued: issued, rejected: rejected}
}

// Server issues simulated payment references.
type Server struct {
	logg    *logger.Logger
	metrics *Metrics
}

func NewServer(logg *logger.Logger, metrics *Metrics) (*Server, error) {
	if metrics == nil {
		return nil, errors.New("metrics are required")
	}
	return &Server{logg: logg, metrics: metrics}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(
		recoverer(s.logg),
		requestID(s.logg),
		logging(s.logg),
	)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	r.Post("/references", s.issueReference)

	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type referenceRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

type referenceResponse struct {
	Reference     string  `json:"reference"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	IssuedAt      string  `json:"issued_at"`
}

func (s *Server) issueReference(w http.ResponseWriter, r *http.Request) {
	var req referenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.rejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.TransactionID) == "" {
		s.metrics.rejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "transaction_id is required"})
		return
	}
	if req.Amount < 0 {
		s.metrics.rejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must not be negative"})
		return
	}

	now := time.Now().UTC()
	reference := newReference(now)
	s.metrics.issued.Inc()

	if s.logg != nil {
		ctx := s.logg.WithFields(r.Context(), map[string]any{
			"transaction_id": req.TransactionID,
			"reference":      reference,
		})
		s.logg.Info(ctx, "reference issued")
	}

	writeJSON(w, http.StatusCreated, referenceResponse{
		Reference:     reference,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		IssuedAt:      now.Format(time.RFC3339),
	})
}

// newReference mimics the receipt numbers a real processor hands back:
// a timestamp for operator eyeballing plus random suffix for uniqueness.
func newReference(now time.Time) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return "SIM-" + now.Format("20060102150405") + "-" + strings.ToUpper(hex.EncodeToString(buf))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
