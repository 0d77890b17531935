package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cmbank/corebank/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corebank_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "corebank_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})
)

type Handler struct {
	svc       *service.Service
	validate  *validator.Validate
	jwtSecret []byte
	tokenTTL  time.Duration
	adminKey  string
}

func NewHandler(svc *service.Service, jwtSecret []byte, tokenTTL time.Duration, adminKey string) *Handler {
	return &Handler{
		svc:       svc,
		validate:  validator.New(),
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		adminKey:  adminKey,
	}
}

func (h *Handler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, r.Method, "/health")
}

// decodeAndValidate unmarshals the body into dst and runs the validator
// tags over it.
func (h *Handler) decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return h.validate.Struct(dst)
}

// Helpers

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, msg, method, endpoint string) {
	respondWithJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}
