package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/finvault/ledger/internal/domain"
	"github.com/finvault/ledger/internal/service"
)

// Metrics
var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})
)

// Handler holds the boundary dependencies. The validator is constructed
// in main and injected; there is no package-level validation state.
type Handler struct {
	accounts  *service.AccountService
	movements *service.MovementService
	transfers *service.TransferService
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewHandler(accounts *service.AccountService, movements *service.MovementService, transfers *service.TransferService, validate *validator.Validate, logger *slog.Logger) *Handler {
	return &Handler{
		accounts:  accounts,
		movements: movements,
		transfers: transfers,
		validate:  validate,
		logger:    logger,
	}
}

// decodeAndValidate unmarshals the request body into dst and runs the
// struct validation rules against it.
func (h *Handler) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errMalformedBody
	}
	if err := h.validate.Struct(dst); err != nil {
		return errValidation
	}
	return nil
}

var (
	errMalformedBody = errors.New("malformed request body")
	errValidation    = errors.New("request validation failed")
)

// parseAmount accepts a positive decimal with at most two fractional
// digits, matching the precision of every supported currency.
func parseAmount(value string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	if !amount.IsPositive() || amount.Exponent() < -2 {
		return decimal.Decimal{}, domain.ErrInvalidAmount
	}
	return amount, nil
}

// respondServiceError maps business errors onto HTTP statuses.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error, method, endpoint string) {
	switch {
	case errors.Is(err, errMalformedBody):
		h.respondError(w, http.StatusBadRequest, err.Error(), method, endpoint)
	case errors.Is(err, errValidation):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), method, endpoint)
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrTransferNotFound):
		h.respondError(w, http.StatusNotFound, err.Error(), method, endpoint)
	case errors.Is(err, domain.ErrDuplicateMovement):
		h.respondError(w, http.StatusConflict, err.Error(), method, endpoint)
	case errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrIncompatibleCurrency),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCurrency):
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), method, endpoint)
	default:
		h.logger.Error("request failed", "method", method, "endpoint", endpoint, "error", err)
		h.respondError(w, http.StatusInternalServerError, "internal server error", method, endpoint)
	}
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload any, method, endpoint string) {
	httpReqTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}
