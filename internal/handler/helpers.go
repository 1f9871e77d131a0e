package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/boddenberg/financehub-onboarding-bff/internal/domain"

	"go.uber.org/zap"
)

// RouteLogin is where a rejected request should navigate.
const RouteLogin = "/login"

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error    string            `json:"error"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	State    any               `json:"state,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &domain.ErrValidation{Field: "body", Message: "invalid request body"}
	}
	return nil
}

func parseIndex(r *http.Request) (int, error) {
	v := r.URL.Query().Get("index")
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, &domain.ErrValidation{Field: "index", Message: "must be an integer"}
	}
	return i, nil
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	writeServiceError(w, err, nil, logger)
}

// writeServiceError is handleServiceError with the current state attached,
// so a client can re-render after a rejected step.
func writeServiceError(w http.ResponseWriter, err error, state any, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var external *domain.ErrExternalService
	var validation *domain.ErrValidation
	var formInvalid *domain.ErrFormInvalid
	var invalidCredentials *domain.ErrInvalidCredentials
	var loginUnavailable *domain.ErrLoginUnavailable
	var unauthorized *domain.ErrUnauthorized
	var precondition *domain.ErrPrecondition
	var inFlight *domain.ErrSubmissionInFlight
	var conflict *domain.ErrConflict

	resp := errorResponse{Error: err.Error(), State: state}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &formInvalid):
		logger.Debug("form invalid", zap.String("form", formInvalid.Form), zap.Int("fields", len(formInvalid.Fields)))
		status = http.StatusUnprocessableEntity
		resp.Fields = formInvalid.Fields
	case errors.As(err, &invalidCredentials):
		logger.Debug("invalid credentials")
		status = http.StatusUnauthorized
		resp.Error = domain.InvalidCredentialsMessage
		resp.Fields = invalidCredentials.Fields()
	case errors.As(err, &loginUnavailable):
		logger.Error("login unavailable", zap.Error(loginUnavailable.Err))
		status = http.StatusServiceUnavailable
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		status = http.StatusUnauthorized
		resp.Redirect = RouteLogin
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		status = http.StatusBadRequest
	case errors.As(err, &precondition):
		logger.Debug("precondition failed", zap.String("error", err.Error()))
		status = http.StatusPreconditionFailed
	case errors.As(err, &inFlight):
		logger.Debug("submission in flight")
		status = http.StatusConflict
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		status = http.StatusConflict
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		status = http.StatusNotFound
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		status = http.StatusServiceUnavailable
	case errors.As(err, &external):
		logger.Error("external service error", zap.Error(err))
		status = http.StatusBadGateway
	default:
		logger.Error("unhandled error", zap.Error(err))
		resp = errorResponse{Error: "internal server error"}
	}

	writeJSON(w, status, resp)
}
