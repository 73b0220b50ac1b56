package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"blogCMS/internal/models"

	"go.uber.org/zap"
)

var errProcedureNotFound = errors.New("procedure not found")

// ErrorResponse is the plain error body of the non-procedure routes.
type ErrorResponse struct {
	Error string `json:"error"`
}

type procedureError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type procedureErrorResponse struct {
	Error procedureError `json:"error"`
}

// failure is the transport-neutral classification of an error.
type failure struct {
	status  int
	code    string
	rpcCode int
	message string
}

// classify maps domain errors to HTTP and JSON-RPC codes. Unexpected errors
// are logged and replaced by fallback so store details never reach callers.
func (h *Handlers) classify(err error, fallback string, fields ...zap.Field) failure {
	var (
		verr       *models.ValidationError
		constraint *models.ConstraintError
	)

	switch {
	case errors.As(err, &verr):
		return failure{http.StatusBadRequest, "BAD_REQUEST", JSONRPCInvalidParams, verr.Error()}
	case errors.Is(err, models.ErrValidation):
		return failure{http.StatusBadRequest, "BAD_REQUEST", JSONRPCInvalidParams, err.Error()}
	case errors.As(err, &constraint):
		msg := "constraint violation"
		if constraint.Constraint != "" {
			msg += ": " + constraint.Constraint
		}
		return failure{http.StatusConflict, "CONFLICT", JSONRPCConstraintViolation, msg}
	case errors.Is(err, models.ErrUnauthorized):
		return failure{http.StatusUnauthorized, "UNAUTHORIZED", JSONRPCUnauthorized, err.Error()}
	case errors.Is(err, errProcedureNotFound):
		return failure{http.StatusNotFound, "NOT_FOUND", JSONRPCMethodNotFound, err.Error()}
	case errors.Is(err, models.ErrStorageDisabled):
		return failure{http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", JSONRPCInternalError, err.Error()}
	}

	h.logger.Error(fallback, append(fields, zap.Error(err))...)
	return failure{http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", JSONRPCInternalError, fallback}
}

func writeProcedureError(w http.ResponseWriter, f failure) {
	writeSuccess(w, procedureErrorResponse{Error: procedureError{Code: f.code, Message: f.message}}, f.status)
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	writeSuccess(w, ErrorResponse{Error: message}, statusCode)
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
