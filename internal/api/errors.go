package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/masterdata-core/internal/machine"
	"github.com/nerrad567/masterdata-core/internal/masterdata"
	"github.com/nerrad567/masterdata-core/internal/notification/sms"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Transport error codes. Service errors carry their own stable codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeConflict       = "conflict"
	ErrCodeInternal       = "internal_error"
	ErrCodeValidation     = "validation_error"
	ErrCodeMethodNotAllow = "method_not_allowed"
	ErrCodeUnavailable    = "service_unavailable"
	ErrCodeBadGateway     = "bad_gateway"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// statusForKind maps a service error kind to an HTTP status.
func statusForKind(k masterdata.Kind) int {
	switch k {
	case masterdata.KindNotFound:
		return http.StatusNotFound
	case masterdata.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps err to a response and logs anything the client
// can't act on.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := r.Context().Value(ctxKeyRequestID)

	switch {
	case errors.Is(err, machine.ErrMachineExists):
		e, _ := masterdata.AsError(err)
		code := ErrCodeConflict
		if e != nil {
			code = e.Code
		}
		writeError(w, http.StatusConflict, code, "machine already exists for this language")
		return

	case errors.Is(err, sms.ErrGatewayRejected), errors.Is(err, sms.ErrGatewayUnreachable):
		s.logger.Warn("sms gateway failure", "error", err, "request_id", requestID)
		writeError(w, http.StatusBadGateway, ErrCodeBadGateway, "sms gateway failure")
		return
	}

	e, ok := masterdata.AsError(err)
	if !ok {
		s.logger.Error("unclassified service error", "error", err, "request_id", requestID)
		writeInternalError(w, "internal server error")
		return
	}

	status := statusForKind(e.Kind)
	if status == http.StatusInternalServerError {
		s.logger.Error("service error",
			"code", e.Code,
			"kind", e.Kind.String(),
			"error", err,
			"request_id", requestID,
		)
	}
	writeError(w, status, e.Code, e.Message)
}
