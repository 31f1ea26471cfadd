package httpapi

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/librarylab/lending-go/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	errKindValidationFailed = "validation_failed"
	errKindInvalidArgument  = "invalid_argument"
	errKindNotFound         = "not_found"
	errKindConflict         = "conflict"
	errKindAlreadyReturned  = "already_returned"
	errKindInternal         = "internal"
)

type errorResponse struct {
	Error      string                `json:"error"`
	Message    string                `json:"message"`
	Violations []core.FieldViolation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the error taxonomy onto HTTP status codes. Internal
// causes never reach the response body.
func writeError(w http.ResponseWriter, err error) {
	var validationFailed core.ValidationFailedError

	switch {
	case errors.As(err, &validationFailed):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:      errKindValidationFailed,
			Message:    "validation failed",
			Violations: validationFailed.Violations,
		})
	case core.IsInvalidArgument(err):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   errKindInvalidArgument,
			Message: err.Error(),
		})
	case core.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   errKindNotFound,
			Message: err.Error(),
		})
	case core.IsConflict(err):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:   errKindConflict,
			Message: err.Error(),
		})
	case core.IsAlreadyReturned(err):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:   errKindAlreadyReturned,
			Message: err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   errKindInternal,
			Message: "internal error",
		})
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   errKindInvalidArgument,
		Message: message,
	})
}
