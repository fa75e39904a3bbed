// Package httputil centralizes JSON response writing and request decoding so
// handlers stay thin and error bodies stay uniform.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	dErrors "nachlass/pkg/domainerrors"
)

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// WriteError maps a domain error onto the uniform error envelope. Internal
// errors hide their message so infrastructure details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.GetCode(err)
	status := dErrors.ToHTTPStatus(code)

	body := errorBody{Error: string(code)}
	if code == dErrors.CodeInternal {
		body.Error = "internal_error"
	} else {
		var de *dErrors.Error
		if errors.As(err, &de) {
			body.Description = de.Message
		} else {
			body.Description = err.Error()
		}
	}
	WriteJSON(w, status, body)
}

// Validatable lets request types hook their own validation into decoding.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes a JSON request body into T and runs its Validate
// hook when present. On malformed or invalid input it writes the error
// response and reports failure to the caller.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var zero T
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "malformed request body",
				"request_id", requestID, "error", err)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed request body"))
		return zero, false
	}
	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			WriteError(w, err)
			return zero, false
		}
	}
	return req, true
}
