package httpapi

import (
	"encoding/json"
	"net/http"

	"log/slog"

	gerr "github.com/peepeep/peepeep-manager/internal/errors"
)

// envelope is the uniform response shape: exactly one of data or error is
// set.
type envelope struct {
	Data  any        `json:"data,omitempty"`
	Error *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Data: data}); err != nil {
		slog.Default().Error("can't encode response", slog.String("err", err.Error()))
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := gerr.HTTPStatus(err)
	code := gerr.CodeOf(err)

	message := err.Error()
	if code == gerr.CodeInternal {
		// internal details stay in the logs
		slog.Default().Error("internal error", slog.String("err", err.Error()))
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Error: &errorBody{
		Code:    string(code),
		Message: message,
	}}); err != nil {
		slog.Default().Error("can't encode error response", slog.String("err", err.Error()))
	}
}

// decode reads a JSON body into dst, rejecting malformed payloads.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return gerr.New(gerr.CodeInvalidRequest, "malformed request body")
	}
	return nil
}
