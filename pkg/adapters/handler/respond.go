package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	apperrors "github.com/wadjakorntonsri/selectify-server/pkg/errors"
	"github.com/wadjakorntonsri/selectify-server/pkg/observability"
)

const (
	msgInvalidBody  = "Invalid request body"
	msgBodyTooLarge = "Request body too large"
	msgInternal     = "Internal server error"

	maxBodyBytes = 100 << 10
)

// messageResponse is the body of every error and of plain acknowledgements
type messageResponse struct {
	Message string `json:"message"`
}

// apiFunc is a handler whose failures are rendered by handle.
type apiFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn so every returned error becomes a JSON {"message": ...}
// response with a status derived from its type.
func handle(fn apiFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			writeError(w, r, err)
		}
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := msgInternal
	level := zerolog.ErrorLevel

	if appErr, ok := apperrors.As(err); ok {
		message = appErr.Message
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			status = http.StatusBadRequest
			level = zerolog.DebugLevel
		case apperrors.ErrorTypeNotFound:
			status = http.StatusNotFound
			level = zerolog.DebugLevel
		case apperrors.ErrorTypePayloadTooLarge:
			status = http.StatusRequestEntityTooLarge
			level = zerolog.DebugLevel
		}
	}

	observability.LoggerFromContext(r.Context()).WithLevel(level).
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	respondJSON(w, status, messageResponse{Message: message})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondList writes items as a JSON array, never null.
func respondList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, items)
}

// decodeBody reads a JSON body of at most maxBodyBytes into v. An empty body
// leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.NewPayloadTooLargeError(msgBodyTooLarge)
	}
	return apperrors.NewValidationError(msgInvalidBody)
}
