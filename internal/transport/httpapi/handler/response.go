package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	apperr "github.com/kislikjeka/warungku/internal/shared/errors"
	"github.com/kislikjeka/warungku/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, statusCode int, code, message string) {
	respondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}

// respondAppError maps err onto a status code. Errors outside the taxonomy are logged and hidden.
func respondAppError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	code := apperr.CodeOf(err)
	status := statusFor(code)

	if status == http.StatusInternalServerError && log != nil {
		log.WithContext(r.Context()).WithError(err).Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
		)
	}

	respondError(w, status, code, apperr.MessageOf(err))
}

func statusFor(code string) int {
	switch code {
	case apperr.ErrCodeValidation:
		return http.StatusBadRequest
	case apperr.ErrCodeConflict:
		return http.StatusConflict
	case apperr.ErrCodeNotFound:
		return http.StatusNotFound
	case apperr.ErrCodePrecondition:
		return http.StatusPreconditionFailed
	case apperr.ErrCodeInvalidState:
		return http.StatusConflict
	case apperr.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case apperr.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body into v. An empty body is accepted when allowEmpty is set.
func decodeJSON(r *http.Request, v interface{}, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		var appErr *apperr.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperr.Validation("invalid request body")
	}
	return nil
}

// pathUUID parses a UUID URL parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid " + name)
	}
	return id, nil
}

// pathInt64 parses an integer URL parameter
func pathInt64(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return n, nil
}

// callerID returns the authenticated user, if any
func callerID(r *http.Request) *uuid.UUID {
	id, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return nil
	}
	return &id
}
