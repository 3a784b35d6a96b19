package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/types"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type contextKey string

const contextSessionKey contextKey = "session"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   apperr.Code `json:"error"`
	Message string      `json:"message,omitempty"`
}

// HealthResponse is returned by Healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func sessionFromContext(ctx context.Context) (types.SessionInfo, bool) {
	info, ok := ctx.Value(contextSessionKey).(types.SessionInfo)
	return info, ok && info.Username != ""
}

func withSession(ctx context.Context, info types.SessionInfo) context.Context {
	return context.WithValue(ctx, contextSessionKey, info)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, code apperr.Code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeAppError maps err to a status and body. Errors outside the known
// kinds are logged and reported with the generic message.
func writeAppError(w http.ResponseWriter, log *zap.Logger, r *http.Request, err error) {
	code := apperr.CodeOf(err)
	if code == apperr.ServerError {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, code, apperr.GenericMessage)
		return
	}
	writeError(w, statusFor(code), code, apperr.MessageOf(err))
}

func statusFor(code apperr.Code) int {
	switch code {
	case apperr.AuthMissing:
		return http.StatusUnauthorized
	case apperr.AuthInsufficient, apperr.AuthNoUser:
		return http.StatusForbidden
	case apperr.RequiredUsername, apperr.RequiredFieldsMissing, apperr.RequiredSubject,
		apperr.InvalidDate, apperr.InvalidFilter, apperr.InvalidRequest:
		return http.StatusBadRequest
	case apperr.NoSuchID, apperr.UserNotFound, apperr.SubjectNotFound:
		return http.StatusNotFound
	case apperr.UsernameExists, apperr.SubjectExists:
		return http.StatusConflict
	case apperr.ExportUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads the request body into v. An empty body leaves v zeroed.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return apperr.New(apperr.InvalidRequest, "request body must be a JSON object")
	}
	return nil
}

// pathParam returns the decoded URL parameter. chi matches on RawPath when
// the request has one, so only then do values like "A%26B" arrive encoded.
// Otherwise the parameter is already decoded and must not be unescaped again.
func pathParam(r *http.Request, name string) string {
	value := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return value
	}
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}
