package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/duedesk/apiserver/internal/services"
	"github.com/duedesk/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "sid"

// AuthHandler provides login, logout and registration endpoints and the
// session middleware.
type AuthHandler struct {
	userService *services.UserService
	secret      []byte
	log         *zap.Logger
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(userService *services.UserService, secret string, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{
		userService: userService,
		secret:      []byte(secret),
		log:         log,
	}
}

// SessionRouter registers /api/session routes on the given router.
func SessionRouter(r chi.Router, handler *AuthHandler) {
	r.With(handler.RequireSession).Get("/", handler.Whoami)
	r.Post("/", handler.Login)
	r.Delete("/", handler.Logout)
}

// UserRouter registers /api/users routes on the given router.
func UserRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/", handler.Register)
}

// RequireSession resolves the sid cookie and injects the caller into the
// request context.
func (h *AuthHandler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, err := h.sessionID(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, apperr.AuthMissing, "")
			return
		}
		info, err := h.userService.Resolve(sid)
		if err != nil {
			writeAppError(w, h.log, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), info)))
	})
}

// Whoami returns the current session's user and role.
func (h *AuthHandler) Whoami(w http.ResponseWriter, r *http.Request) {
	info, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, apperr.AuthMissing, "")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// Login opens a session for an existing user and returns their assignments.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}

	sid, assignments, err := h.userService.Login(r.Context(), req.Username)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	if err := h.setSessionCookie(w, sid); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// Register creates a user, opens a session and returns their assignments.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.Credentials
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}

	sid, assignments, err := h.userService.Register(r.Context(), req.Username)
	if err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	if err := h.setSessionCookie(w, sid); err != nil {
		writeAppError(w, h.log, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// Logout ends the session, if any, and always succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var username string
	if _, err := r.Cookie(SessionCookieName); err == nil {
		if sid, err := h.sessionID(r); err == nil {
			username = h.userService.Logout(r.Context(), sid)
		}
		clearSessionCookie(w)
	}
	writeJSON(w, http.StatusOK, types.SessionInfo{Username: username})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sid string) error {
	token, err := issueToken(sid, h.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(cookie.Value)
	if token == "" {
		return "", errors.New("empty session cookie")
	}
	return parseTokenSessionID(token, h.secret)
}

// issueToken signs a session reference. The token carries only the session
// id and has no expiry; the session store decides whether it is still live.
func issueToken(sid string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:       sid,
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseTokenSessionID(tokenString string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if strings.TrimSpace(claims.ID) == "" {
		return "", errors.New("missing session id")
	}
	return claims.ID, nil
}
