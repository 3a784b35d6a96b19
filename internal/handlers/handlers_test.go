package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/duedesk/apiserver/internal/apperr"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")
	token, err := issueToken("abc123", secret)
	require.NoError(t, err)

	claims := jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Equal(t, "abc123", claims.ID)
	assert.Empty(t, claims.Subject)

	sid, err := parseTokenSessionID(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "abc123", sid)

	_, err = parseTokenSessionID(token, []byte("other"))
	assert.Error(t, err)

	_, err = parseTokenSessionID("garbage", secret)
	assert.Error(t, err)
}

func TestStatusFor(t *testing.T) {
	tests := map[apperr.Code]int{
		apperr.AuthMissing:           http.StatusUnauthorized,
		apperr.AuthInsufficient:      http.StatusForbidden,
		apperr.AuthNoUser:            http.StatusForbidden,
		apperr.RequiredFieldsMissing: http.StatusBadRequest,
		apperr.InvalidDate:           http.StatusBadRequest,
		apperr.NoSuchID:              http.StatusNotFound,
		apperr.SubjectExists:         http.StatusConflict,
		apperr.ExportUnavailable:     http.StatusServiceUnavailable,
		apperr.ServerError:           http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, statusFor(code), code)
	}
}

func TestWriteAppErrorHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)

	writeAppError(rec, zaptest.NewLogger(t), req, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, apperr.ServerError, body.Error)
	assert.Equal(t, apperr.GenericMessage, body.Message)
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Username string `json:"username"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, decodeJSON(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	err := decodeJSON(req, &v)
	assert.Equal(t, apperr.InvalidRequest, apperr.CodeOf(err))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"amy"}`))
	require.NoError(t, decodeJSON(req, &v))
	assert.Equal(t, "amy", v.Username)
}

func TestPathParamDecodesOnce(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/subjects/R%26D", "R&D"},
		{"/subjects/50%2541", "50%41"},
		{"/subjects/Data%20Science", "Data Science"},
		{"/subjects/Math", "Math"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var got string
			r := chi.NewRouter()
			r.Get("/subjects/{subject}", func(w http.ResponseWriter, r *http.Request) {
				got = pathParam(r, "subject")
			})

			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireAdminWithoutSession(t *testing.T) {
	h := requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
