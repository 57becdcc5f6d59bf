package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(sub string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub": sub,
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

// subjectEcho отвечает subject из контекста или "public"
func subjectEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject, ok := GetSubject(r.Context())
		if !ok {
			subject = "public"
		}
		_, _ = w.Write([]byte(subject))
	})
}

func doRequest(h http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/calendars", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	auth := NewAuthenticator(testSecret, "authenticated", nil, nopLogger{})
	h := auth.Auth(subjectEcho())

	t.Run("valid token", func(t *testing.T) {
		rec := doRequest(h, signToken(t, testSecret, validClaims("admin-1")))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "admin-1", rec.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		rec := doRequest(h, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), msgMissingToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec := doRequest(h, signToken(t, "other", validClaims("admin-1")))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), msgInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := validClaims("admin-1")
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		rec := doRequest(h, signToken(t, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), msgTokenExpired)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := validClaims("admin-1")
		claims["aud"] = "anon"
		rec := doRequest(h, signToken(t, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("no subject", func(t *testing.T) {
		claims := validClaims("")
		delete(claims, "sub")
		rec := doRequest(h, signToken(t, testSecret, claims))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuth_AdminAllowList(t *testing.T) {
	auth := NewAuthenticator(testSecret, "authenticated", []string{"admin-1", " "}, nopLogger{})
	h := auth.Auth(subjectEcho())

	rec := doRequest(h, signToken(t, testSecret, validClaims("admin-1")))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(h, signToken(t, testSecret, validClaims("guest")))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	auth := NewAuthenticator(testSecret, "authenticated", []string{"admin-1"}, nopLogger{})
	h := auth.OptionalAuth(subjectEcho())

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "no token", token: "", want: "public"},
		{name: "garbage token", token: "not-a-jwt", want: "public"},
		{name: "not an admin", token: signToken(t, testSecret, validClaims("guest")), want: "public"},
		{name: "admin", token: signToken(t, testSecret, validClaims("admin-1")), want: "admin-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, tt.token)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestGetSubject(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, IsAuthenticated(req.Context()))

	ctx := WithSubject(req.Context(), "admin-1")
	assert.True(t, IsAuthenticated(ctx))
	subject, ok := GetSubject(ctx)
	assert.True(t, ok)
	assert.Equal(t, "admin-1", subject)
}
