package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gcal-sync/core/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

func newTestMiddleware() *Middleware {
	return NewMiddleware(&config.Config{
		Auth: config.AuthConfig{JWTSecret: testJWTSecret},
	})
}

func signSessionToken(t *testing.T, subject, role, secret string) string {
	t.Helper()
	claims := &SessionClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func invokeWithAuth(t *testing.T, mw *Middleware, token string, admin bool) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
	wrapped := mw.AuthMiddleware()(handler)
	if admin {
		wrapped = mw.AuthMiddleware()(mw.AdminMiddleware()(handler))
	}
	return rec, wrapped(c)
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	mw := newTestMiddleware()
	token := signSessionToken(t, "7", "user", testJWTSecret)

	rec, err := invokeWithAuth(t, mw, token, false)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	mw := newTestMiddleware()

	_, err := invokeWithAuth(t, mw, "", false)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	mw := newTestMiddleware()
	token := signSessionToken(t, "7", "user", "some-other-secret")

	_, err := invokeWithAuth(t, mw, token, false)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAuthMiddlewareNonNumericSubject(t *testing.T) {
	mw := newTestMiddleware()
	token := signSessionToken(t, "abc", "user", testJWTSecret)

	_, err := invokeWithAuth(t, mw, token, false)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	mw := newTestMiddleware()
	token := signSessionToken(t, "7", RoleAdmin, testJWTSecret)

	rec, err := invokeWithAuth(t, mw, token, true)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminMiddlewareRejectsNonAdmin(t *testing.T) {
	mw := newTestMiddleware()
	token := signSessionToken(t, "7", "user", testJWTSecret)

	_, err := invokeWithAuth(t, mw, token, true)

	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestUserIDFromContext(t *testing.T) {
	mw := newTestMiddleware()
	token := signSessionToken(t, "42", "user", testJWTSecret)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID int64
	handler := mw.AuthMiddleware()(func(c echo.Context) error {
		id, ok := UserIDFromContext(c)
		require.True(t, ok)
		gotID = id
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, int64(42), gotID)
}
