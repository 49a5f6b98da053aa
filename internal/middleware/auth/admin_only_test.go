package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecom/internal/tokens"
)

var testSecret = []byte("test-jwt-secret")

func runGuard(t *testing.T, authHeader string) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/products/add", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	next := func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	}

	guard := NewGuard(testSecret)
	err := guard.RequireAdmin(next)(c)
	return rec, called, err
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	token, err := tokens.SignAccessToken("user-1", true, testSecret, time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, called, err := runGuard(t, "Bearer "+token)
	require.NoError(t, err)
	assert.True(t, called, "downstream handler must run for admins")
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	token, err := tokens.SignAccessToken("user-1", false, testSecret, time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, called, err := runGuard(t, "Bearer "+token)
	require.Error(t, err)
	assert.False(t, called, "downstream handler must never run for non-admins")

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "Access denied. Admins only.", he.Message)
}

func TestRequireAdmin_RejectsMissingToken(t *testing.T) {
	_, called, err := runGuard(t, "")
	require.Error(t, err)
	assert.False(t, called)

	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Code)
}

func TestRequireAdmin_RejectsExpiredToken(t *testing.T) {
	token, err := tokens.SignAccessToken("user-1", true, testSecret, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, called, err := runGuard(t, "Bearer "+token)
	require.Error(t, err)
	assert.False(t, called)
}

func TestRequireAdmin_RejectsWrongSecret(t *testing.T) {
	token, err := tokens.SignAccessToken("user-1", true, []byte("other-secret"), time.Now().Add(time.Minute))
	require.NoError(t, err)

	_, called, err := runGuard(t, "Bearer "+token)
	require.Error(t, err)
	assert.False(t, called)
}

func TestRequireAdmin_SetsUserContext(t *testing.T) {
	e := echo.New()
	token, err := tokens.SignAccessToken("user-42", true, testSecret, time.Now().Add(time.Minute))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/products/add", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	guard := NewGuard(testSecret)
	err = guard.RequireAdmin(func(c echo.Context) error {
		assert.Equal(t, "user-42", c.Get("user_id"))
		assert.Equal(t, true, c.Get("is_admin"))
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
}
