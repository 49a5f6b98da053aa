package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"ecom/internal/hash"
	"ecom/internal/models"
	"ecom/internal/repo"
	"ecom/internal/service"
	"ecom/internal/tokens"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	Users    *repo.MemoryUserRepo
	Products *repo.MemoryProductRepo
	Secret   []byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	secret := []byte("test-jwt-secret")
	users := repo.NewMemoryUserRepo()
	products := repo.NewMemoryProductRepo()

	authSvc := &service.AuthService{
		Users:     users,
		JWTSecret: secret,
	}
	catalogSvc := &service.CatalogService{
		Products: products,
	}

	e := echo.New()
	Register(e, &Deps{
		AuthHandler:    &AuthHTTP{Svc: authSvc},
		CatalogHandler: &CatalogHTTP{Svc: catalogSvc},
		SearchHandler:  NewSearchHTTP(nil),
		JWTSecret:      secret,
	})

	return &testEnv{
		T:        t,
		E:        e,
		Users:    users,
		Products: products,
		Secret:   secret,
	}
}

func (env *testEnv) doJSON(method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	env.T.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) adminToken() string {
	env.T.Helper()

	pwHash, err := hash.HashPassword("admin-password")
	require.NoError(env.T, err)

	admin := models.User{
		Name:         "admin",
		Email:        "admin@x.com",
		PasswordHash: pwHash,
		IsAdmin:      true,
	}
	require.NoError(env.T, env.Users.Create(context.Background(), &admin))

	token, err := tokens.SignAccessToken(admin.ID.Hex(), true, env.Secret, time.Now().Add(tokens.AccessTTL))
	require.NoError(env.T, err)
	return token
}

func (env *testEnv) userToken() string {
	env.T.Helper()

	token, err := tokens.SignAccessToken("some-user", false, env.Secret, time.Now().Add(tokens.AccessTTL))
	require.NoError(env.T, err)
	return token
}

func bearer(token string) map[string]string {
	return map[string]string{echo.HeaderAuthorization: "Bearer " + token}
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}
