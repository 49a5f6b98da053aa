package httpserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_NewEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"name":     "A",
		"email":    "a@x.com",
		"password": "p1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "User registered successfully", resp["message"])

	stored, err := env.Users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "A", stored.Name)
	assert.NotEqual(t, "p1", stored.PasswordHash, "plaintext password must never be stored")
	assert.False(t, stored.IsAdmin)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]string{"name": "A", "email": "a@x.com", "password": "p1"}

	rec := env.doJSON(http.MethodPost, "/auth/register", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/auth/register", body, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "User already exists", resp["message"])
}

func TestRegister_MalformedInput(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "missing name", body: map[string]string{"email": "a@x.com", "password": "p1"}},
		{name: "missing email", body: map[string]string{"name": "A", "password": "p1"}},
		{name: "missing password", body: map[string]string{"name": "A", "email": "a@x.com"}},
		{name: "email without at sign", body: map[string]string{"name": "A", "email": "not-an-email", "password": "p1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.doJSON(http.MethodPost, "/auth/register", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLogin_NoEnumerationSignal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"name": "A", "email": "a@x.com", "password": "p1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := env.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	}, nil)
	unknownEmail := env.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "p1",
	}, nil)

	require.Equal(t, http.StatusBadRequest, wrongPassword.Code)
	require.Equal(t, http.StatusBadRequest, unknownEmail.Code)

	var a, b map[string]string
	decodeJSON(t, wrongPassword, &a)
	decodeJSON(t, unknownEmail, &b)
	assert.Equal(t, a["message"], b["message"], "wrong password and unknown email must be indistinguishable")
	assert.Equal(t, "Invalid email or password", a["message"])
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodPost, "/auth/register", map[string]string{
		"name": "A", "email": "a@x.com", "password": "p1",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/auth/login", map[string]string{
		"email": "a@x.com", "password": "p1",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, rec, &resp)

	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.ID)
	assert.Equal(t, "A", resp.User.Name)
	assert.Equal(t, "a@x.com", resp.User.Email)

	assert.NotContains(t, rec.Body.String(), "password", "no credential material in the login response")
}

func TestAuthScenario_RegisterTwiceThenLogin(t *testing.T) {
	env := newTestEnv(t)

	creds := map[string]string{"name": "A", "email": "a@x.com", "password": "p1"}

	rec := env.doJSON(http.MethodPost, "/auth/register", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.doJSON(http.MethodPost, "/auth/register", creds, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(http.MethodPost, "/auth/login", map[string]string{"email": "a@x.com", "password": "wrong"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(http.MethodPost, "/auth/login", map[string]string{"email": "a@x.com", "password": "p1"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "a@x.com", resp.User.Email)
}

func TestBanner(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(http.MethodGet, "/", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is running", rec.Body.String())
}
