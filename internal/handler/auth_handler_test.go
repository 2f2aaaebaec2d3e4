package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cms-api/internal/middleware"
	"github.com/noah-isme/cms-api/internal/models"
	appErrors "github.com/noah-isme/cms-api/pkg/errors"
)

func TestAuthHandlerLogin(t *testing.T) {
	svc := &authServiceMock{login: &models.LoginResponse{AccessToken: "token", TokenType: "Bearer"}}
	c, w := newContext(http.MethodPost, "/auth/login", `{"email":"admin@example.edu","password":"secret123"}`)

	NewAuthHandler(svc).Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin@example.edu", svc.lastLogin.Email)
	assert.Contains(t, w.Body.String(), `"accessToken":"token"`)
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	svc := &authServiceMock{err: appErrors.ErrInvalidCredentials}
	c, w := newContext(http.MethodPost, "/auth/login", `{"email":"admin@example.edu","password":"nope"}`)

	NewAuthHandler(svc).Login(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	t.Run("without claims", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/auth/me", "")
		NewAuthHandler(&authServiceMock{}).Me(c)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("with claims", func(t *testing.T) {
		svc := &authServiceMock{info: &models.UserInfo{ID: 1, Email: "admin@example.edu", Role: models.RoleAdmin}}
		c, w := newContext(http.MethodGet, "/auth/me", "")
		claims := &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}
		c.Set(middleware.ContextUserKey, claims)

		NewAuthHandler(svc).Me(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Same(t, claims, svc.lastClaim)
	})
}
