package api_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisy34/foodgram-project-react3/internal/api"
)

func TestLoginEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	registerAndLogin(t, engine, "alice")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/token/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp api.TokenResponse
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.AuthToken)
}

func TestLoginEndpointRejectsBadCredentials(t *testing.T) {
	engine, _ := newTestRouter(t)
	registerAndLogin(t, engine, "alice")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/token/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// malformed payload never reaches the credential check
	w = doRequest(t, engine, http.MethodPost, "/api/v1/auth/token/login", "", gin.H{
		"email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogoutEndpoint(t *testing.T) {
	engine, _ := newTestRouter(t)
	token, _ := registerAndLogin(t, engine, "alice")

	w := doRequest(t, engine, http.MethodPost, "/api/v1/auth/token/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(t, engine, http.MethodPost, "/api/v1/auth/token/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
