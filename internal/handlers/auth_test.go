package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dkrasnov/project-tracker-api/internal/dto"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "Pass1234",
	}
	w := env.doJSON(t, http.MethodPost, "/users/", "", payload)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "alice", response.Username)
	require.Equal(t, "alice@example.com", response.Email)
	require.NotContains(t, w.Body.String(), "password")
}

func TestUserHandler_RegisterDuplicateUsername(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	// Same username, different email
	payload := map[string]string{
		"username": "alice",
		"email":    "alice2@example.com",
		"password": "Pass1234",
	}
	w := env.doJSON(t, http.MethodPost, "/users/", "", payload)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_RegisterDuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	payload := map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "Pass1234",
	}
	w := env.doJSON(t, http.MethodPost, "/users/", "", payload)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUserHandler_RegisterShortPassword(t *testing.T) {
	env := setupTestEnv(t)

	payload := map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "short",
	}
	w := env.doJSON(t, http.MethodPost, "/users/", "", payload)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_LoginFlow(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	w := env.doJSON(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "Pass1234",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.AccessToken)
	require.Equal(t, "bearer", response.TokenType)

	// The issued token authenticates /users/me
	me := env.doJSON(t, http.MethodGet, "/users/me", response.AccessToken, nil)
	require.Equal(t, http.StatusOK, me.Code)

	var current dto.UserDTO
	require.NoError(t, json.Unmarshal(me.Body.Bytes(), &current))
	require.Equal(t, "alice", current.Username)
}

func TestAuthHandler_LoginFailsUniformly(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")

	unknownUser := env.doJSON(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "nosuchuser",
		"password": "Pass1234",
	})
	wrongPassword := env.doJSON(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "WrongPass1",
	})

	require.Equal(t, http.StatusUnauthorized, unknownUser.Code)
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	// Identical bodies: no hint whether the username exists
	require.JSONEq(t, unknownUser.Body.String(), wrongPassword.Body.String())
}

func TestRequireAuth_RejectsBadTokens(t *testing.T) {
	env := setupTestEnv(t)

	missing := env.doJSON(t, http.MethodGet, "/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, missing.Code)

	garbage := env.doJSON(t, http.MethodGet, "/users/me", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, garbage.Code)

	// Structurally valid token whose subject no longer resolves
	orphan, err := env.jwtManager.Issue(9999)
	require.NoError(t, err)
	stale := env.doJSON(t, http.MethodGet, "/users/me", orphan, nil)
	require.Equal(t, http.StatusUnauthorized, stale.Code)
}

func TestUserHandler_ListUsersIsPublic(t *testing.T) {
	env := setupTestEnv(t)
	env.registerUser(t, "alice", "alice@example.com")
	env.registerUser(t, "bob", "bob@example.com")

	w := env.doJSON(t, http.MethodGet, "/users/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var users []dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 2)
}
