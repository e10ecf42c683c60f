package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/dkrasnov/project-tracker-api/internal/dto"
	"github.com/dkrasnov/project-tracker-api/internal/models"
	"github.com/stretchr/testify/require"
)

func TestProjectHandler_CreateAndGet(t *testing.T) {
	env := setupTestEnv(t)
	alice, token := env.registerUser(t, "alice", "alice@example.com")

	w := env.doJSON(t, http.MethodPost, "/projects/", token, map[string]any{
		"name":        "Launch",
		"description": "Release checklist",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, "Launch", created.Name)
	require.Equal(t, alice.ID, created.OwnerID)
	require.NotNil(t, created.Description)

	got := env.doJSON(t, http.MethodGet, fmt.Sprintf("/projects/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, got.Code)
}

func TestProjectHandler_OwnerIsForcedToActor(t *testing.T) {
	env := setupTestEnv(t)
	alice, token := env.registerUser(t, "alice", "alice@example.com")
	bob, _ := env.registerUser(t, "bob", "bob@example.com")

	// Caller-supplied owner_id is ignored
	w := env.doJSON(t, http.MethodPost, "/projects/", token, map[string]any{
		"name":     "Launch",
		"owner_id": bob.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, alice.ID, created.OwnerID)
}

func TestProjectHandler_ListOnlyOwned(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := env.registerUser(t, "alice", "alice@example.com")
	_, bobToken := env.registerUser(t, "bob", "bob@example.com")

	require.Equal(t, http.StatusCreated,
		env.doJSON(t, http.MethodPost, "/projects/", aliceToken, map[string]any{"name": "Alpha"}).Code)
	require.Equal(t, http.StatusCreated,
		env.doJSON(t, http.MethodPost, "/projects/", aliceToken, map[string]any{"name": "Beta"}).Code)
	require.Equal(t, http.StatusCreated,
		env.doJSON(t, http.MethodPost, "/projects/", bobToken, map[string]any{"name": "Gamma"}).Code)

	w := env.doJSON(t, http.MethodGet, "/projects/", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var projects []dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &projects))
	require.Len(t, projects, 2)
	for _, p := range projects {
		require.NotEqual(t, "Gamma", p.Name)
	}
}

func TestProjectHandler_CrossUserAccessIsNotFound(t *testing.T) {
	env := setupTestEnv(t)
	_, aliceToken := env.registerUser(t, "alice", "alice@example.com")
	_, bobToken := env.registerUser(t, "bob", "bob@example.com")

	w := env.doJSON(t, http.MethodPost, "/projects/", aliceToken, map[string]any{"name": "Secret"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Bob sees 404, not 403: existence must not leak
	get := env.doJSON(t, http.MethodGet, fmt.Sprintf("/projects/%d", created.ID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, get.Code)

	del := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/projects/%d", created.ID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, del.Code)

	// The project is still there for alice
	still := env.doJSON(t, http.MethodGet, fmt.Sprintf("/projects/%d", created.ID), aliceToken, nil)
	require.Equal(t, http.StatusOK, still.Code)
}

func TestProjectHandler_DeleteCascadesToTasks(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "alice", "alice@example.com")

	w := env.doJSON(t, http.MethodPost, "/projects/", token, map[string]any{"name": "Doomed"})
	require.Equal(t, http.StatusCreated, w.Code)

	var project dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	for i := 0; i < 3; i++ {
		created := env.doJSON(t, http.MethodPost, "/tasks/", token, map[string]any{
			"title":      fmt.Sprintf("task %d", i),
			"project_id": project.ID,
		})
		require.Equal(t, http.StatusCreated, created.Code)
	}

	del := env.doJSON(t, http.MethodDelete, fmt.Sprintf("/projects/%d", project.ID), token, nil)
	require.Equal(t, http.StatusNoContent, del.Code)

	// No orphaned task rows reference the deleted project
	var orphans int64
	require.NoError(t, env.db.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&orphans).Error)
	require.Zero(t, orphans)
}

func TestProjectHandler_ValidationErrors(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "alice", "alice@example.com")

	missingName := env.doJSON(t, http.MethodPost, "/projects/", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, missingName.Code)

	longName := env.doJSON(t, http.MethodPost, "/projects/", token, map[string]any{
		"name": strings.Repeat("a", 101),
	})
	require.Equal(t, http.StatusBadRequest, longName.Code)
}

func TestProjectHandler_LengthLimitsCountCharacters(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.registerUser(t, "alice", "alice@example.com")

	// 100 multibyte characters are within the limit even though the
	// UTF-8 encoding is 300 bytes.
	name := strings.Repeat("あ", 100)
	w := env.doJSON(t, http.MethodPost, "/projects/", token, map[string]any{
		"name":        name,
		"description": strings.Repeat("é", 1000),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var project dto.ProjectDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	require.Equal(t, name, project.Name)

	tooLong := env.doJSON(t, http.MethodPost, "/projects/", token, map[string]any{
		"name": strings.Repeat("あ", 101),
	})
	require.Equal(t, http.StatusBadRequest, tooLong.Code)
}
