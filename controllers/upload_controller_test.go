package controllers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/local-fix/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadImage_Success(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.createUser(t, "Citizen", "citizen@example.com", models.RoleCitizen)

	rr := env.multipart(t, "POST", "/api/uploads/image",
		map[string]string{"folder": "profiles"}, "image", "avatar.jpg", env.token(t, citizen))

	require.Equal(t, http.StatusCreated, rr.Code)
	body := decodeBody(t, rr)
	path := body["data"].(map[string]interface{})["path"].(string)
	assert.True(t, strings.HasPrefix(path, "/api/uploads/image/profiles/"), path)

	// Saved file lands under the uploads dir.
	fileName := filepath.Base(path)
	_, err := os.Stat(filepath.Join(os.Getenv("UPLOADS_DIR"), "profiles", fileName))
	assert.NoError(t, err)
}

func TestUploadImage_RefusesProofFolder(t *testing.T) {
	env := newTestEnv(t)
	worker := env.createUser(t, "Worker", "worker@example.com", models.RoleWorker)

	rr := env.multipart(t, "POST", "/api/uploads/image",
		map[string]string{"folder": "proofs"}, "image", "proof.jpg", env.token(t, worker))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadImage_UnknownFolder(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.createUser(t, "Citizen", "citizen@example.com", models.RoleCitizen)

	rr := env.multipart(t, "POST", "/api/uploads/image",
		map[string]string{"folder": "secrets"}, "image", "x.jpg", env.token(t, citizen))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadImage_MissingFile(t *testing.T) {
	env := newTestEnv(t)
	citizen := env.createUser(t, "Citizen", "citizen@example.com", models.RoleCitizen)

	rr := env.multipart(t, "POST", "/api/uploads/image",
		map[string]string{"folder": "profiles"}, "", "", env.token(t, citizen))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadImage_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.multipart(t, "POST", "/api/uploads/image",
		map[string]string{"folder": "profiles"}, "image", "x.jpg", "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServeImage(t *testing.T) {
	env := newTestEnv(t)

	dir := filepath.Join(os.Getenv("UPLOADS_DIR"), "issue_img")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pothole.jpg"), []byte("jpeg-bytes"), 0o644))

	// Public route, no token.
	rr := env.request(t, "GET", "/api/uploads/image/issue_img/pothole.jpg", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "jpeg-bytes", rr.Body.String())

	rr = env.request(t, "GET", "/api/uploads/image/issue_img/missing.jpg", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.request(t, "GET", "/api/uploads/image/secrets/pothole.jpg", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServeImage_BlocksTraversal(t *testing.T) {
	env := newTestEnv(t)

	rr := env.request(t, "GET", "/api/uploads/image/profiles/..", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
