package evidence_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crms/backend/internal/evidence"
)

func TestFSStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := evidence.NewFSStore(dir, "/files")

	require.NoError(t, store.Upload("evidence/c1/1_photo.jpg",
		strings.NewReader("jpegbytes"), 9, nil))

	data, err := os.ReadFile(filepath.Join(dir, "evidence", "c1", "1_photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpegbytes", string(data))

	require.NoError(t, store.Delete("evidence/c1/1_photo.jpg"))
	_, err = os.Stat(filepath.Join(dir, "evidence", "c1", "1_photo.jpg"))
	assert.True(t, os.IsNotExist(err))
}

// TestFSStore_URLsMatchStaticRoute mirrors the server wiring: the
// store's base URL is mounted on its base directory, so every URL the
// store hands out must serve the blob it describes.
func TestFSStore_URLsMatchStaticRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	store := evidence.NewFSStore(dir, "/files")

	require.NoError(t, store.Upload("evidence/c1/1_photo.jpg",
		strings.NewReader("jpegbytes"), 9, nil))

	r := gin.New()
	r.Static("/files", dir)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, store.URL("evidence/c1/1_photo.jpg"), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpegbytes", w.Body.String())
}

func TestFSStore_RejectsEscapingPaths(t *testing.T) {
	dir := t.TempDir()
	store := evidence.NewFSStore(dir, "/files")

	err := store.Upload("../outside.txt", strings.NewReader("x"), 1, nil)
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "outside.txt"))
	assert.True(t, os.IsNotExist(statErr), "Nothing written outside the base directory")

	err = store.Upload("evidence/c1/../../../outside.txt", strings.NewReader("x"), 1, nil)
	require.Error(t, err)

	assert.Error(t, store.Delete("../outside.txt"))
}
