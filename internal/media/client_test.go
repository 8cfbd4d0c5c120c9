package media

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "Bearer cdn_key", r.Header.Get("Authorization"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "product.jpg", header.Filename)
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "fake-jpeg-bytes", string(data))

		json.NewEncoder(w).Encode(uploadResp{URL: "https://cdn.example.com/assets/product.jpg"})
	}))
	defer srv.Close()

	tmp := filepath.Join(t.TempDir(), "product.jpg")
	require.NoError(t, os.WriteFile(tmp, []byte("fake-jpeg-bytes"), 0o600))

	c := NewClient(srv.URL, "cdn_key")
	url, err := c.Upload(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/assets/product.jpg", url)

	// caller owns the temp file, upload must not remove it
	assert.FileExists(t, tmp)
}

func TestUpload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	tmp := filepath.Join(t.TempDir(), "product.jpg")
	require.NoError(t, os.WriteFile(tmp, []byte("x"), 0o600))

	_, err := NewClient(srv.URL, "k").Upload(context.Background(), tmp)
	assert.ErrorContains(t, err, "status 403")
}

func TestUpload_MissingFile(t *testing.T) {
	_, err := NewClient("http://unused", "k").Upload(context.Background(), "/nonexistent/file.jpg")
	assert.ErrorContains(t, err, "open upload")
}

func TestDelete(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "cdn_key")
	require.NoError(t, c.Delete(context.Background(), "https://cdn.example.com/assets/product.jpg"))
	assert.Equal(t, "/assets/product", gotPath)
}

func TestDelete_UnderivableID(t *testing.T) {
	err := NewClient("http://unused", "k").Delete(context.Background(), "https://cdn.example.com/")
	assert.ErrorContains(t, err, "cannot derive public id")
}

func TestPublicID(t *testing.T) {
	assert.Equal(t, "product", publicID("https://cdn.example.com/assets/product.jpg"))
	assert.Equal(t, "hero-2", publicID("https://cdn.example.com/a/b/hero-2.png"))
	assert.Equal(t, "noext", publicID("https://cdn.example.com/noext"))
	assert.Equal(t, "", publicID("https://cdn.example.com/"))
}
