package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dafonte/formrelay/pkg/metrics"
)

const indexContent = `<!DOCTYPE html><html><body>DAFONTE</body></html>`

func writeAssets(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"index.html":      indexContent,
		"styles.css":      `body { color: red; }`,
		"script.js":       `console.log("ok")`,
		"img/logo.png":    "\x89PNG",
		"img/hero.jpeg":   "jpeg",
		"img/photo.JPG":   "jpg",
		"img/banner.webp": "webp",
		"img/icon.svg":    `<svg></svg>`,
		"robots.txt":      "User-agent: *",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

func TestServeStatic(t *testing.T) {
	dir := writeAssets(t)
	server := NewServer(zaptest.NewLogger(t), testConfig(dir), true)

	tests := []struct {
		name                string
		path                string
		expectedStatus      int
		expectedContentType string
		expectedBody        string
	}{
		{
			name:                "root serves index",
			path:                "/",
			expectedStatus:      http.StatusOK,
			expectedContentType: "text/html",
			expectedBody:        indexContent,
		},
		{
			name:                "index.html",
			path:                "/index.html",
			expectedStatus:      http.StatusOK,
			expectedContentType: "text/html",
			expectedBody:        indexContent,
		},
		{
			name:                "stylesheet",
			path:                "/styles.css",
			expectedStatus:      http.StatusOK,
			expectedContentType: "text/css",
			expectedBody:        `body { color: red; }`,
		},
		{
			name:                "script",
			path:                "/script.js",
			expectedStatus:      http.StatusOK,
			expectedContentType: "application/javascript",
			expectedBody:        `console.log("ok")`,
		},
		{
			name:                "nested png",
			path:                "/img/logo.png",
			expectedStatus:      http.StatusOK,
			expectedContentType: "image/png",
			expectedBody:        "\x89PNG",
		},
		{
			name:                "extension match is case-sensitive",
			path:                "/img/photo.JPG",
			expectedStatus:      http.StatusOK,
			expectedContentType: "text/html",
			expectedBody:        "jpg",
		},
		{
			name:                "unknown extension served as html",
			path:                "/robots.txt",
			expectedStatus:      http.StatusOK,
			expectedContentType: "text/html",
			expectedBody:        "User-agent: *",
		},
		{
			name:           "missing file",
			path:           "/missing.css",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "no spa fallback",
			path:           "/some/route",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "directory is not listed",
			path:           "/img",
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "traversal stays below root",
			path:           "/../../etc/passwd",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.URL.Path = tt.path
			w := httptest.NewRecorder()
			server.Handler().ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus != http.StatusOK {
				assert.Empty(t, w.Body.String())
				return
			}
			assert.Equal(t, tt.expectedContentType, w.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestServeStatic_RootAndIndexIdentical(t *testing.T) {
	dir := writeAssets(t)
	server := NewServer(zaptest.NewLogger(t), testConfig(dir), true)

	get := func(path string) []byte {
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.Bytes()
	}

	assert.Equal(t, get("/"), get("/index.html"))
}

func TestServeStatic_MissingIndex(t *testing.T) {
	server := NewServer(zaptest.NewLogger(t), testConfig(t.TempDir()), true)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestServeStatic_DirectoryWithIndex(t *testing.T) {
	dir := writeAssets(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "img", "index.html"), []byte("nested"), 0o644))
	server := NewServer(zaptest.NewLogger(t), testConfig(dir), true)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/img", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestServeStatic_CountsRequests(t *testing.T) {
	dir := writeAssets(t)
	server := NewServer(zaptest.NewLogger(t), testConfig(dir), true)

	okBefore := testutil.ToFloat64(metrics.StaticRequests.WithLabelValues("200"))
	notFoundBefore := testutil.ToFloat64(metrics.StaticRequests.WithLabelValues("404"))

	server.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/styles.css", nil))
	server.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope.css", nil))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(metrics.StaticRequests.WithLabelValues("200")))
	assert.Equal(t, notFoundBefore+1, testutil.ToFloat64(metrics.StaticRequests.WithLabelValues("404")))
}

func TestContentTypeFor(t *testing.T) {
	tests := map[string]string{
		"styles.css":   "text/css",
		"app.js":       "application/javascript",
		"a.png":        "image/png",
		"a.jpg":        "image/jpeg",
		"a.jpeg":       "image/jpeg",
		"a.webp":       "image/webp",
		"a.svg":        "image/svg+xml",
		"index.html":   "text/html",
		"photo.JPG":    "text/html",
		"styles.CSS":   "text/html",
		"font.woff2":   "text/html",
		"no-extension": "text/html",
	}
	for name, expected := range tests {
		assert.Equal(t, expected, ContentTypeFor(name), name)
	}
}

func TestAssetPath(t *testing.T) {
	assert.Equal(t, "/index.html", AssetPath("/"))
	assert.Equal(t, "/index.html", AssetPath("/index.html"))
	assert.Equal(t, "/styles.css", AssetPath("/styles.css"))
	assert.Equal(t, "/img/logo.png", AssetPath("//img/logo.png"))
	assert.Equal(t, "/etc/passwd", AssetPath("/../../etc/passwd"))
	assert.Equal(t, "/img/logo.png", AssetPath("/img/./../img/logo.png"))
}
