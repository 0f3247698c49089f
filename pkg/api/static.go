package api

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dafonte/formrelay/pkg/apiresponses"
	"github.com/dafonte/formrelay/pkg/metrics"
	"github.com/dafonte/formrelay/pkg/system"
)

const defaultContentType = "text/html"

var contentTypes = map[string]string{
	".css":  "text/css",
	".js":   "application/javascript",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
}

// ContentTypeFor maps a file name to its Content-Type using a fixed table.
// Extensions match case-sensitively; anything else is served as text/html.
func ContentTypeFor(name string) string {
	if ct, ok := contentTypes[path.Ext(name)]; ok {
		return ct
	}
	return defaultContentType
}

// AssetPath maps a request path to a cleaned, rooted file name below the
// static root. "/" and "/index.html" both resolve to index.html.
func AssetPath(requestPath string) string {
	if requestPath == "/" || requestPath == "/index.html" {
		return "/index.html"
	}
	return path.Clean("/" + strings.TrimLeft(requestPath, "/"))
}

// ServeStatic reads the whole requested file from root and writes it with a
// Content-Type from the extension table. Missing files produce a bare 404,
// any other read error a bare 500. Directory listings are never served.
func ServeStatic(root string, log *zap.SugaredLogger) gin.HandlerFunc {
	// Directories pass Exists so that reading them fails with a 500.
	assets := static.LocalFile(root, true)
	return func(c *gin.Context) {
		defer func() {
			metrics.StaticRequests.WithLabelValues(strconv.Itoa(c.Writer.Status())).Inc()
		}()

		name := AssetPath(c.Request.URL.Path)
		if !assets.Exists("/", name) {
			apiresponses.RespondStatus(c, http.StatusNotFound)
			return
		}
		data, err := readAsset(assets, name)
		switch {
		case err == nil:
			c.Data(http.StatusOK, ContentTypeFor(name), data)
		case errors.Is(err, fs.ErrNotExist):
			// removed between the existence check and the read
			apiresponses.RespondStatus(c, http.StatusNotFound)
		default:
			system.GetReqLogger(c, log).Errorw("Erro ao servir arquivo", "path", name, "error", err)
			apiresponses.RespondStatus(c, http.StatusInternalServerError)
		}
	}
}

func readAsset(assets http.FileSystem, name string) ([]byte, error) {
	f, err := assets.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
