// Package static embeds the kiosk page served at the site root.
package static

import (
	"embed"
	"io/fs"
	"path"
	"strings"
)

//go:embed all:dist/*
var distFS embed.FS

var contentTypes = map[string]string{
	".html": "text/html; charset=utf-8",
	".css":  "text/css; charset=utf-8",
	".js":   "application/javascript; charset=utf-8",
}

// Open returns the asset for a URL path and its content type. "/" maps to
// index.html. Directories are reported as fs.ErrNotExist.
func Open(urlPath string) (fs.File, string, error) {
	name := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if name == "" {
		name = "index.html"
	}

	f, err := distFS.Open(path.Join("dist", name))
	if err != nil {
		return nil, "", fs.ErrNotExist
	}
	if stat, err := f.Stat(); err != nil || stat.IsDir() {
		_ = f.Close()
		return nil, "", fs.ErrNotExist
	}

	contentType, ok := contentTypes[path.Ext(name)]
	if !ok {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}
