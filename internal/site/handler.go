package site

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/wolfman30/atomnext-intake/pkg/logging"
)

type pageKey struct {
	path    string
	modTime time.Time
}

// Handler serves the static site, binding intake triggers into HTML pages.
// Bound pages are cached until the file changes on disk.
type Handler struct {
	root   string
	binder *Binder
	files  http.Handler
	cache  *lru.Cache[pageKey, []byte]
	logger *logging.Logger
}

// NewHandler serves files under root.
func NewHandler(root string, binder *Binder, cacheSize int, logger *logging.Logger) (*Handler, error) {
	if root == "" {
		return nil, errors.New("site: root directory is required")
	}
	if binder == nil {
		binder = NewBinder("")
	}
	if cacheSize <= 0 {
		cacheSize = 128
	}
	if logger == nil {
		logger = logging.Default()
	}
	cache, err := lru.New[pageKey, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("site: page cache: %w", err)
	}
	return &Handler{
		root:   root,
		binder: binder,
		files:  http.FileServer(http.Dir(root)),
		cache:  cache,
		logger: logger,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := path.Clean("/" + r.URL.Path)
	if strings.HasSuffix(r.URL.Path, "/") {
		name = path.Join(name, "index.html")
	}
	if path.Ext(name) != ".html" {
		h.files.ServeHTTP(w, r)
		return
	}

	full := filepath.Join(h.root, filepath.FromSlash(name))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			h.logger.Warn("site: stat failed", "path", name, "error", err)
		}
		http.NotFound(w, r)
		return
	}

	key := pageKey{path: name, modTime: info.ModTime()}
	page, ok := h.cache.Get(key)
	if !ok {
		raw, err := os.ReadFile(full)
		if err != nil {
			h.logger.Error("site: read failed", "path", name, "error", err)
			http.Error(w, "failed to read page", http.StatusInternalServerError)
			return
		}
		var triggers int
		page, triggers, err = h.binder.Bind(raw)
		if err != nil {
			h.logger.Warn("site: serving page unbound", "path", name, "error", err)
			page = raw
		}
		h.cache.Add(key, page)
		h.logger.Debug("site: page bound", "path", name, "triggers", triggers)
	}

	http.ServeContent(w, r, path.Base(name), info.ModTime(), bytes.NewReader(page))
}
