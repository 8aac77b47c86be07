package logger

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

type allowlist struct {
	mu    sync.RWMutex
	paths map[string]struct{}
}

func (a *allowlist) add(paths ...string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.paths == nil {
		a.paths = map[string]struct{}{}
	}
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p != "" {
			a.paths[p] = struct{}{}
		}
	}
}

func (a *allowlist) has(keys ...string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, k := range keys {
		if _, ok := a.paths[k]; ok {
			return true
		}
	}
	return false
}

// Only log small JSON request bodies on allowlisted paths or route patterns.
func (m *Middleware) shouldLogBody(r *http.Request, body []byte) bool {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		return false
	}
	if len(body) == 0 || len(body) > 1<<16 { // 64 KiB cap
		return false
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return false
	}
	return m.bodies.has(r.URL.Path, routePattern(r))
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		return rc.RoutePattern()
	}
	return ""
}
