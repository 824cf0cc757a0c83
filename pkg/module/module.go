// Package module provides prefix-scoped HTTP modules with their own
// middleware stacks, and a router that dispatches requests to mounted
// modules by path prefix.
package module

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/docket/pkg/middleware"
)

// Module is an HTTP handler that strips a single-level path prefix and
// delegates to an inner mux wrapped with its own middleware stack.
type Module struct {
	prefix string
	mux    *http.ServeMux
	stack  *middleware.Stack
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is empty, missing a leading slash, or multi-level.
func New(prefix string) *Module {
	if err := validatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix: prefix,
		mux:    http.NewServeMux(),
		stack:  middleware.New(),
	}
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Handle registers a handler on the module's inner mux. The pattern is
// relative to the module prefix (e.g. "POST /documents/classify").
func (m *Module) Handle(pattern string, handler http.HandlerFunc) {
	m.mux.HandleFunc(pattern, handler)
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.stack.Use(mw)
}

// Serve strips the module prefix from the request path and dispatches to
// the wrapped inner mux.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	path := req.URL.Path[len(m.prefix):]
	if path == "" {
		path = "/"
	}

	clone := new(http.Request)
	*clone = *req
	clone.URL = new(url.URL)
	*clone.URL = *req.URL
	clone.URL.Path = path
	clone.URL.RawPath = ""

	m.stack.Apply(m.mux).ServeHTTP(w, clone)
}

func validatePrefix(prefix string) error {
	if prefix == "" {
		return fmt.Errorf("module prefix cannot be empty")
	}
	if !strings.HasPrefix(prefix, "/") {
		return fmt.Errorf("module prefix must start with /: %s", prefix)
	}
	if strings.Count(prefix, "/") != 1 {
		return fmt.Errorf("module prefix must be single-level sub-path: %s", prefix)
	}
	return nil
}
