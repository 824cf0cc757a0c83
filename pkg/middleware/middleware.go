// Package middleware provides an ordered HTTP middleware stack and the
// common middleware used by docket modules.
package middleware

import "net/http"

// Stack holds an ordered list of HTTP middleware.
type Stack struct {
	fns []func(http.Handler) http.Handler
}

// New creates an empty middleware Stack.
func New() *Stack {
	return &Stack{}
}

// Use appends middleware to the stack.
func (s *Stack) Use(fn func(http.Handler) http.Handler) {
	s.fns = append(s.fns, fn)
}

// Apply wraps handler with the stack, outermost first.
func (s *Stack) Apply(handler http.Handler) http.Handler {
	for i := len(s.fns) - 1; i >= 0; i-- {
		handler = s.fns[i](handler)
	}
	return handler
}
