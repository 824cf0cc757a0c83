package middleware

import (
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"
)

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	Enabled bool     `toml:"enabled"`
	Origins []string `toml:"origins"`
	Methods []string `toml:"methods"`
	Headers []string `toml:"headers"`
	MaxAge  int      `toml:"max_age"`
}

// CORSEnv maps CORS config fields to environment variable names.
type CORSEnv struct {
	Enabled string
	Origins string
}

// Finalize applies defaults and environment variable overrides.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	if len(c.Methods) == 0 {
		c.Methods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.Headers) == 0 {
		c.Headers = []string{"Content-Type", "Authorization"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
	if env == nil {
		return nil
	}
	if v := os.Getenv(env.Enabled); v != "" {
		c.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv(env.Origins); v != "" {
		c.Origins = splitList(v)
	}
	return nil
}

// Merge overwrites fields from overlay. Enabled always applies; slice and
// int fields apply only when set.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.Methods != nil {
		c.Methods = overlay.Methods
	}
	if overlay.Headers != nil {
		c.Headers = overlay.Headers
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

// CORS returns middleware applying the configured CORS policy. Passes
// through without headers when disabled or no origins are configured.
func CORS(cfg *CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled || len(cfg.Origins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if slices.Contains(cfg.Origins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.Methods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.Headers, ", "))
				w.Header().Set("Access-Control-Max-Age", fmt.Sprintf("%d", cfg.MaxAge))
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
