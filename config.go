package thinkme

import "time"

// SiteConfig holds all configuration for a thinkme deployment.
type SiteConfig struct {
	Name        string // Site name (default "thinkme")
	URL         string // Canonical URL (default "http://localhost:8000")
	Description string // Site description for meta tags

	Addr         string // Listen address (default ":8000")
	DatabasePath string // SQLite path (default "data/thinkme.db")

	SessionSecret string // Required: session cookie encryption secret
	CookieSecure  bool   // Set true for HTTPS

	// Origins allowed to call the JSON API with credentials. Defaults to
	// the canonical URL.
	AllowedOrigins []string

	BlogCacheTTL time.Duration // Blog list cache TTL (default 5min)
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "thinkme"
	}
	if c.URL == "" {
		c.URL = "http://localhost:8000"
	}
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/thinkme.db"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{c.URL}
	}
	if c.BlogCacheTTL == 0 {
		c.BlogCacheTTL = 5 * time.Minute
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and image uploads
// (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
