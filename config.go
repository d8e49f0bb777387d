package sitepatch

import (
	"errors"
	"time"
)

// Config holds all configuration for a sitepatch server.
type Config struct {
	Addr string // Listen address (default ":3000")

	CPanelURL      string        // Required: cPanel base URL, e.g. https://host:2083
	CPanelUser     string        // Required: cPanel account name
	CPanelPassword string        // Required: cPanel account password
	CPanelDir      string        // Directory edited pages live in (default "public_html")
	CPanelTimeout  time.Duration // Per-call timeout for the cPanel API (default 15s)

	BlogScriptPath string // Blog script relative to CPanelDir (default "assets/js/blog.js")
	PagesFile      string // Optional YAML file replacing the built-in page stylesheet table
	ProbeFile      string // File read by /test-cpanel (default "about.html")
	BodyLimit      string // Max request body size (default "4M")

	MetricsDisabled bool // Disable /metrics and request metrics
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.CPanelDir == "" {
		c.CPanelDir = "public_html"
	}
	if c.CPanelTimeout == 0 {
		c.CPanelTimeout = 15 * time.Second
	}
	if c.BlogScriptPath == "" {
		c.BlogScriptPath = "assets/js/blog.js"
	}
	if c.ProbeFile == "" {
		c.ProbeFile = "about.html"
	}
	if c.BodyLimit == "" {
		c.BodyLimit = "4M"
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.CPanelURL == "" {
		errs = append(errs, errors.New("sitepatch: CPanelURL is required"))
	}
	if c.CPanelUser == "" {
		errs = append(errs, errors.New("sitepatch: CPanelUser is required"))
	}
	if c.CPanelPassword == "" {
		errs = append(errs, errors.New("sitepatch: CPanelPassword is required"))
	}
	return errors.Join(errs...)
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithRemoteFiles replaces the cPanel client with f.
func WithRemoteFiles(f RemoteFiles) Option {
	return func(a *App) {
		a.Files = f
	}
}

// WithPages replaces the page stylesheet table.
func WithPages(p PageTable) Option {
	return func(a *App) {
		a.Pages = p
	}
}
