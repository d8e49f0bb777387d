// Package sitepatch is the backend of a content editor for a statically
// hosted site. It reads pages over the cPanel file manager API, splices
// edited body content and page stylesheets into them and writes them back,
// and appends new articles to the site's blog script.
//
// The App wires the remote file client, the page stylesheet table, the
// handlers and the middleware onto an Echo instance.
package sitepatch

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	glog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eringen/sitepatch/cpanel"
)

// RemoteFiles is the file store the handlers work against. *cpanel.Client
// implements it.
type RemoteFiles interface {
	ReadFile(ctx context.Context, name string) (string, error)
	WriteFile(ctx context.Context, name, content string) error
	Diagnose(ctx context.Context, probeFile string) (cpanel.Report, error)
}

// App is the central sitepatch application.
type App struct {
	Config Config
	Echo   *echo.Echo
	Files  RemoteFiles
	Pages  PageTable

	registry     *prometheus.Registry
	customRoutes []func(*App)
	ready        bool
}

// New creates a new App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:   cfg,
		Echo:     echo.New(),
		registry: prometheus.NewRegistry(),
	}
	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(glog.INFO)

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init builds the remote client and page table if they were not injected,
// then registers middleware and routes. It is called by Start and may be
// called directly to serve requests without listening.
func (a *App) Init() error {
	if a.ready {
		return nil
	}

	var metrics *cpanel.Metrics
	if !a.Config.MetricsDisabled {
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics = cpanel.NewMetrics(a.registry)
	}

	if a.Files == nil {
		if err := a.Config.validate(); err != nil {
			return err
		}
		a.Files = cpanel.New(cpanel.Config{
			BaseURL:   a.Config.CPanelURL,
			Username:  a.Config.CPanelUser,
			Password:  a.Config.CPanelPassword,
			Directory: a.Config.CPanelDir,
			Timeout:   a.Config.CPanelTimeout,
		}, cpanel.WithLogger(a.Echo.Logger), cpanel.WithMetrics(metrics))
	}

	if a.Pages == nil {
		if a.Config.PagesFile != "" {
			pages, err := LoadPages(a.Config.PagesFile)
			if err != nil {
				return fmt.Errorf("sitepatch: load pages: %w", err)
			}
			a.Pages = pages
		} else {
			a.Pages = DefaultPages()
		}
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}

	a.Echo.Logger.Infof("sitepatch listening on %s (cPanel %s, dir %s)", a.Config.Addr, a.Config.CPanelURL, a.Config.CPanelDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/", a.handleIndex)
	e.GET("/healthz", handleHealth)
	e.GET("/pages", a.handlePages)

	// Editor API
	e.POST("/save", a.handleSave)
	e.GET("/edit/:filename", a.handleEdit)
	e.POST("/save-blog-article", a.handleSaveBlogArticle)
	e.GET("/test-cpanel", a.handleTestCPanel)

	if !a.Config.MetricsDisabled {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: a.registry,
		}))
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("sitepatch: required environment variable %s is not set", key)
	}
	return v
}
