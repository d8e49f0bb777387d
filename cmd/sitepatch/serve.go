package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"github.com/eringen/sitepatch"
	"github.com/eringen/sitepatch/cpanel"
)

// loadConfig builds the server configuration from the environment. A .env
// file in the working directory is loaded first; real environment variables
// take precedence over it.
func loadConfig() (sitepatch.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return sitepatch.Config{}, fmt.Errorf("load .env: %w", err)
	}

	timeout, err := time.ParseDuration(sitepatch.EnvOr("CPANEL_TIMEOUT", "15s"))
	if err != nil {
		return sitepatch.Config{}, fmt.Errorf("CPANEL_TIMEOUT: %w", err)
	}
	metrics, err := strconv.ParseBool(sitepatch.EnvOr("METRICS_ENABLED", "true"))
	if err != nil {
		return sitepatch.Config{}, fmt.Errorf("METRICS_ENABLED: %w", err)
	}

	return sitepatch.Config{
		Addr:            ":" + sitepatch.EnvOr("PORT", "3000"),
		CPanelURL:       sitepatch.MustEnv("CPANEL_URL"),
		CPanelUser:      sitepatch.MustEnv("CPANEL_USER"),
		CPanelPassword:  sitepatch.MustEnv("CPANEL_PASSWORD"),
		CPanelDir:       os.Getenv("CPANEL_DIR"),
		CPanelTimeout:   timeout,
		BlogScriptPath:  os.Getenv("BLOG_SCRIPT_PATH"),
		PagesFile:       os.Getenv("PAGES_FILE"),
		ProbeFile:       os.Getenv("PROBE_FILE"),
		BodyLimit:       os.Getenv("BODY_LIMIT"),
		MetricsDisabled: !metrics,
	}, nil
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app := sitepatch.New(cfg)
	return app.Start()
}

func runCheck() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Keep stdout for the report.
	logger := log.New("cpanel")
	logger.SetOutput(os.Stderr)
	logger.SetLevel(log.INFO)

	client := cpanel.New(cpanel.Config{
		BaseURL:   cfg.CPanelURL,
		Username:  cfg.CPanelUser,
		Password:  cfg.CPanelPassword,
		Directory: cfg.CPanelDir,
		Timeout:   cfg.CPanelTimeout,
	}, cpanel.WithLogger(logger))
	probe := cfg.ProbeFile
	if probe == "" {
		probe = "about.html"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	report, err := client.Diagnose(ctx, probe)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
