package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "check":
		if err := runCheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("sitepatch %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`sitepatch - content editor backend for cPanel hosted sites

Usage:
  sitepatch [command]

Commands:
  serve         Start the HTTP server (default)
  check         Run the cPanel connection test and exit
  version       Print the sitepatch version
  help          Show this help message

Configuration is read from the environment (and a .env file if present):
  PORT              Listen port (default 3000)
  CPANEL_URL        cPanel base URL, e.g. https://host.example.com:2083 (required)
  CPANEL_USER       cPanel account name (required)
  CPANEL_PASSWORD   cPanel account password (required)
  CPANEL_DIR        Directory holding the site (default public_html)
  CPANEL_TIMEOUT    Timeout per cPanel call (default 15s)
  BLOG_SCRIPT_PATH  Blog script inside CPANEL_DIR (default assets/js/blog.js)
  PAGES_FILE        YAML file with the page stylesheet table
  PROBE_FILE        File read by the connection test (default about.html)
  BODY_LIMIT        Max request body size (default 4M)
  METRICS_ENABLED   Serve /metrics (default true)`)
}
