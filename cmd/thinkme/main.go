package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	thinkme "github.com/namravamja/thinkme"
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
	case "version":
		fmt.Printf("thinkme %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	// Optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := thinkme.SiteConfig{
		Name:          thinkme.EnvOr("SITE_NAME", "thinkme"),
		URL:           thinkme.EnvOr("SITE_URL", "http://localhost:8000"),
		Description:   thinkme.EnvOr("SITE_DESCRIPTION", "Stories, thinking, and expertise from writers on any topic."),
		Addr:          thinkme.EnvOr("ADDR", ":8000"),
		DatabasePath:  thinkme.EnvOr("DATABASE_PATH", "data/thinkme.db"),
		SessionSecret: thinkme.MustEnv("SESSION_SECRET"),
		CookieSecure:  os.Getenv("COOKIE_SECURE") == "true",
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	var opts []thinkme.Option
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		opts = append(opts, thinkme.WithStaticDir(dir))
	}

	app := thinkme.New(cfg, thinkme.DefaultViews(cfg), opts...)
	defer app.Close()
	return app.Start()
}

func printUsage() {
	fmt.Println(`thinkme - A blog platform built with Go, Echo, and templ

Usage:
  thinkme [command]

Commands:
  serve         Start the server (default)
  version       Print the thinkme version
  help          Show this help message

Environment:
  SESSION_SECRET   Required. Session cookie encryption secret.
  SITE_NAME        Site name shown in titles (default "thinkme")
  SITE_URL         Canonical URL (default "http://localhost:8000")
  ADDR             Listen address (default ":8000")
  DATABASE_PATH    SQLite database path (default "data/thinkme.db")
  COOKIE_SECURE    Set "true" when serving over HTTPS
  ALLOWED_ORIGINS  Comma-separated CORS origins (default SITE_URL)
  STATIC_DIR       Static assets directory (default "public")`)
}
