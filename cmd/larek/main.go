// Package main is the entry point for the Larek terminal storefront.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/larek/internal/app"
	"github.com/dshills/larek/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: larek needs an interactive terminal")
		return 1
	}

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		<-signals
		application.Shutdown()
	}()

	if err := application.Run(); err != nil {
		if errors.Is(err, app.ErrQuit) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags() app.Options {
	var (
		configPath  string
		apiURL      string
		cdnURL      string
		logLevel    string
		logFile     string
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&apiURL, "api", "", "Commerce API base URL")
	flag.StringVar(&cdnURL, "cdn", "", "Image CDN base URL")
	flag.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Log file path")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Larek - terminal storefront\n\n")
		fmt.Fprintf(os.Stderr, "Usage: larek [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  larek                                   Use the default config\n")
		fmt.Fprintf(os.Stderr, "  larek -api http://localhost:8080/api    Talk to a local stub\n")
		fmt.Fprintf(os.Stderr, "  larek -log-level debug -log-file x.log  Debug logging\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("Larek %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if logLevel != "" {
		switch logLevel {
		case "debug", "info", "warn", "error":
			// Valid
		default:
			fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", logLevel)
			os.Exit(1)
		}
	}

	// Flags win over every other configuration layer.
	cfgOpts := []config.Option{config.WithFile(configPath)}
	for path, value := range map[string]string{
		"api.baseUrl": apiURL,
		"api.cdnUrl":  cdnURL,
		"log.level":   logLevel,
		"log.file":    logFile,
	} {
		if value != "" {
			cfgOpts = append(cfgOpts, config.WithOverride(path, value))
		}
	}

	return app.Options{ConfigOptions: cfgOpts}
}
