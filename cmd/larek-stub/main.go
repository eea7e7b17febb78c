// Package main runs the stub commerce API used for local development.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dshills/larek/internal/apistub"
	"github.com/dshills/larek/internal/model"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		addr        string
		base        string
		catalogPath string
		cdnPrefix   string
		jsonLogs    bool
	)
	flag.StringVar(&addr, "addr", ":8080", "Listen address")
	flag.StringVar(&base, "base", "/api/weblarek", "Path the API is served under")
	flag.StringVar(&catalogPath, "catalog", "", "Catalog file (YAML or JSON); the built-in catalog when empty")
	flag.StringVar(&cdnPrefix, "cdn-prefix", "", "Prefix added to product image paths")
	flag.BoolVar(&jsonLogs, "json", false, "Log as JSON")
	flag.Parse()

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, nil)
	if jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	}
	logger := slog.New(handler)

	catalog := apistub.DefaultCatalog()
	if catalogPath != "" {
		var err error
		if catalog, err = apistub.LoadCatalog(catalogPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	stub := apistub.New(catalog,
		apistub.WithLogger(logger),
		apistub.WithImagePrefix(cdnPrefix),
	)

	base = "/" + strings.Trim(base, "/")
	mux := http.NewServeMux()
	if base == "/" {
		mux.Handle("/", stub.Handler())
	} else {
		mux.Handle(base+"/", http.StripPrefix(base, stub.Handler()))
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("stub API listening", "addr", addr, "base", base, "products", len(catalog), "priced", countPriced(catalog))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			return 1
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
			return 1
		}
		logger.Info("stub API stopped", "orders", len(stub.Orders()))
	}
	return 0
}

func countPriced(catalog []model.Product) int {
	n := 0
	for _, p := range catalog {
		if !p.Priceless() {
			n++
		}
	}
	return n
}
