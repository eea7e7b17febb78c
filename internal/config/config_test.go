package config

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/larek/internal/config/loader"
)

func load(t *testing.T, memfs *loader.MemFS, opts ...Option) *Config {
	t.Helper()
	base := []Option{
		WithFS(memfs),
		WithFile(""),
		WithDotEnv("/.env"),
		WithEnviron(nil),
	}
	cfg, err := Load(append(base, opts...)...)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, loader.NewMemFS())
	want := Defaults()

	if !reflect.DeepEqual(cfg.API, want.API) {
		t.Errorf("API = %+v, want %+v", cfg.API, want.API)
	}
	if cfg.UI != want.UI {
		t.Errorf("UI = %+v, want %+v", cfg.UI, want.UI)
	}
	if cfg.Plugins.Timeout != time.Second {
		t.Errorf("Plugins.Timeout = %v, want 1s", cfg.Plugins.Timeout)
	}
	if cfg.Plugins.Scripts == nil {
		t.Error("Plugins.Scripts should be non-nil")
	}
}

func TestLoad_Precedence(t *testing.T) {
	memfs := loader.NewMemFS()
	memfs.AddFile("/larek.toml", `
[api]
baseUrl = "http://file.test/api"
cdnUrl = "http://file.test/cdn"
timeout = "4s"
burst = 2

[log]
level = "warn"
`)
	memfs.AddFile("/.env", `
LAREK_API_CDN_URL=http://dotenv.test/cdn
LAREK_API_BURST=3
LAREK_LOG_LEVEL=error
`)

	cfg := load(t, memfs,
		WithFile("/larek.toml"),
		WithEnviron([]string{
			"LAREK_API_BURST=4",
			"LAREK_LOG_LEVEL=debug",
		}),
		WithOverride("log.level", "info"),
	)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file overrides default", cfg.API.BaseURL, "http://file.test/api"},
		{"file duration", cfg.API.Timeout, 4 * time.Second},
		{"dotenv overrides file", cfg.API.CDNURL, "http://dotenv.test/cdn"},
		{"env overrides dotenv", cfg.API.Burst, 4},
		{"override wins", cfg.Log.Level, "info"},
		{"default survives", cfg.API.RateLimit, 10.0},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	memfs := loader.NewMemFS()
	memfs.AddFile("/larek.yaml", `
ui:
  currency: credits
  columns: 2
plugins:
  scripts: [audit.lua]
  timeout: 250ms
`)

	cfg := load(t, memfs, WithFile("/larek.yaml"))
	if cfg.UI.Currency != "credits" || cfg.UI.Columns != 2 {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if !reflect.DeepEqual(cfg.Plugins.Scripts, []string{"audit.lua"}) {
		t.Errorf("Scripts = %v", cfg.Plugins.Scripts)
	}
	if cfg.Plugins.Timeout != 250*time.Millisecond {
		t.Errorf("Timeout = %v", cfg.Plugins.Timeout)
	}
	if cfg.UI.Locale != "en" {
		t.Errorf("Locale = %q, default should survive", cfg.UI.Locale)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(WithFS(loader.NewMemFS()), WithFile("/missing.toml"), WithEnviron(nil))
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	memfs := loader.NewMemFS()
	memfs.AddFile("/larek.toml", "[api\n")

	_, err := Load(WithFS(memfs), WithFile("/larek.toml"), WithEnviron(nil))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLoad_DecodeError(t *testing.T) {
	_, err := Load(
		WithFS(loader.NewMemFS()),
		WithEnviron([]string{"LAREK_API_BURST=many"}),
	)
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLoad_Validation(t *testing.T) {
	_, err := Load(
		WithFS(loader.NewMemFS()),
		WithEnviron([]string{
			"LAREK_API=not a url",
			"LAREK_LOG_FORMAT=xml",
			"LAREK_UI_COLUMNS=9",
		}),
	)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	for _, path := range []string{"api.baseUrl", "log.format", "ui.columns"} {
		if !verr.Has(path) {
			t.Errorf("expected %s to fail validation; got %v", path, verr.Fields)
		}
	}
	if len(verr.Fields) != 3 {
		t.Errorf("fields = %v, want 3 failures", verr.Fields)
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}

	cfg.API.Timeout = 0
	cfg.API.Burst = 0
	err := cfg.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if !verr.Has("api.timeout") || !verr.Has("api.burst") {
		t.Errorf("fields = %v", verr.Fields)
	}
}
