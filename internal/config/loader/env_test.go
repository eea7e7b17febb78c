package loader

import (
	"reflect"
	"testing"
)

func TestEnvLoader_Load(t *testing.T) {
	l := NewEnvLoaderFromList("LAREK_", []string{
		"LAREK_API_BASE_URL=http://env.test/api",
		"LAREK_API_BURST=1",
		"LAREK_API_RATE_LIMIT=2.5",
		"LAREK_LOG_LEVEL=debug",
		"LAREK_UI_DEBUG=true",
		"LAREK_SCRIPTS=a.lua, b.lua",
		"OTHER_API_BASE_URL=ignored",
		"LAREK_=ignored",
	})

	config, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path string
		want any
	}{
		{"api.baseUrl", "http://env.test/api"},
		{"api.burst", int64(1)},
		{"api.rateLimit", 2.5},
		{"log.level", "debug"},
		{"ui.debug", true},
		{"plugins.scripts", []any{"a.lua", "b.lua"}},
	}
	for _, tt := range tests {
		got, ok := GetByPath(config, tt.path)
		if !ok {
			t.Errorf("%s missing", tt.path)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s = %v (%T), want %v (%T)", tt.path, got, got, tt.want, tt.want)
		}
	}

	if len(config) != 4 {
		t.Errorf("sections = %v, want api, log, ui, plugins", config)
	}
}

func TestEnvLoader_ShortForms(t *testing.T) {
	l := NewEnvLoaderFromList("LAREK_", []string{
		"LAREK_API=http://a.test",
		"LAREK_CDN=http://c.test",
	})
	config, _ := l.Load()

	if v, _ := GetByPath(config, "api.baseUrl"); v != "http://a.test" {
		t.Errorf("api.baseUrl = %v", v)
	}
	if v, _ := GetByPath(config, "api.cdnUrl"); v != "http://c.test" {
		t.Errorf("api.cdnUrl = %v", v)
	}
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := NewEnvLoaderFromList("LAREK_", []string{"LAREK_ENDPOINT=http://x.test"})
	l.AddMapping("LAREK_ENDPOINT", "api.baseUrl")

	config, _ := l.Load()
	if v, _ := GetByPath(config, "api.baseUrl"); v != "http://x.test" {
		t.Errorf("api.baseUrl = %v", v)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		path string
		in   string
		want any
	}{
		{"api.burst", "0", int64(0)},
		{"api.burst", "1", int64(1)},
		{"ui.debug", "yes", true},
		{"ui.debug", "Off", false},
		{"api.timeout", "5s", "5s"},
		{"api.rateLimit", "0.5", 0.5},
		{"api.baseUrl", "http://a.test", "http://a.test"},
		{"plugins.scripts", "", []any{}},
	}
	for _, tt := range tests {
		if got := parseValue(tt.path, tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseValue(%q, %q) = %v (%T), want %v", tt.path, tt.in, got, got, tt.want)
		}
	}
}

func TestDotEnvLoader(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/.env", `
# local overrides
LAREK_API_TIMEOUT=3s
LAREK_LOG_FORMAT="json"
UNRELATED=1
`)

	config, err := NewDotEnvLoader(memfs, "/.env", "LAREK_").Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if v, _ := GetByPath(config, "api.timeout"); v != "3s" {
		t.Errorf("api.timeout = %v", v)
	}
	if v, _ := GetByPath(config, "log.format"); v != "json" {
		t.Errorf("log.format = %v", v)
	}
	if _, ok := config["unrelated"]; ok {
		t.Error("unprefixed variable should be ignored")
	}
}

func TestDotEnvLoader_Missing(t *testing.T) {
	config, err := NewDotEnvLoader(NewMemFS(), "/.env", "LAREK_").Load()
	if err != nil || config != nil {
		t.Errorf("Load() = %v, %v; want nil, nil", config, err)
	}
}
