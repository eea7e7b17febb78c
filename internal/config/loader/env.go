package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvLoader loads configuration from prefixed environment variables.
// LAREK_API_BASE_URL becomes api.baseUrl.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "LAREK_")
	mapping map[string]string // Env var -> config path
	environ func() []string
}

// NewEnvLoader creates a loader over the process environment.
// The prefix should include the trailing underscore (e.g., "LAREK_").
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		environ: os.Environ,
	}
}

// NewEnvLoaderFromList creates a loader over a fixed KEY=VALUE list.
func NewEnvLoaderFromList(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.environ = func() []string { return environ }
	return l
}

// defaultEnvMapping returns variables whose path does not follow the
// SECTION_SETTING_NAME convention.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "API":       "api.baseUrl",
		prefix + "CDN":       "api.cdnUrl",
		prefix + "LOG_LEVEL": "log.level",
		prefix + "SCRIPTS":   "plugins.scripts",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load reads the environment and returns a configuration map.
// Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		SetByPath(config, path, parseValue(path, value))
	}

	return config, nil
}

// envToPath converts LAREK_API_BASE_URL to api.baseUrl.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	section := strings.ToLower(parts[0])
	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if len(part) > 0 {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// parseValue converts an environment string into a config value.
// Lists are comma separated; "true"/"false" become booleans and integers
// become ints. Durations are left as strings for the decoder.
func parseValue(path, s string) any {
	if strings.HasSuffix(path, "scripts") {
		if s == "" {
			return []any{}
		}
		var out []any
		for _, item := range strings.Split(s, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// DotEnvLoader loads prefixed variables from a .env file without touching
// the process environment.
type DotEnvLoader struct {
	fs     FileSystem
	path   string
	prefix string
}

// NewDotEnvLoader creates a .env loader.
func NewDotEnvLoader(fsys FileSystem, path, prefix string) *DotEnvLoader {
	return &DotEnvLoader{fs: fsys, path: path, prefix: prefix}
}

// Load parses the file. A missing file yields nil, nil.
func (l *DotEnvLoader) Load() (map[string]any, error) {
	data, err := l.fs.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading env file %s: %w", l.path, err)
	}

	vars, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Path: l.path, Message: err.Error(), Err: err}
	}

	list := make([]string, 0, len(vars))
	for k, v := range vars {
		list = append(list, k+"="+v)
	}
	return NewEnvLoaderFromList(l.prefix, list).Load()
}
