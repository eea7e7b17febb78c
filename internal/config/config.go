package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dshills/larek/internal/config/loader"
)

// DefaultEnvPrefix is the prefix of recognised environment variables.
const DefaultEnvPrefix = "LAREK_"

// Config is the complete storefront configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
	UI      UIConfig      `yaml:"ui"`
	Plugins PluginsConfig `yaml:"plugins"`
}

// APIConfig configures the commerce API client.
type APIConfig struct {
	BaseURL   string        `yaml:"baseUrl" validate:"required,url"`
	CDNURL    string        `yaml:"cdnUrl" validate:"omitempty,url"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
	RateLimit float64       `yaml:"rateLimit" validate:"gte=0"`
	Burst     int           `yaml:"burst" validate:"gte=1"`
}

// LogConfig configures the application log.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	File   string `yaml:"file"`
}

// UIConfig configures presentation.
type UIConfig struct {
	// Locale selects digit grouping for prices (BCP 47 tag).
	Locale string `yaml:"locale" validate:"required"`
	// Currency is the unit word printed after prices.
	Currency string `yaml:"currency" validate:"required"`
	// Priceless is printed for products without a price.
	Priceless string `yaml:"priceless" validate:"required"`
	// Columns is the number of cards per catalog row.
	Columns int `yaml:"columns" validate:"gte=1,lte=6"`
}

// PluginsConfig configures Lua event hooks.
type PluginsConfig struct {
	Scripts []string      `yaml:"scripts"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "http://localhost:8080/api/weblarek",
			CDNURL:    "http://localhost:8080/content/weblarek",
			Timeout:   10 * time.Second,
			RateLimit: 10,
			Burst:     5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(os.TempDir(), "larek.log"),
		},
		UI: UIConfig{
			Locale:    "en",
			Currency:  "synapses",
			Priceless: "Priceless",
			Columns:   3,
		},
		Plugins: PluginsConfig{
			Scripts: []string{},
			Timeout: time.Second,
		},
	}
}

// DefaultPath returns the user config file path, or "" if the user config
// directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "larek", "config.toml")
}

type override struct {
	path  string
	value any
}

type options struct {
	fs        loader.FileSystem
	file      string
	explicit  bool
	dotenv    string
	envPrefix string
	environ   []string
	useOSEnv  bool
	overrides []override
}

// Option configures Load.
type Option func(*options)

// WithFile loads path instead of the default config file.
// Unlike the default file, an explicit file must exist.
func WithFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.file = path
			o.explicit = true
		}
	}
}

// WithFS sets the file system used for the config and .env files.
func WithFS(fsys loader.FileSystem) Option {
	return func(o *options) {
		o.fs = fsys
	}
}

// WithDotEnv sets the .env file path. An empty path disables the layer.
func WithDotEnv(path string) Option {
	return func(o *options) {
		o.dotenv = path
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithEnviron replaces the process environment with a KEY=VALUE list.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
		o.useOSEnv = false
	}
}

// WithOverride sets a single setting with the highest precedence.
func WithOverride(path string, value any) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, override{path: path, value: value})
	}
}

// Load assembles, decodes and validates the configuration.
func Load(opts ...Option) (*Config, error) {
	o := &options{
		fs:        loader.DefaultFS(),
		file:      DefaultPath(),
		dotenv:    ".env",
		envPrefix: DefaultEnvPrefix,
		useOSEnv:  true,
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.explicit {
		if _, err := o.fs.Stat(o.file); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, o.file)
		}
	}

	merged, err := toMap(Defaults())
	if err != nil {
		return nil, err
	}

	for _, l := range o.loaders() {
		data, err := l.Load()
		if err != nil {
			return nil, err
		}
		merged = loader.DeepMerge(merged, data)
	}

	for _, ov := range o.overrides {
		loader.SetByPath(merged, ov.path, ov.value)
	}

	cfg, err := fromMap(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) loaders() []loader.Loader {
	var ls []loader.Loader
	if o.file != "" {
		ls = append(ls, loader.NewFileLoaderWithFS(o.fs, o.file))
	}
	if o.dotenv != "" {
		ls = append(ls, loader.NewDotEnvLoader(o.fs, o.dotenv, o.envPrefix))
	}
	if o.useOSEnv {
		ls = append(ls, loader.NewEnvLoader(o.envPrefix))
	} else {
		ls = append(ls, loader.NewEnvLoaderFromList(o.envPrefix, o.environ))
	}
	return ls
}

// toMap converts a typed configuration into its nested map form.
func toMap(cfg Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	return m, nil
}

// fromMap decodes a merged map into a Config.
func fromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, &ParseError{Path: "merged configuration", Message: err.Error(), Err: err}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: "merged configuration", Message: err.Error(), Err: err}
	}
	if cfg.Plugins.Scripts == nil {
		cfg.Plugins.Scripts = []string{}
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks every setting and reports all failures at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		// Namespace is "Config.api.baseUrl"; drop the root type name.
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		ve.Fields = append(ve.Fields, FieldError{Path: path, Rule: fe.Tag(), Value: fe.Value()})
	}
	return ve
}
