// Package config loads CLI defaults from a rulezod.yaml file and RULEZOD_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/rulezod/compiler"
	"github.com/erraggy/rulezod/emitter"
	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/rzerrors"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "rulezod.yaml"

// Config holds the named options of a compile run.
type Config struct {
	Target         string   `yaml:"target"`
	OutputStyle    string   `yaml:"output_style"`
	Namespace      string   `yaml:"namespace"`
	ImportAppTypes bool     `yaml:"import_app_types"`
	AppTypesPath   string   `yaml:"app_types_path"`
	SchemaSuffix   string   `yaml:"schema_suffix"`
	Extractors     []string `yaml:"extractors"`
	Handlers       []string `yaml:"handlers"`
	Locale         string   `yaml:"locale"`
	Messages       bool     `yaml:"messages"`
	SplitFiles     bool     `yaml:"split_files"`
	OutputFile     string   `yaml:"output_file"`
	Strict         bool     `yaml:"strict"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Target:       emitter.DefaultTarget,
		OutputStyle:  string(emitter.StyleModule),
		Namespace:    emitter.DefaultNamespace,
		AppTypesPath: emitter.DefaultAppTypesPath,
		SchemaSuffix: extractor.DefaultSchemaSuffix,
		Locale:       "en",
		Messages:     true,
		OutputFile:   compiler.DefaultOutputFile,
	}
}

// Load reads path over the defaults and applies environment overrides. An
// empty path reads DefaultFile when it exists.
func Load(path string) (*Config, error) {
	c := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := c.decode(data); err != nil {
			return nil, &rzerrors.ConfigError{Option: "config", Value: path, Message: "cannot decode config file", Cause: err}
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return nil, &rzerrors.ConfigError{Option: "config", Value: path, Message: "cannot read config file", Cause: err}
	}

	c.ApplyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from RULEZOD_* variables. Invalid values log a
// warning and keep the current value.
func (c *Config) ApplyEnv() {
	c.Target = envString("RULEZOD_TARGET", c.Target)
	c.OutputStyle = envStyle("RULEZOD_OUTPUT_STYLE", c.OutputStyle)
	c.Namespace = envString("RULEZOD_NAMESPACE", c.Namespace)
	c.ImportAppTypes = envBool("RULEZOD_IMPORT_APP_TYPES", c.ImportAppTypes)
	c.AppTypesPath = envString("RULEZOD_APP_TYPES_PATH", c.AppTypesPath)
	c.SchemaSuffix = envString("RULEZOD_SCHEMA_SUFFIX", c.SchemaSuffix)
	c.Extractors = envList("RULEZOD_EXTRACTORS", c.Extractors)
	c.Handlers = envList("RULEZOD_HANDLERS", c.Handlers)
	c.Locale = envString("RULEZOD_LOCALE", c.Locale)
	c.Messages = envBool("RULEZOD_MESSAGES", c.Messages)
	c.SplitFiles = envBool("RULEZOD_SPLIT_FILES", c.SplitFiles)
	c.OutputFile = envString("RULEZOD_OUTPUT_FILE", c.OutputFile)
	c.Strict = envBool("RULEZOD_STRICT", c.Strict)
}

// Validate checks values that the compiler would reject late.
func (c *Config) Validate() error {
	if _, err := emitter.ParseStyle(c.OutputStyle); err != nil {
		return err
	}
	if c.Namespace == "" {
		return &rzerrors.ConfigError{Option: "namespace", Message: "cannot be empty"}
	}
	return nil
}

// Options converts the config into compiler options. Input sources are not
// part of the config.
func (c *Config) Options() []compiler.Option {
	style, _ := emitter.ParseStyle(c.OutputStyle)
	opts := []compiler.Option{
		compiler.WithTarget(c.Target),
		compiler.WithOutputStyle(style),
		compiler.WithNamespace(c.Namespace),
		compiler.WithAppTypes(c.ImportAppTypes, c.AppTypesPath),
		compiler.WithSchemaSuffix(c.SchemaSuffix),
		compiler.WithExtractors(c.Extractors...),
		compiler.WithHandlers(c.Handlers...),
		compiler.WithDefaultMessages(c.Messages),
		compiler.WithSplitFiles(c.SplitFiles),
		compiler.WithStrictMode(c.Strict),
	}
	if c.Locale != "" {
		opts = append(opts, compiler.WithLocale(c.Locale))
	}
	if c.OutputFile != "" {
		opts = append(opts, compiler.WithOutputFile(c.OutputFile))
	}
	return opts
}

// String renders the config as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(data)
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envStyle(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if _, err := emitter.ParseStyle(v); err != nil {
		slog.Warn("invalid output style env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return v
}
