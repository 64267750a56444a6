// Package commands provides CLI command handlers for rulezod.
package commands

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/rulezod/compiler"
	"github.com/erraggy/rulezod/emitter"
	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/internal/config"
	"github.com/erraggy/rulezod/logging"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// stdin is replaced in tests.
var stdin io.Reader = os.Stdin

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// MarshalStructured marshals data in the specified format (json or yaml).
func MarshalStructured(data any, format string) ([]byte, error) {
	var out []byte
	var err error

	switch format {
	case FormatJSON:
		out, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		out, err = yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("invalid format for structured output: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("marshaling to %s: %w", format, err)
	}
	return out, nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	out, err := MarshalStructured(data, format)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(string(out), "\n"))
	return err
}

// FormatManifestPath returns a display-friendly path for the manifest.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatManifestPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// inputOption returns the compiler input option for a manifest path or stdin.
func inputOption(path string) (compiler.Option, error) {
	if path != StdinFilePath {
		return compiler.WithManifestPath(path), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return compiler.WithManifestData(data), nil
}

// sharedFlags are the compile flags common to generate and inspect.
type sharedFlags struct {
	Config     string
	Target     string
	Style      string
	Namespace  string
	Suffix     string
	Locale     string
	NoMessages bool
	Verbose    bool
}

func (s *sharedFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.Config, "config", "", "config file (default: ./"+config.DefaultFile+" when present)")
	fs.StringVar(&s.Target, "target", emitter.DefaultTarget, "emitter target ("+strings.Join(emitter.Targets(), ", ")+")")
	fs.StringVar(&s.Style, "style", string(emitter.StyleModule), "output style: module or namespace")
	fs.StringVar(&s.Namespace, "namespace", emitter.DefaultNamespace, "namespace identifier for --style namespace")
	fs.StringVar(&s.Suffix, "suffix", extractor.DefaultSchemaSuffix, "suffix appended to schema names")
	fs.StringVar(&s.Locale, "locale", "en", "locale of default validation messages")
	fs.BoolVar(&s.NoMessages, "no-messages", false, "don't attach default validation messages")
	fs.BoolVar(&s.Verbose, "v", false, "log debug output to stderr")
}

// loadConfig loads the config file and lets explicitly set flags override it.
func (s *sharedFlags) loadConfig(fs *flag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(s.Config)
	if err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "target":
			cfg.Target = s.Target
		case "style":
			cfg.OutputStyle = s.Style
		case "namespace":
			cfg.Namespace = s.Namespace
		case "suffix":
			cfg.SchemaSuffix = s.Suffix
		case "locale":
			cfg.Locale = s.Locale
		case "no-messages":
			cfg.Messages = !s.NoMessages
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *sharedFlags) logger() logging.Logger {
	if !s.Verbose {
		return logging.NopLogger{}
	}
	return logging.NewText(os.Stderr, slog.LevelDebug)
}
