package commands

import (
	"errors"
	"flag"
	"fmt"

	"github.com/erraggy/rulezod/compiler"
	"github.com/erraggy/rulezod/internal/cliutil"
)

// InspectFlags contains flags for the inspect command
type InspectFlags struct {
	sharedFlags

	Format string
	Schema string
}

// SetupInspectFlags creates and configures a FlagSet for the inspect command.
func SetupInspectFlags() (*flag.FlagSet, *InspectFlags) {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flags := &InspectFlags{}
	flags.register(fs)

	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Schema, "schema", "", "only show the named schema")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: rulezod inspect [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Show the resolved rules, types and messages of every schema.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  rulezod inspect classes.yaml\n")
		cliutil.Writef(fs.Output(), "  rulezod inspect -format json classes.yaml\n")
		cliutil.Writef(fs.Output(), "  rulezod inspect -schema UserDataSchema -format yaml classes.yaml\n")
	}

	return fs, flags
}

// HandleInspect executes the inspect command
func HandleInspect(args []string) error {
	fs, flags := SetupInspectFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("inspect command requires exactly one file path or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := flags.loadConfig(fs)
	if err != nil {
		return err
	}
	input, err := inputOption(fs.Arg(0))
	if err != nil {
		return err
	}
	opts := append(cfg.Options(),
		input,
		compiler.WithStrictMode(false),
		compiler.WithLogger(flags.logger()),
	)

	result, err := compiler.InspectWithOptions(opts...)
	if err != nil {
		return fmt.Errorf("inspecting manifest: %w", err)
	}

	if flags.Schema != "" {
		s := result.Schema(flags.Schema)
		if s == nil {
			return fmt.Errorf("schema %q not found", flags.Schema)
		}
		result.Schemas = []compiler.SchemaReport{*s}
	}

	if flags.Format != FormatText {
		return OutputStructured(stdout, result, flags.Format)
	}

	for _, s := range result.Schemas {
		cliutil.Writef(stdout, "%s (%s, %s, %s)\n", s.Name, s.Class, s.Kind, cliutil.Plural(len(s.Fields), "field"))
		if len(s.Dependencies) > 0 {
			cliutil.Writef(stdout, "  depends on: %v\n", s.Dependencies)
		}
		for _, f := range s.Fields {
			cliutil.Writef(stdout, "  %s: %s%s\n", f.Path, f.Type, fieldFlags(f))
			for _, r := range f.Rules {
				line := r.Rule
				if len(r.Params) > 0 {
					line += fmt.Sprintf(" %v", r.Params)
				}
				if r.Deferred {
					line += " (object refinement)"
				}
				if r.Message != "" {
					line += fmt.Sprintf(" %q", r.Message)
				}
				cliutil.Writef(stdout, "    - %s\n", line)
			}
		}
		cliutil.Writef(stdout, "\n")
	}
	printIssues(stdout, result.Issues)
	return nil
}

func fieldFlags(f compiler.FieldReport) string {
	out := ""
	if f.Ref != "" {
		out += " -> " + f.Ref
	}
	if f.Required {
		out += " required"
	}
	if f.Nullable {
		out += " nullable"
	}
	if f.Optional {
		out += " optional"
	}
	return out
}
