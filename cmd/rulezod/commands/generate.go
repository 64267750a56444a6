package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/erraggy/rulezod"
	"github.com/erraggy/rulezod/compiler"
	"github.com/erraggy/rulezod/internal/cliutil"
	"github.com/erraggy/rulezod/internal/fileutil"
)

// stdout and stderr are replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	sharedFlags

	Output     string
	OutputFile string
	Split      bool
	Archive    string
	Report     string
	AppTypes   bool
	Strict     bool
	NoWarnings bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}
	flags.register(fs)

	fs.StringVar(&flags.Output, "o", "", "output directory (default: write a single file to stdout)")
	fs.StringVar(&flags.Output, "output", "", "output directory (default: write a single file to stdout)")
	fs.StringVar(&flags.OutputFile, "file", compiler.DefaultOutputFile, "name of the single output file")
	fs.BoolVar(&flags.Split, "split", false, "write one file per schema plus an index (requires -o)")
	fs.StringVar(&flags.Archive, "archive", "", "also write all generated files as a txtar archive")
	fs.StringVar(&flags.Report, "report", "", "write a JSON compile report")
	fs.BoolVar(&flags.AppTypes, "app-types", false, "annotate data schemas with the application's generated types")
	fs.BoolVar(&flags.Strict, "strict", false, "fail on any compile issues (even warnings)")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress info messages")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: rulezod generate [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Compile a class manifest into Zod schemas.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  rulezod generate classes.yaml > schemas.ts\n")
		cliutil.Writef(fs.Output(), "  rulezod generate -o ./resources/js/schemas classes.yaml\n")
		cliutil.Writef(fs.Output(), "  rulezod generate --split -o ./schemas classes.yaml\n")
		cliutil.Writef(fs.Output(), "  rulezod generate --style namespace --namespace Forms -o ./schemas classes.json\n")
		cliutil.Writef(fs.Output(), "  rulezod generate --strict --report report.json -o ./schemas classes.yaml\n")
		cliutil.Writef(fs.Output(), "  cat classes.yaml | rulezod generate -\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Flags override %s and RULEZOD_* environment variables\n", "rulezod.yaml")
		cliutil.Writef(fs.Output(), "  - Without -o the summary is written to stderr\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one file path or '-' for stdin")
	}
	manifestPath := fs.Arg(0)

	cfg, err := flags.loadConfig(fs)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "split":
			cfg.SplitFiles = flags.Split
		case "strict":
			cfg.Strict = flags.Strict
		case "app-types":
			cfg.ImportAppTypes = flags.AppTypes
		case "file":
			cfg.OutputFile = flags.OutputFile
		}
	})
	if cfg.SplitFiles && flags.Output == "" {
		fs.Usage()
		return fmt.Errorf("--split requires an output directory (use -o or --output)")
	}

	input, err := inputOption(manifestPath)
	if err != nil {
		return err
	}
	opts := append(cfg.Options(),
		input,
		compiler.WithIncludeInfo(!flags.NoWarnings),
		compiler.WithLogger(flags.logger()),
	)

	startTime := time.Now()
	result, err := compiler.CompileWithOptions(opts...)
	totalTime := time.Since(startTime)
	if result != nil && flags.Report != "" {
		if werr := writeReport(flags.Report, result); werr != nil {
			return werr
		}
	}
	if err != nil {
		if result != nil {
			printIssues(stderr, result.Issues)
		}
		return fmt.Errorf("compiling manifest: %w", err)
	}

	// Code goes to stdout when no directory is given, so the summary moves to stderr.
	summary := stdout
	if flags.Output == "" {
		summary = stderr
	}

	cliutil.Heading(summary, "Rule Schema Compiler")
	cliutil.Writef(summary, "rulezod version: %s\n", rulezod.Version())
	cliutil.Writef(summary, "Manifest: %s\n", FormatManifestPath(manifestPath))
	cliutil.Writef(summary, "Target: %s\n", result.Target)
	cliutil.Writef(summary, "Schemas: %d\n", result.SchemaCount)
	cliutil.Writef(summary, "Fields: %d\n", result.FieldCount)
	cliutil.Writef(summary, "Total Time: %v\n\n", totalTime)

	printIssues(summary, result.Issues)

	if flags.Output == "" {
		for _, file := range result.Files {
			if _, err := stdout.Write(file.Content); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
		}
	} else {
		if err := RejectSymlinkOutput(filepath.Clean(flags.Output)); err != nil {
			return err
		}
		if err := result.WriteFiles(flags.Output); err != nil {
			return fmt.Errorf("writing files: %w", err)
		}
		cliutil.Writef(summary, "Generated Files (%d):\n", len(result.Files))
		for _, file := range result.Files {
			cliutil.Writef(summary, "  - %s (%d bytes)\n", filepath.Join(flags.Output, file.Name), len(file.Content))
		}
		cliutil.Writef(summary, "\n")
	}

	if flags.Archive != "" {
		if err := RejectSymlinkOutput(filepath.Clean(flags.Archive)); err != nil {
			return err
		}
		if err := result.WriteArchive(flags.Archive); err != nil {
			return fmt.Errorf("writing archive: %w", err)
		}
		cliutil.Writef(summary, "Archive: %s\n\n", flags.Archive)
	}

	if !result.Success {
		cliutil.Writef(summary, "✗ Compilation completed with %s\n", cliutil.Plural(result.CriticalCount, "critical issue"))
		return fmt.Errorf("compilation failed with %d critical issue(s)", result.CriticalCount)
	}
	cliutil.Writef(summary, "✓ Compilation successful")
	if result.InfoCount > 0 || result.WarningCount > 0 {
		cliutil.Writef(summary, " (%d info, %d warnings)", result.InfoCount, result.WarningCount)
	}
	cliutil.Writef(summary, "\n")
	return nil
}

func printIssues(w io.Writer, issues []compiler.CompileIssue) {
	if len(issues) == 0 {
		return
	}
	cliutil.Writef(w, "Compile Issues (%d):\n", len(issues))
	for _, issue := range issues {
		cliutil.Writef(w, "  %s\n", issue.String())
	}
	cliutil.Writef(w, "\n")
}

func writeReport(path string, result *compiler.CompileResult) error {
	cleaned := filepath.Clean(path)
	if err := RejectSymlinkOutput(cleaned); err != nil {
		return err
	}
	data, err := result.ReportJSON()
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(cleaned, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
