package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/rulezod/compiler"
	"github.com/erraggy/rulezod/emitter"
)

type generateInput struct {
	Manifest   manifestInput `json:"manifest"              jsonschema:"The class manifest to compile"`
	Style      string        `json:"style,omitempty"       jsonschema:"Output style: module or namespace (default: module)"`
	Namespace  string        `json:"namespace,omitempty"   jsonschema:"Namespace identifier when style is namespace"`
	Split      bool          `json:"split,omitempty"       jsonschema:"Emit one file per schema plus an index"`
	AppTypes   bool          `json:"app_types,omitempty"   jsonschema:"Annotate data schemas with the application's generated types"`
	Locale     string        `json:"locale,omitempty"      jsonschema:"Locale of default validation messages (default: en)"`
	NoMessages bool          `json:"no_messages,omitempty" jsonschema:"Don't attach default validation messages"`
	Strict     bool          `json:"strict,omitempty"      jsonschema:"Fail on any warning"`
	OutputDir  string        `json:"output_dir,omitempty"  jsonschema:"Directory to write generated files to. When empty, file contents are returned inline."`
}

type generatedFileInfo struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

type generateOutput struct {
	Success       bool                    `json:"success"`
	OutputDir     string                  `json:"output_dir,omitempty"`
	Schemas       []string                `json:"schemas"`
	FieldCount    int                     `json:"field_count"`
	FileCount     int                     `json:"file_count"`
	Files         []generatedFileInfo     `json:"files"`
	Issues        []compiler.CompileIssue `json:"issues,omitempty"`
	WarningCount  int                     `json:"warning_count"`
	CriticalCount int                     `json:"critical_count"`
}

// compileOptions converts shared tool inputs into compiler options.
func compileOptions(input generateInput) ([]compiler.Option, error) {
	classes, err := input.Manifest.resolve()
	if err != nil {
		return nil, err
	}

	styleName := input.Style
	if styleName == "" {
		styleName = cfg.GenerateStyle
	}
	style, err := emitter.ParseStyle(styleName)
	if err != nil {
		return nil, err
	}
	locale := input.Locale
	if locale == "" {
		locale = cfg.Locale
	}

	opts := []compiler.Option{
		compiler.WithClasses(classes...),
		compiler.WithOutputStyle(style),
		compiler.WithSplitFiles(input.Split),
		compiler.WithAppTypes(input.AppTypes, emitter.DefaultAppTypesPath),
		compiler.WithLocale(locale),
		compiler.WithDefaultMessages(!input.NoMessages),
		compiler.WithStrictMode(input.Strict || cfg.GenerateStrict),
	}
	if input.Namespace != "" {
		opts = append(opts, compiler.WithNamespace(input.Namespace))
	}
	return opts, nil
}

func handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	opts, err := compileOptions(input)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	result, err := compiler.CompileWithOptions(opts...)
	if err != nil {
		if result != nil && len(result.Issues) > 0 {
			err = fmt.Errorf("%w: first issue: %s", err, result.Issues[0].String())
		}
		return errResult(err), generateOutput{}, nil
	}

	if input.OutputDir != "" {
		if err := result.WriteFiles(input.OutputDir); err != nil {
			return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
		}
	}

	output := generateOutput{
		Success:       result.Success,
		OutputDir:     input.OutputDir,
		FieldCount:    result.FieldCount,
		FileCount:     len(result.Files),
		Issues:        result.Issues,
		WarningCount:  result.WarningCount,
		CriticalCount: result.CriticalCount,
	}

	output.Schemas = make([]string, 0, len(result.Schemas))
	for _, s := range result.Schemas {
		output.Schemas = append(output.Schemas, s.Name)
	}

	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		info := generatedFileInfo{Name: f.Name, Size: len(f.Content)}
		if input.OutputDir == "" {
			info.Content = string(f.Content)
		}
		output.Files = append(output.Files, info)
	}

	return nil, output, nil
}
