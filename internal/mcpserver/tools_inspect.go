package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/rulezod/compiler"
)

type inspectInput struct {
	Manifest manifestInput `json:"manifest"           jsonschema:"The class manifest to inspect"`
	Schema   string        `json:"schema,omitempty"   jsonschema:"Filter by schema name (exact match\\, or glob with * and ?\\, e.g. *Request*)"`
	Type     string        `json:"type,omitempty"     jsonschema:"Filter by inferred field type (string\\, number\\, email\\, array\\, object\\, etc.)"`
	Locale   string        `json:"locale,omitempty"   jsonschema:"Locale of default validation messages (default: en)"`
	Detail   bool          `json:"detail,omitempty"   jsonschema:"Return resolved rules with parameters and messages for every field"`
	GroupBy  string        `json:"group_by,omitempty" jsonschema:"Group fields and return counts instead of individual items. Values: type\\, schema"`
	Limit    int           `json:"limit,omitempty"    jsonschema:"Maximum results (default 100)"`
	Offset   int           `json:"offset,omitempty"   jsonschema:"Skip the first N results (for pagination)"`
}

type fieldSummary struct {
	Schema   string `json:"schema"`
	Path     string `json:"path"`
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
	Nullable bool   `json:"nullable,omitempty"`
	Ref      string `json:"ref,omitempty"`
}

type fieldDetail struct {
	Schema string               `json:"schema"`
	Field  compiler.FieldReport `json:"field"`
}

type inspectOutput struct {
	Schemas   []string       `json:"schemas"`
	Total     int            `json:"total"`
	Matched   int            `json:"matched"`
	Returned  int            `json:"returned"`
	Summaries []fieldSummary `json:"summaries,omitempty"`
	Fields    []fieldDetail  `json:"fields,omitempty"`
	Groups    []groupCount   `json:"groups,omitempty"`
	Warnings  int            `json:"warnings"`
}

func handleInspectRules(_ context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	if err := validateGroupBy(input.GroupBy, input.Detail, []string{"type", "schema"}); err != nil {
		return errResult(err), inspectOutput{}, nil
	}
	if err := validateGlobPattern(input.Schema); err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	opts, err := compileOptions(generateInput{Manifest: input.Manifest, Locale: input.Locale})
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}
	result, err := compiler.InspectWithOptions(append(opts, compiler.WithStrictMode(false))...)
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	var all, filtered []fieldDetail
	output := inspectOutput{
		Schemas:  make([]string, 0, len(result.Schemas)),
		Warnings: result.WarningCount,
	}
	for _, s := range result.Schemas {
		output.Schemas = append(output.Schemas, s.Name)
		for _, f := range s.Fields {
			fd := fieldDetail{Schema: s.Name, Field: f}
			all = append(all, fd)
			if input.Schema != "" && !matchGlobName(s.Name, input.Schema) {
				continue
			}
			if input.Type != "" && !strings.EqualFold(f.Type, input.Type) {
				continue
			}
			filtered = append(filtered, fd)
		}
	}
	output.Total = len(all)
	output.Matched = len(filtered)

	if input.GroupBy != "" {
		groups := groupAndSort(filtered, func(fd fieldDetail) []string {
			switch strings.ToLower(input.GroupBy) {
			case "type":
				return []string{fd.Field.Type}
			case "schema":
				return []string{fd.Schema}
			default:
				return nil
			}
		})
		output.Groups = paginate(groups, input.Offset, input.Limit)
		output.Returned = len(output.Groups)
		return nil, output, nil
	}

	if input.Detail {
		output.Fields = paginate(filtered, input.Offset, detailLimit(input.Limit))
		output.Returned = len(output.Fields)
		return nil, output, nil
	}

	returned := paginate(filtered, input.Offset, input.Limit)
	output.Summaries = makeSlice[fieldSummary](len(returned))
	for _, fd := range returned {
		output.Summaries = append(output.Summaries, fieldSummary{
			Schema:   fd.Schema,
			Path:     fd.Field.Path,
			Type:     fd.Field.Type,
			Required: fd.Field.Required,
			Nullable: fd.Field.Nullable,
			Ref:      fd.Field.Ref,
		})
	}
	output.Returned = len(returned)
	return nil, output, nil
}
