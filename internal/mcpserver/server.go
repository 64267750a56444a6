// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes rulezod compilation as MCP tools over stdio.
package mcpserver

import (
	"cmp"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/rulezod"
)

const serverInstructions = `rulezod MCP server: compiles validation-rule class manifests into Zod schemas and shows how each rule was resolved.

Manifests list classes with either a flat "rules" map (request classes) or typed "properties" (data classes). Pass a manifest by file path or inline content.

Configuration: defaults are configurable via RULEZOD_MCP_* environment variables set in your MCP client config.

Key settings:
- RULEZOD_MCP_CACHE_FILE_TTL (default: 15m): cache TTL for manifest files
- RULEZOD_MCP_CACHE_ENABLED (default: true): disable manifest caching entirely
- RULEZOD_MCP_FIELD_LIMIT (default: 100): default result limit for inspect_rules
- RULEZOD_MCP_FIELD_DETAIL_LIMIT (default: 25): default limit in detail mode
- RULEZOD_MCP_OUTPUT_STYLE (default: module): module or namespace output
- RULEZOD_MCP_STRICT (default: false): fail generation on warnings
- RULEZOD_MCP_LOCALE (default: en): locale of default validation messages

Caching: loaded manifests are cached per session. File entries use path+mtime as key (auto-invalidated on change). A background sweeper removes expired entries.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		classCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := newServer()
	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer() *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "rulezod", Version: rulezod.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Compile a class manifest into Zod schema source. Returns the generated files inline, or writes them to output_dir when given. Use split=true for one file per schema plus an index. Use style=namespace with namespace to wrap declarations. Issues list rules that were compiled loosely or skipped. Strict mode and style defaults are configurable via RULEZOD_MCP_STRICT and RULEZOD_MCP_OUTPUT_STYLE.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect_rules",
		Description: "Show how the rules of every class in a manifest resolve: inferred type, required/nullable flags, schema references and default messages per field. Filter by schema name (glob with * and ?) or field type. Returns field summaries by default or resolved rules with detail=true. Use group_by (type or schema) to get distribution counts instead of individual fields. Default limit is configurable via RULEZOD_MCP_FIELD_LIMIT (default 100, 25 in detail mode).",
	}, handleInspectRules)
}

// paginate returns the page of items starting at offset. A non-positive
// limit means cfg.FieldLimit, and no page is longer than cfg.MaxLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 || offset >= len(items) {
		return nil
	}
	if limit <= 0 {
		limit = cfg.FieldLimit
	}
	limit = min(limit, cfg.MaxLimit, len(items)-offset)
	return items[offset : offset+limit]
}

// detailLimit is the default page size when fields carry their rules.
func detailLimit(limit int) int {
	if limit > 0 {
		return limit
	}
	return cfg.FieldDetailLimit
}

// makeSlice keeps empty results nil so omitempty drops them.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// pathPattern matches absolute paths under common system roots.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

// sanitizeError hides local filesystem paths from MCP clients.
func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

type groupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// groupAndSort counts items per key, most frequent first and ties by key.
func groupAndSort[T any](items []T, keyFn func(T) []string) []groupCount {
	counts := make(map[string]int)
	for _, item := range items {
		for _, key := range keyFn(item) {
			counts[key]++
		}
	}
	groups := make([]groupCount, 0, len(counts))
	for key, n := range counts {
		groups = append(groups, groupCount{Key: key, Count: n})
	}
	slices.SortFunc(groups, func(a, b groupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return groups
}

// validateGroupBy rejects unknown group_by values and group_by with detail.
func validateGroupBy(groupBy string, detail bool, allowed []string) error {
	switch {
	case groupBy == "":
		return nil
	case detail:
		return fmt.Errorf("cannot use both group_by and detail")
	case slices.ContainsFunc(allowed, func(a string) bool { return strings.EqualFold(a, groupBy) }):
		return nil
	}
	return fmt.Errorf("invalid group_by value %q; valid values: %s", groupBy, strings.Join(allowed, ", "))
}

// validateGlobPattern reports a malformed wildcard pattern up front so
// matchGlobName can ignore match errors.
func validateGlobPattern(pattern string) error {
	if !strings.ContainsAny(pattern, "*?[") {
		return nil
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return nil
}

// matchGlobName compares case-insensitively; without wildcards the whole
// name must match.
func matchGlobName(name, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?") {
		return strings.EqualFold(name, pattern)
	}
	ok, err := filepath.Match(strings.ToLower(pattern), strings.ToLower(name))
	return err == nil && ok
}
