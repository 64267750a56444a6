// Package rulezod compiles server-side validation rules into Zod schemas.
//
// Applications declare validation twice: once on the server, as rule strings
// such as "required|string|max:255" attached to request classes or data
// classes, and again in the browser. rulezod reads the server rules and emits
// equivalent TypeScript Zod schemas, so the client validates the same shape
// with the same messages.
//
// # Overview
//
// The library is a pipeline of small packages:
//
//   - rules: normalize authored rules (strings, lists, rule objects) into
//     canonical tokens
//   - ruletree: group dotted field paths such as "items.*.name" into a tree
//   - validation: infer field types and bind every rule to its message
//   - extractor: turn request-style and data-style classes into named schemas
//   - handler: build a schema node per field through prioritized type handlers
//   - emitter: render schema nodes as Zod code, in dependency order
//   - manifest: read class descriptors from YAML or JSON
//   - compiler: run the whole pipeline and report issues
//
// # Quick Start
//
// Compile a manifest into a single TypeScript file:
//
//	result, err := compiler.CompileWithOptions(
//	    compiler.WithManifestPath("classes.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := result.WriteFiles("resources/js/schemas"); err != nil {
//	    log.Fatal(err)
//	}
//
// Compile Go structs whose fields carry rules tags:
//
//	type AddressData struct {
//	    Street string `json:"street" rules:"max:120"`
//	}
//
//	result, err := compiler.CompileWithOptions(compiler.WithValues(AddressData{}))
//
// # Output
//
// A request with the rules
//
//	name:  required|string|max:255
//	email: nullable|email
//
// becomes
//
//	export const StoreUserRequestSchema = z.object({
//	  name: z.string().min(1).max(255),
//	  email: z.string().email().nullable().optional(),
//	});
//	export type StoreUserRequest = z.infer<typeof StoreUserRequestSchema>;
//
// Rules that compare fields, such as required_if, required_with, same and
// confirmed, become a superRefine block on the object schema.
//
// # Error Handling
//
// Errors that make a correct schema impossible abort the run: unknown custom
// extractors or handlers, circular rule inheritance and classes no extractor
// accepts. Check them with errors.Is against the sentinels in rzerrors.
// Everything else degrades to a valid but less precise schema and is
// reported in CompileResult.Issues.
//
// # Command-Line Interface
//
//	# Compile a manifest
//	rulezod generate -o resources/js/schemas classes.yaml
//
//	# One file per schema plus index.ts
//	rulezod generate --split -o resources/js/schemas classes.yaml
//
//	# Show how rules were grouped, typed and resolved
//	rulezod inspect -format json classes.yaml
//
//	# Serve the compiler over MCP on stdio
//	rulezod mcp
//
// Install the CLI:
//
//	go install github.com/erraggy/rulezod/cmd/rulezod@latest
package rulezod
