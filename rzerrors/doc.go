// Package rzerrors provides structured error types for the rulezod compiler.
//
// Import path: github.com/erraggy/rulezod/rzerrors
//
// Every error that aborts a compile run is one of the types below. Recoverable
// problems (a missing default message, an unknown rule token) are never
// returned as errors; they are reported as issues on the compile result.
//
// # Error Types
//
//   - [ConfigError]: a configured extractor, handler, or option is invalid
//   - [ReferenceError]: a rule inheritance chain is circular or dangling
//   - [ExtractionError]: no extractor can handle a scanned class
//   - [DispatchError]: no type handler can build a field
//   - [ManifestError]: a class manifest cannot be decoded
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrNoExtractor]: Matches any [ExtractionError]
//   - [ErrNoHandler]: Matches any [DispatchError]
//   - [ErrManifest]: Matches any [ManifestError]
//
// # Usage Examples
//
//	result, err := compiler.CompileWithOptions(compiler.WithManifestPath("classes.yaml"))
//	if errors.Is(err, rzerrors.ErrCircularReference) {
//	    var refErr *rzerrors.ReferenceError
//	    if errors.As(err, &refErr) {
//	        fmt.Println(strings.Join(refErr.Chain, " -> "))
//	    }
//	}
package rzerrors
