// Package compiler runs the full pipeline from class descriptors to schema
// code.
//
// Classes come from a manifest file, manifest bytes, Go values or
// ready-made descriptors. Each class is extracted into a named schema, every
// field is built by the handler registry and the emitter renders the result
// in dependency order:
//
//	result, err := compiler.CompileWithOptions(
//	    compiler.WithManifestPath("classes.yaml"),
//	    compiler.WithLocale("en"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := result.WriteFiles("resources/js/schemas"); err != nil {
//	    log.Fatal(err)
//	}
//
// Configuration problems, circular inheritance, classes no extractor accepts
// and fields no handler accepts abort the run with an error from
// [rzerrors]. Everything else degrades to a less precise but valid schema
// and is reported in [CompileResult.Issues]. [WithStrictMode] turns warnings
// into a failed run.
//
// With [WithSplitFiles] every schema is written to its own file that imports
// its dependencies, plus an index file re-exporting all of them.
// [CompileResult.Archive] bundles the files into one txtar archive.
package compiler
