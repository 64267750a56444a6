// Package builder provides the target-independent schema tree that handlers
// produce and emitters render.
//
// A Node is a base type (string, number, boolean, array, object, enum, ref,
// union, file or any) plus ordered validation operators and nullable and
// optional modifiers. Handlers translate resolved rules into nodes with a
// small fluent API:
//
//	name := builder.String().
//		Apply("min", "The name field is required.", builder.Int(1)).
//		Apply("max", "", builder.Num("255"))
//
//	user := builder.Object().
//		AddField("name", name).
//		AddField("address", builder.RefTo("AddressDataSchema").SetOptional(true))
//
// Operator arguments carry their rendering kind (number, string, regex or
// raw code) so an emitter never needs to guess how to quote a value.
//
// Refs reports the schemas a node depends on, which the emitter uses to
// order declarations and to detect forward and cyclic references.
package builder
