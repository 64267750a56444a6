// Package validation infers semantic types from rule tokens and resolves each
// rule into a [ResolvedValidation] carrying its human-readable message.
//
// # Type inference
//
// [InferType] classifies a field by the first matching rule category, in this
// order: password, boolean, number, array, email, url, uuid, json, date,
// file, enum (an "in" rule with at least one value) and finally string.
// Rule names are canonicalized first with [NormalizeRuleName], so "Int",
// "int" and "integer" classify identically.
//
// # Messages
//
// A [Resolver] asks a [MessageOracle] for the default message of every rule
// unless the class configured a custom message for it. [CatalogOracle] is the
// built-in oracle backed by a golang.org/x/text message catalog. Oracle
// failures never abort resolution: the validation keeps an empty message and
// an informational issue is recorded.
package validation
