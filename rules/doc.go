// Package rules normalizes authored validation rules into canonical token
// strings.
//
// A rule may be written as a pipe-delimited string ("required|max:255"), a
// slice of strings and rule objects, or a single rule object. [Normalize]
// flattens any of these into one "|"-joined string of trimmed tokens in
// authored order:
//
//	rules.Normalize([]any{"required", rules.NewPassword(8).MixedCase()})
//	// "required|password|min:8|mixed_case"
//
// Conditional rule objects are evaluated at normalization time.
// [When] and [RequiredWhen] collapse to their rules (or to nothing) depending
// on their predicate, while [RequiredIf] and friends stay in the output as
// "required_if:field,value" tokens so that the comparison can be performed
// against the validated data.
//
// [Split], [ParseToken] and [Parse] turn normalized strings back into
// [Token] values. Regex tokens keep their pattern intact even when it
// contains "|" or ",".
package rules
