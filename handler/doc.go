// Package handler builds target-independent schema nodes from resolved
// validation sets.
//
// A [Registry] holds [Handler] strategies ordered by priority. For every
// field it first asks each handler whether it wants the field itself
// (CanHandleProperty, used for references to named schemas), then whether it
// handles the field's type tag (CanHandle). The [FallbackHandler] accepts any
// type, so dispatch only fails when the fallback has been removed.
//
// Arrays and objects build their elements and fields recursively through
// [Context.Build]. Rules a handler cannot express are skipped and reported as
// informational issues; the remaining rules still apply.
package handler
