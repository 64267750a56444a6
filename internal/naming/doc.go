// Package naming provides shared case conversion utilities for rulezod packages.
//
// Functions are used for:
//   - validation: canonical rule names ("DigitsBetween" -> "digits_between")
//     and human attribute names in default messages
//   - extractor: schema names derived from qualified class names
//   - emitter: property keys that need quoting in the emitted code
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
