// Package fileutil holds file permission modes for generated output.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for local configuration and
// report files (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// ReadableByAll is the file permission mode for generated schema files
// intended to be read by build tools and other users.
const ReadableByAll os.FileMode = 0o644
