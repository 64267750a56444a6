package mcpserver

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/rulezod/extractor"
	"github.com/erraggy/rulezod/manifest"
)

// manifestInput represents the two ways a class manifest can be provided to
// a tool. Exactly one of File or Content must be set.
type manifestInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a class manifest (YAML or JSON) on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline class manifest content (JSON or YAML)"`
}

// classCache holds loaded manifests for the session. File inputs are keyed
// by absolute path and mtime, inline content by its SHA-256.
var classCache = newLRUCache[[]*extractor.Class](cfg.CacheMaxSize)

// makeCacheKey creates a cache key for the given manifest input.
func makeCacheKey(m manifestInput) string {
	switch {
	case m.File != "":
		absPath, err := filepath.Abs(m.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case m.Content != "":
		h := sha256.Sum256([]byte(m.Content))
		return fmt.Sprintf("content:%s", hex.EncodeToString(h[:]))
	default:
		return ""
	}
}

// resolve loads the classes of whichever input was provided, using the cache.
func (m manifestInput) resolve() ([]*extractor.Class, error) {
	if (m.File == "") == (m.Content == "") {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}

	if m.Content != "" && int64(len(m.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set RULEZOD_MCP_MAX_INLINE_SIZE to increase",
			len(m.Content), cfg.MaxInlineSize)
	}

	var key string
	ttl := cfg.CacheContentTTL
	if cfg.CacheEnabled {
		key = makeCacheKey(m)
		if m.File != "" {
			ttl = cfg.CacheFileTTL
		}
	}
	if key != "" {
		if cached, ok := classCache.get(key); ok {
			return cached, nil
		}
	}

	var classes []*extractor.Class
	var err error
	if m.File != "" {
		classes, err = manifest.Load(m.File)
	} else {
		classes, err = manifest.Parse([]byte(m.Content), manifest.FormatUnknown)
	}
	if err != nil {
		return nil, err
	}

	if key != "" {
		classCache.put(key, classes, ttl)
	}
	return classes, nil
}
