// Package config loads the quantum-visualizer runtime configuration.
//
// Configuration files may be YAML (.yaml / .yml) or JSON with comments
// (.json / .jsonc). JSONC is supported via github.com/tidwall/jsonc, which
// strips comments and trailing commas before the standard encoding/json
// parser sees the data. Whatever the file sets is overlaid on Default(), so
// a file only needs the keys it wants to change.
package config
