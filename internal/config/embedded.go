package config

import _ "embed"

// defaultSettings is the baked-in configuration every invocation starts
// from. User overrides are merged on top of it, never into it.
//
//go:embed defaults.json
var defaultSettings []byte
