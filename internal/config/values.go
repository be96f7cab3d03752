package config

// String dereferences an optional string, falling back when it was never
// set. An explicitly configured "" is returned as such.
func String(p *string, fallback string) string {
	if p != nil {
		return *p
	}
	return fallback
}

// Bool dereferences an optional flag, falling back when it was never set.
func Bool(p *bool, fallback bool) bool {
	if p != nil {
		return *p
	}
	return fallback
}

// Float dereferences an optional number, falling back when it was never set.
func Float(p *float64, fallback float64) float64 {
	if p != nil {
		return *p
	}
	return fallback
}

// Int dereferences an optional integer, falling back when it was never set.
func Int(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}
