package pipeline

// Target is one requested output format.
type Target string

// Supported output formats.
const (
	TargetHTML Target = "html"
	TargetPDF  Target = "pdf"
	TargetPNG  Target = "png"
	TargetJPEG Target = "jpeg"
)

// AllTargets lists every supported format, in the order "all" expands to.
var AllTargets = []Target{TargetHTML, TargetPDF, TargetPNG, TargetJPEG}

// Ext returns the output file extension for the target, without the dot.
func (t Target) Ext() string {
	return string(t)
}

// NeedsBrowser reports whether producing this target drives headless Chrome.
func (t Target) NeedsBrowser() bool {
	return t != TargetHTML
}

// ParseTargets filters a requested type list down to supported targets,
// expanding "all" and deduplicating. Unsupported entries are returned
// separately so the caller can warn about them.
func ParseTargets(requested []string) (valid []Target, dropped []string) {
	seen := make(map[Target]bool, len(AllTargets))
	for _, raw := range requested {
		if raw == "all" {
			for _, t := range AllTargets {
				if !seen[t] {
					seen[t] = true
					valid = append(valid, t)
				}
			}
			continue
		}
		t := Target(raw)
		switch t {
		case TargetHTML, TargetPDF, TargetPNG, TargetJPEG:
			if !seen[t] {
				seen[t] = true
				valid = append(valid, t)
			}
		default:
			dropped = append(dropped, raw)
		}
	}
	return valid, dropped
}
