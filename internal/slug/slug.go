// Package slug turns heading text into URL-safe, collision-free anchor ids.
//
// The algorithm reproduces the legacy anchor scheme exactly: punctuation is
// stripped from an explicit denylist of code points rather than by Unicode
// category, so documents keep the anchors they always had.
package slug

import (
	"fmt"
	"regexp"
	"strings"
)

// punctuation is the denylist of stripped characters. It covers ASCII
// punctuation plus the full-width CJK forms the legacy scheme removed.
const punctuation = "[]!'#$%&()*+,./:;<=>?@\\^_{|}~`" +
	"。，、；：？！…—·ˉ¨‘’“”々～‖∶＂＇｀｜〃〔〕〈〉《》「」『』．〖〗【】（）［］｛｝"

var whitespaceRun = regexp.MustCompile(`\s+`)

// Make converts heading text into a slug. It returns "" when the text
// contains nothing but whitespace and punctuation; such headings get no id.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, s)
	s = strings.Trim(s, "-")
	return encodeURI(s)
}

// encodeURI percent-encodes s the way a browser's encodeURI does: unreserved
// and reserved URI characters pass through, everything else is encoded as
// UTF-8 percent escapes. Fragments produced this way stay stable across the
// browsers that consume them.
func encodeURI(s string) string {
	const keep = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789" +
		";,/?:@&=+$-_.!~*'()#"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(keep, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// Registry deduplicates slugs within one document render. The first
// occurrence of a slug is used as-is; later occurrences get "-1", "-2", …
// suffixes in encounter order. Suffixes are never reused.
//
// A Registry is scoped to a single render and is not safe for concurrent use.
type Registry struct {
	seen map[string]int
}

// NewRegistry creates an empty registry for one document render.
func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]int)}
}

// Assign returns the unique id for the given heading text, or "" when the
// text slugifies to nothing. Empty results are not registered.
func (r *Registry) Assign(text string) string {
	base := Make(text)
	if base == "" {
		return ""
	}
	if _, taken := r.seen[base]; !taken {
		r.seen[base] = 0
		return base
	}
	for {
		r.seen[base]++
		candidate := fmt.Sprintf("%s-%d", base, r.seen[base])
		if _, taken := r.seen[candidate]; !taken {
			r.seen[candidate] = 0
			return candidate
		}
	}
}
