// Package plantuml turns marker-delimited diagram blocks into image
// references served by a PlantUML endpoint.
//
// The service addresses diagrams by an encoded form of their text: raw
// deflate output re-encoded in PlantUML's own 64-character alphabet. The
// encoding here is byte-for-byte the one the reference implementations use,
// so any standard server renders the result.
package plantuml

import (
	"bytes"
	"compress/flate"
	"fmt"
	"regexp"
	"strings"
)

// alphabet is PlantUML's base64 variant (digits first, "-_" instead of "+/").
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// Encode deflates the diagram text and encodes it for use in a server URL.
func Encode(diagram string) (string, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("plantuml: %w", err)
	}
	if _, err := w.Write([]byte(diagram)); err != nil {
		return "", fmt.Errorf("plantuml: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("plantuml: %w", err)
	}
	return encode64(buf.Bytes()), nil
}

// ImageURL returns the server URL that renders the diagram as PNG.
func ImageURL(server, diagram string) (string, error) {
	encoded, err := Encode(diagram)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(server, "/") + "/png/" + encoded, nil
}

// Rewrite replaces every marker-delimited diagram block in the Markdown
// source with an image reference to the rendering service. Markers must
// stand alone at the start of a line. Blocks that fail to encode are left
// in place.
func Rewrite(source, server, openMarker, closeMarker string) string {
	if server == "" {
		return source
	}
	pattern := regexp.MustCompile(
		`(?m)^` + regexp.QuoteMeta(openMarker) + `\s*$[\s\S]*?^` + regexp.QuoteMeta(closeMarker) + `\s*$`,
	)
	return pattern.ReplaceAllStringFunc(source, func(block string) string {
		u, err := ImageURL(server, block)
		if err != nil {
			return block
		}
		return fmt.Sprintf("![uml](%s)", u)
	})
}

// encode64 packs bytes three at a time into four alphabet characters.
func encode64(data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 3 {
		var b1, b2, b3 byte
		b1 = data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		b.WriteByte(alphabet[b1>>2])
		b.WriteByte(alphabet[((b1&0x3)<<4)|(b2>>4)])
		b.WriteByte(alphabet[((b2&0xF)<<2)|(b3>>6)])
		b.WriteByte(alphabet[b3&0x3F])
	}
	return b.String()
}
