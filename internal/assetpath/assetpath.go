// Package assetpath computes renderer-consumable addresses for resource
// references found in a document: image sources and stylesheet links.
//
// Four address classes are recognized: remote URLs, home-relative paths
// ("~/..."), filesystem-absolute paths, and filesystem-relative paths.
// Relative references resolve against either the document's directory or
// the working directory depending on the caller's addressing mode.
//
// Images headed for the browser (PDF/PNG/JPEG capture) must survive being
// loaded from a temporary HTML file in a different directory, so they are
// always anchored to the document's directory and returned as file:// URIs.
// Images headed for a plain HTML output stay relative; the browser viewing
// the written file resolves them against its own base.
package assetpath

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/showzs/markdown-pdf-m-cli/internal/fileutil"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*:`)

// ImageForHTML prepares an image reference for an HTML output file.
// The reference is URL-decoded once and stripped of quote characters but
// otherwise left alone.
func ImageForHTML(src string) string {
	return stripQuotes(decodeOnce(src))
}

// ImageForBrowser prepares an image reference for a page that headless
// Chrome will load from a temporary file. Relative and absolute filesystem
// paths become file:// URIs anchored at the document's directory; anything
// already carrying a non-file scheme is treated as opaque and returned
// unchanged.
func ImageForBrowser(src, documentPath string) string {
	href := stripQuotes(decodeOnce(src))

	// References carrying a scheme are opaque; a remote URL must come back
	// unchanged, fragment and all.
	if scheme(href) != "" {
		if strings.HasPrefix(href, "file:") && !strings.HasPrefix(href, "file:///") {
			return "file:///" + strings.TrimPrefix(href, "file://")
		}
		return href
	}

	href = strings.ReplaceAll(href, `\`, "/")
	if strings.HasPrefix(href, "~") {
		href = filepath.ToSlash(fileutil.ExpandHome(href))
	} else if !isAbsolute(href) {
		href = filepath.ToSlash(filepath.Join(filepath.Dir(documentPath), href))
	}
	href = strings.ReplaceAll(href, "#", "%23")

	return toFileURI(href)
}

// Stylesheet resolves a stylesheet reference. Remote URLs pass through
// unchanged; everything else becomes an absolute filesystem path. Relative
// references resolve against the document's directory when relativeToDocument
// is set, against the working directory otherwise.
func Stylesheet(ref, documentPath string, relativeToDocument bool) string {
	if fileutil.IsURL(ref) {
		return ref
	}
	if strings.HasPrefix(ref, "~") {
		return fileutil.ExpandHome(ref)
	}
	if filepath.IsAbs(ref) {
		return ref
	}
	if relativeToDocument {
		return filepath.Join(filepath.Dir(documentPath), ref)
	}
	abs, err := filepath.Abs(ref)
	if err != nil {
		return ref
	}
	return abs
}

// toFileURI converts a forward-slash path into a file URI: exactly three
// slashes before an absolute path, "file:" plus the two leading slashes for
// a UNC-style path.
func toFileURI(path string) string {
	switch {
	case strings.HasPrefix(path, "//"):
		return "file:" + path
	case strings.HasPrefix(path, "/"):
		return "file://" + path
	default:
		return "file:///" + path
	}
}

// isAbsolute recognizes both native absolute paths and forward-slash
// Windows drive paths ("C:/...") regardless of host OS.
func isAbsolute(path string) bool {
	if filepath.IsAbs(path) {
		return true
	}
	if len(path) >= 3 && path[1] == ':' && path[2] == '/' {
		return true
	}
	return strings.HasPrefix(path, "/")
}

// decodeOnce URL-decodes the reference a single time. References that do
// not decode cleanly are used as-is.
func decodeOnce(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}

func stripQuotes(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\'' {
			return -1
		}
		return r
	}, s)
}

func scheme(s string) string {
	m := schemePattern.FindString(s)
	if m == "" {
		return ""
	}
	// A Windows drive letter is not a scheme.
	if len(m) == 2 {
		return ""
	}
	return strings.TrimSuffix(m, ":")
}
