package pipeline

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/reconquest/pkg/log"
)

// includePattern matches file-inclusion directives: a line of the form
// :[label](path). The label is ignored; the path resolves against the
// inclusion root directory.
var includePattern = regexp.MustCompile(`(?m)^:\[([^\]]*)\]\(([^)\n]+)\)[ \t]*$`)

// maxIncludeDepth bounds nested inclusion so directive cycles terminate.
const maxIncludeDepth = 10

// expandIncludes replaces inclusion directives with file content, resolving
// nested directives up to a fixed depth. Unresolvable directives are left
// in place with a warning rather than failing the render.
func expandIncludes(body, rootDir string) string {
	return expandIncludesDepth(body, rootDir, 0)
}

func expandIncludesDepth(body, rootDir string, depth int) string {
	if depth >= maxIncludeDepth {
		return body
	}
	return includePattern.ReplaceAllStringFunc(body, func(directive string) string {
		m := includePattern.FindStringSubmatch(directive)
		ref := strings.TrimSpace(m[2])

		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(rootDir, path)
		}

		data, err := os.ReadFile(path) // #nosec G304 -- include root is user-configured
		if err != nil {
			log.Warningf(err, "unable to include %q, leaving directive as-is", ref)
			return directive
		}

		return expandIncludesDepth(strings.TrimRight(string(data), "\n"), filepath.Dir(path), depth+1)
	})
}

// documentDir returns the directory of a document path.
func documentDir(path string) string {
	return filepath.Dir(path)
}
