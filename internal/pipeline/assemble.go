package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/reconquest/pkg/log"

	"github.com/showzs/markdown-pdf-m-cli/internal/assetpath"
	"github.com/showzs/markdown-pdf-m-cli/internal/config"
	"github.com/showzs/markdown-pdf-m-cli/internal/document"
	"github.com/showzs/markdown-pdf-m-cli/internal/fileutil"
)

// Sentinel errors for document assembly.
var (
	ErrTemplateBroken = errors.New("document template is malformed")
	ErrHighlightStyle = errors.New("highlight style not found")
)

// templateData feeds the embedded document template.
type templateData struct {
	Title         string
	Style         template.HTML
	Content       template.HTML
	MermaidScript template.HTML
}

// Assemble wraps a rendered fragment in the document template, injecting
// the collected stylesheets and, when a diagram service is configured, its
// script tag. The result is the complete self-contained HTML for one
// (document, target) pair.
func Assemble(fragment string, doc *document.Document, cfg *config.Config, target Target) (string, error) {
	tmpl, err := template.New("document").Parse(string(templateHTML))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateBroken, err)
	}

	style, err := buildStyleBlock(doc, cfg, target)
	if err != nil {
		return "", err
	}

	data := templateData{
		Title:   filepath.Base(doc.Path),
		Style:   template.HTML(style),    // #nosec G203 -- built from config-listed stylesheets
		Content: template.HTML(fragment), // #nosec G203 -- pipeline output
	}
	if server := doc.MermaidServer(cfg); server != "" {
		data.MermaidScript = template.HTML(fmt.Sprintf(
			"<script src=%q></script>\n<script>mermaid.initialize({startOnLoad:true});</script>",
			server,
		)) // #nosec G203 -- server URL comes from config/front matter
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateBroken, err)
	}
	return buf.String(), nil
}

// buildStyleBlock collects stylesheet tags in a fixed, order-significant
// sequence: base stylesheet, general custom styles, highlight theme, the
// print-oriented base stylesheet, then format-specific custom styles.
func buildStyleBlock(doc *document.Document, cfg *config.Config, target Target) (string, error) {
	includeDefault := config.Bool(cfg.IncludeDefaultStyles, true)
	relativeToDoc := config.Bool(cfg.StylesRelativePathFile, false)

	var b strings.Builder

	if includeDefault {
		b.WriteString(styleTag(string(markdownCSS)))
		for _, ref := range cfg.Styles {
			appendUserStyle(&b, ref, doc.Path, relativeToDoc)
		}
	}

	if config.Bool(cfg.Highlight, true) {
		css, err := highlightStyleCSS(config.String(cfg.HighlightStyle, ""))
		if err != nil {
			return "", err
		}
		b.WriteString(styleTag(css))
	}

	if includeDefault {
		b.WriteString(styleTag(string(markdownPdfCSS)))
	}

	for _, ref := range cfg.TypeStyles[string(target)] {
		appendUserStyle(&b, ref, doc.Path, relativeToDoc)
	}

	return b.String(), nil
}

// appendUserStyle resolves one custom style entry. Remote URLs become
// links; local files are inlined so the page survives being loaded from a
// temporary location. Unreadable entries are skipped with a warning.
func appendUserStyle(b *strings.Builder, ref, docPath string, relativeToDoc bool) {
	resolved := assetpath.Stylesheet(ref, docPath, relativeToDoc)
	if fileutil.IsURL(resolved) {
		fmt.Fprintf(b, "<link rel=\"stylesheet\" href=%q />\n", resolved)
		return
	}
	content, err := os.ReadFile(resolved) // #nosec G304 -- style path is user-configured
	if err != nil {
		log.Warningf(err, "skipping unreadable stylesheet %q", ref)
		return
	}
	b.WriteString(styleTag(string(content)))
}

// highlightStyleCSS resolves the syntax-highlight theme: a literal path if
// it exists on disk, else a named theme from the highlighter's bundled set
// (with or without a .css suffix), else an error. With no name at all the
// highlighter's built-in fallback theme is used.
func highlightStyleCSS(name string) (string, error) {
	if name == "" {
		return chromaCSS(styles.Fallback.Name)
	}
	if fileutil.FileExists(name) {
		content, err := os.ReadFile(name) // #nosec G304 -- style path is user-configured
		if err != nil {
			return "", fmt.Errorf("%w: %q: %v", ErrHighlightStyle, name, err)
		}
		return string(content), nil
	}
	base := strings.TrimSuffix(name, ".css")
	if _, ok := styles.Registry[base]; ok {
		return chromaCSS(base)
	}
	return "", fmt.Errorf("%w: %q", ErrHighlightStyle, name)
}

// chromaCSS generates the class-based stylesheet for a bundled theme.
func chromaCSS(name string) (string, error) {
	style := styles.Get(name)
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrHighlightStyle, name, err)
	}
	return buf.String(), nil
}

// styleTag wraps CSS in a <style> block, escaping sequences that could
// close the tag prematurely.
func styleTag(css string) string {
	return "<style>\n" + strings.ReplaceAll(css, "</", `<\/`) + "\n</style>\n"
}
