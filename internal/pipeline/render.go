// Package pipeline drives the Markdown parser with the custom rendering
// rules this tool needs and assembles the result into a self-contained
// HTML document.
//
// The pipeline is rebuilt per (document, target) pair because image
// addressing differs between an HTML file written next to the source and a
// page loaded by headless Chrome from a temporary location.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	admonitions "github.com/stefanfritsch/goldmark-admonitions"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/showzs/markdown-pdf-m-cli/internal/config"
	"github.com/showzs/markdown-pdf-m-cli/internal/document"
	"github.com/showzs/markdown-pdf-m-cli/internal/plantuml"
	"github.com/showzs/markdown-pdf-m-cli/internal/slug"
)

// ErrRender indicates the Markdown conversion itself failed.
var ErrRender = errors.New("markdown rendering failed")

// diagramMarker is the fenced-block language routed to the client-side
// diagram script instead of the syntax highlighter.
const diagramMarker = "mermaid"

// Pipeline renders one document for one output target.
type Pipeline struct {
	doc    *document.Document
	cfg    *config.Config
	target Target
}

// New creates a Pipeline for the given document, settings and target.
func New(doc *document.Document, cfg *config.Config, target Target) *Pipeline {
	return &Pipeline{doc: doc, cfg: cfg, target: target}
}

// Render produces the HTML fragment for the document body. It never writes
// to disk; assembly and output happen elsewhere.
func (p *Pipeline) Render(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body := p.doc.Body
	if p.doc.IncludeEnabled(p.cfg) {
		body = expandIncludes(body, p.includeRoot())
	}
	if server := p.doc.PlantumlServer(p.cfg); server != "" {
		open, close := p.doc.PlantumlMarkers(p.cfg)
		body = plantuml.Rewrite(body, server, open, close)
	}

	md := p.newMarkdown()

	// Goldmark has no native context support; run the conversion in a
	// goroutine and race it against cancellation.
	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		var buf bytes.Buffer
		if err := md.Convert([]byte(body), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrRender, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// newMarkdown wires the parser with this render's rule overrides. Each hook
// point (image, heading, fenced code, raw HTML) is an explicit NodeRenderer
// registered ahead of the defaults it falls back to.
func (p *Pipeline) newMarkdown() goldmark.Markdown {
	forBrowser := p.target.NeedsBrowser()
	unsafe := config.Bool(p.cfg.EnableHTML, true)

	slugs := slug.NewRegistry()

	nodeRenderers := []util.PrioritizedValue{
		util.Prioritized(newImageRenderer(p.doc.Path, forBrowser, unsafe), 100),
		util.Prioritized(newHeadingRenderer(slugs), 100),
		util.Prioritized(newCodeBlockRenderer(p.cfg), 100),
	}
	if forBrowser {
		nodeRenderers = append(nodeRenderers,
			util.Prioritized(newRawHTMLRenderer(p.doc.Path, unsafe), 100),
		)
	}

	extenders := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
	}
	if config.Bool(p.cfg.MarkdownItContainer, true) {
		extenders = append(extenders, &admonitions.Extender{})
	}
	if p.doc.EmojiEnabled(p.cfg) {
		extenders = append(extenders, newEmojiExtender(config.String(p.cfg.EmojiPath, "")))
	}

	rendererOptions := []renderer.Option{
		html.WithXHTML(),
		renderer.WithNodeRenderers(nodeRenderers...),
	}
	if p.doc.Breaks(p.cfg) {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithExtensions(extenders...),
		goldmark.WithParserOptions(
			parser.WithAttribute(), // Honor {#custom-id} on headings
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

// includeRoot returns the base directory for file-inclusion directives.
func (p *Pipeline) includeRoot() string {
	if dir := p.doc.IncludeDir(p.cfg); dir != "" {
		return dir
	}
	return documentDir(p.doc.Path)
}
