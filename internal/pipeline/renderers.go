package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/showzs/markdown-pdf-m-cli/internal/assetpath"
	"github.com/showzs/markdown-pdf-m-cli/internal/slug"
)

// imageRenderer rewrites image addresses through the asset resolver before
// emitting the default <img> shape. For browser-bound targets the address
// becomes an absolute file:// URI; for HTML output it stays relative.
type imageRenderer struct {
	html.Config
	docPath    string
	forBrowser bool
}

func newImageRenderer(docPath string, forBrowser, unsafe bool) renderer.NodeRenderer {
	r := &imageRenderer{
		Config:     html.NewConfig(),
		docPath:    docPath,
		forBrowser: forBrowser,
	}
	r.Unsafe = unsafe
	return r
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *imageRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindImage, r.renderImage)
}

func (r *imageRenderer) renderImage(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.Image)

	dest := string(n.Destination)
	if r.forBrowser {
		dest = assetpath.ImageForBrowser(dest, r.docPath)
	} else {
		dest = assetpath.ImageForHTML(dest)
	}

	_, _ = w.WriteString(`<img src="`)
	if r.Unsafe || !html.IsDangerousURL([]byte(dest)) {
		_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(dest), true)))
	}
	_, _ = w.WriteString(`" alt="`)
	_, _ = w.Write(nodeToPlainText(n, source))
	_ = w.WriteByte('"')
	if n.Title != nil {
		_, _ = w.WriteString(` title="`)
		r.Writer.Write(w, n.Title)
		_ = w.WriteByte('"')
	}
	if n.Attributes() != nil {
		html.RenderAttributes(w, n, html.ImageAttributeFilter)
	}
	if r.XHTML {
		_, _ = w.WriteString(" />")
	} else {
		_, _ = w.WriteString(">")
	}
	return ast.WalkSkipChildren, nil
}

// headingRenderer wraps the default heading output, assigning each heading
// a deduplicated anchor id. An id already present on the node (from
// attribute syntax) is never overwritten, and headings whose text slugifies
// to nothing get no id at all.
type headingRenderer struct {
	html.Config
	slugs *slug.Registry
}

func newHeadingRenderer(slugs *slug.Registry) renderer.NodeRenderer {
	return &headingRenderer{Config: html.NewConfig(), slugs: slugs}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *headingRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHeading, r.renderHeading)
}

func (r *headingRenderer) renderHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.Heading)
	if entering {
		if _, exists := n.AttributeString("id"); !exists {
			text := string(nodeToRawText(n, source))
			if id := r.slugs.Assign(text); id != "" {
				n.SetAttributeString("id", []byte(id))
			}
		}
		_, _ = w.WriteString("<h")
		_ = w.WriteByte("0123456"[n.Level])
		if n.Attributes() != nil {
			html.RenderAttributes(w, n, html.HeadingAttributeFilter)
		}
		_ = w.WriteByte('>')
	} else {
		_, _ = w.WriteString("</h")
		_ = w.WriteByte("0123456"[n.Level])
		_, _ = w.WriteString(">\n")
	}
	return ast.WalkContinue, nil
}

// nodeToRawText collects the unescaped text content of a node's children.
// Slug input must see the author's literal characters, not HTML entities.
func nodeToRawText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s, ok := c.(*ast.String); ok {
			buf.Write(s.Value)
		} else if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(source))
		} else {
			buf.Write(nodeToRawText(c, source))
		}
	}
	return buf.Bytes()
}

// nodeToPlainText collects the escaped text content of a node's children.
// Mirrors the helper goldmark's own HTML renderer uses for alt text.
func nodeToPlainText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s, ok := c.(*ast.String); ok && s.IsCode() {
			buf.Write(s.Value)
		} else if t, ok := c.(*ast.Text); ok {
			buf.Write(util.EscapeHTML(t.Value(source)))
		} else {
			buf.Write(nodeToPlainText(c, source))
		}
	}
	return buf.Bytes()
}
