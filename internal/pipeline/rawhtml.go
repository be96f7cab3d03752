package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/showzs/markdown-pdf-m-cli/internal/assetpath"
)

// rawHTMLRenderer handles raw HTML passed through the Markdown source when
// the output is bound for the browser. Image sources inside the block must
// be rewritten to absolute file:// URIs or they would break when the page
// loads from a temporary file. Blocks without images pass through verbatim:
// re-serializing can shuffle insignificant whitespace and attribute order,
// so it is done only when there is something to rewrite.
type rawHTMLRenderer struct {
	ghtml.Config
	docPath string
}

func newRawHTMLRenderer(docPath string, unsafe bool) renderer.NodeRenderer {
	r := &rawHTMLRenderer{Config: ghtml.NewConfig(), docPath: docPath}
	r.Unsafe = unsafe
	return r
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *rawHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
}

func (r *rawHTMLRenderer) renderHTMLBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*ast.HTMLBlock)
	if !entering {
		if n.HasClosure() && r.Unsafe {
			closure := n.ClosureLine
			_, _ = w.Write(r.rewrite(closure.Value(source)))
		}
		return ast.WalkContinue, nil
	}
	if !r.Unsafe {
		_, _ = w.WriteString("<!-- raw HTML omitted -->\n")
		return ast.WalkContinue, nil
	}
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(source))
	}
	_, _ = w.Write(r.rewrite([]byte(b.String())))
	return ast.WalkContinue, nil
}

func (r *rawHTMLRenderer) renderRawHTML(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	if !r.Unsafe {
		_, _ = w.WriteString("<!-- raw HTML omitted -->")
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	var b strings.Builder
	for i := 0; i < n.Segments.Len(); i++ {
		segment := n.Segments.At(i)
		b.Write(segment.Value(source))
	}
	_, _ = w.Write(r.rewrite([]byte(b.String())))
	return ast.WalkSkipChildren, nil
}

// rewrite rewrites img sources in a raw fragment, returning the input
// untouched when it contains no img elements.
func (r *rawHTMLRenderer) rewrite(fragment []byte) []byte {
	if !strings.Contains(strings.ToLower(string(fragment)), "<img") {
		return fragment
	}
	rewritten, err := rewriteImageSources(string(fragment), r.docPath)
	if err != nil {
		return fragment
	}
	return []byte(rewritten)
}

// rewriteImageSources parses the fragment, resolves every img src through
// the asset resolver and serializes the result.
func rewriteImageSources(fragment, docPath string) (string, error) {
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return "", err
	}

	found := false
	for _, n := range nodes {
		if rewriteImgNodes(n, docPath) {
			found = true
		}
	}
	if !found {
		return fragment, nil
	}

	var buf strings.Builder
	for _, n := range nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func rewriteImgNodes(n *html.Node, docPath string) bool {
	found := false
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key == "src" && attr.Val != "" {
				n.Attr[i].Val = assetpath.ImageForBrowser(attr.Val, docPath)
				found = true
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if rewriteImgNodes(c, docPath) {
			found = true
		}
	}
	return found
}
