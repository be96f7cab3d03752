package pipeline

import (
	"bytes"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/reconquest/pkg/log"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/showzs/markdown-pdf-m-cli/internal/config"
)

// codeBlockRenderer routes fenced blocks three ways: diagram-marker blocks
// become a marker <div> consumed by the client-side diagram script,
// highlighter-recognized languages get tokenized output, and everything
// else is emitted as escaped plain text in the same wrapper shape.
type codeBlockRenderer struct {
	html.Config
	highlight bool
}

func newCodeBlockRenderer(cfg *config.Config) renderer.NodeRenderer {
	return &codeBlockRenderer{
		Config:    html.NewConfig(),
		highlight: config.Bool(cfg.Highlight, true),
	}
}

// RegisterFuncs implements renderer.NodeRenderer.
func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	lang := string(n.Language(source))
	code := blockContent(n, source)

	if lang == diagramMarker {
		_, _ = w.WriteString(`<div class="` + diagramMarker + `">`)
		_, _ = w.Write(util.EscapeHTML([]byte(code)))
		_, _ = w.WriteString("</div>\n")
		return ast.WalkContinue, nil
	}

	if r.highlight && lang != "" && lexers.Get(lang) != nil {
		highlighted, err := highlightCode(code, lang)
		if err == nil {
			_, _ = w.WriteString(`<pre class="chroma"><code class="language-` + lang + `">`)
			_, _ = w.WriteString(highlighted)
			_, _ = w.WriteString("</code></pre>\n")
			return ast.WalkContinue, nil
		}
		log.Warningf(err, "syntax highlighting failed for %q block, falling back to plain text", lang)
	}

	_, _ = w.WriteString(`<pre class="chroma"><code`)
	if lang != "" {
		_, _ = w.WriteString(` class="language-` + lang + `"`)
	}
	_ = w.WriteByte('>')
	_, _ = w.Write(util.EscapeHTML([]byte(code)))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkContinue, nil
}

// highlightCode tokenizes the block and formats it with CSS classes so the
// theme stylesheet picked at assembly time applies.
func highlightCode(code, lang string) (string, error) {
	lexer := lexers.Get(lang)
	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}
	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.PreventSurroundingPre(true),
	)
	var buf bytes.Buffer
	if err := formatter.Format(&buf, styles.Fallback, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// blockContent joins the raw lines of a fenced block.
func blockContent(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}
