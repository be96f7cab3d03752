package pipeline

import (
	"encoding/base64"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	east "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark-emoji/definition"
	"github.com/yuin/goldmark/util"
)

// newEmojiExtender registers the emoji shortcode rule. A recognized
// shortcode renders as an inlined base64 image when the matching asset file
// exists under assetDir; otherwise the literal shortcode text is kept so
// the document loses nothing.
func newEmojiExtender(assetDir string) goldmark.Extender {
	return emoji.New(
		emoji.WithEmojis(definition.Github()),
		emoji.WithRenderingMethod(emoji.Func),
		emoji.WithRendererFunc(func(w util.BufWriter, source []byte, n *east.Emoji, config *emoji.RendererConfig) {
			renderEmoji(w, n, assetDir)
		}),
	)
}

func renderEmoji(w util.BufWriter, n *east.Emoji, assetDir string) {
	shortName := string(n.ShortName)

	if assetDir != "" {
		path := filepath.Join(assetDir, shortName+".png")
		if data, err := os.ReadFile(path); err == nil { // #nosec G304 -- emoji dir is user-configured
			_, _ = w.WriteString(`<img class="emoji" src="data:image/png;base64,`)
			_, _ = w.WriteString(base64.StdEncoding.EncodeToString(data))
			_, _ = w.WriteString(`" alt=":` + shortName + `:" />`)
			return
		}
	}

	// Asset missing: keep the shortcode text unchanged.
	_, _ = w.WriteString(":")
	_, _ = w.Write(util.EscapeHTML([]byte(shortName)))
	_, _ = w.WriteString(":")
}
