// Package document loads a Markdown source file and its front matter.
//
// Front matter is a YAML block delimited by "---" lines above the body. A
// small set of rendering flags may be overridden per document there; for
// those flags the precedence is front matter, then config, then a hardcoded
// default.
package document

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/goccy/go-yaml"

	"github.com/showzs/markdown-pdf-m-cli/internal/config"
)

// Sentinel errors for document loading.
var (
	ErrReadDocument = errors.New("failed to read markdown file")
	ErrFrontMatter  = errors.New("failed to parse front matter")
)

// Hardcoded fallbacks used when neither front matter nor config set a value.
const (
	DefaultPlantumlOpenMarker  = "@startuml"
	DefaultPlantumlCloseMarker = "@enduml"
)

// yamlFormat parses the front matter block with the same YAML library the
// config layer uses.
var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// FrontMatter holds the per-document overrides recognized in the block
// above the body. Unknown keys are ignored; absent keys fall through to
// config.
type FrontMatter struct {
	Breaks              *bool  `yaml:"breaks"`
	Emoji               *bool  `yaml:"emoji"`
	MarkdownItInclude   *bool  `yaml:"markdownItInclude"`
	IncludeDir          string `yaml:"includeDir"`
	MermaidServer       string `yaml:"mermaidServer"`
	PlantumlServer      string `yaml:"plantumlServer"`
	PlantumlOpenMarker  string `yaml:"plantumlOpenMarker"`
	PlantumlCloseMarker string `yaml:"plantumlCloseMarker"`
}

// Document is one Markdown source: where it lives, its body with front
// matter stripped, and the parsed front matter itself.
type Document struct {
	Path string
	Body string
	Meta FrontMatter
}

// Load reads and parses the file at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadDocument, path, err)
	}
	return Parse(path, string(data))
}

// Parse builds a Document from raw content. Content without a front matter
// block is used as-is.
func Parse(path, content string) (*Document, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(strings.NewReader(content), &meta, yamlFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFrontMatter, path, err)
	}
	return &Document{Path: path, Body: string(body), Meta: meta}, nil
}

// Breaks reports the effective line-break mode: front matter, then config,
// then off.
func (d *Document) Breaks(cfg *config.Config) bool {
	if d.Meta.Breaks != nil {
		return *d.Meta.Breaks
	}
	return config.Bool(cfg.Breaks, false)
}

// EmojiEnabled reports the effective emoji mode: front matter, then config,
// then on.
func (d *Document) EmojiEnabled(cfg *config.Config) bool {
	if d.Meta.Emoji != nil {
		return *d.Meta.Emoji
	}
	return config.Bool(cfg.Emoji, true)
}

// IncludeEnabled reports whether file inclusion is active for this document.
func (d *Document) IncludeEnabled(cfg *config.Config) bool {
	if d.Meta.MarkdownItInclude != nil {
		return *d.Meta.MarkdownItInclude
	}
	return config.Bool(cfg.MarkdownItInclude, true)
}

// IncludeDir returns the root directory for file inclusion. Empty means the
// document's own directory.
func (d *Document) IncludeDir(cfg *config.Config) string {
	return firstNonEmpty(d.Meta.IncludeDir, config.String(cfg.IncludeDir, ""))
}

// MermaidServer returns the effective diagram-script endpoint, or "" when
// none is configured.
func (d *Document) MermaidServer(cfg *config.Config) string {
	return firstNonEmpty(d.Meta.MermaidServer, config.String(cfg.MermaidServer, ""))
}

// PlantumlServer returns the effective PlantUML service endpoint.
func (d *Document) PlantumlServer(cfg *config.Config) string {
	return firstNonEmpty(d.Meta.PlantumlServer, config.String(cfg.PlantumlServer, ""))
}

// PlantumlMarkers returns the effective open and close marker tokens.
func (d *Document) PlantumlMarkers(cfg *config.Config) (open, close string) {
	open = firstNonEmpty(d.Meta.PlantumlOpenMarker, config.String(cfg.PlantumlOpenMarker, ""), DefaultPlantumlOpenMarker)
	close = firstNonEmpty(d.Meta.PlantumlCloseMarker, config.String(cfg.PlantumlCloseMarker, ""), DefaultPlantumlCloseMarker)
	return open, close
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
