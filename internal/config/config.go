// Package config resolves the layered settings for document rendering.
//
// Settings come from two sources: an embedded defaults file (part of the
// binary, malformed content is a packaging defect) and an optional user
// override file. Both use the same JSON schema under the "markdown-pdf"
// top-level key; YAML files with the same shape are accepted as well.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/showzs/markdown-pdf-m-cli/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrConfigParse      = errors.New("failed to parse config")
	ErrDefaultsBroken   = errors.New("embedded default config is malformed")
	ErrConfigUnreadable = errors.New("failed to read config file")
)

// ConventionalNames are probed in the working directory when no explicit
// config path is given. Absence is not an error.
var ConventionalNames = []string{
	".markdown-pdf.json",
	".markdown-pdf.yaml",
	".markdown-pdf.yml",
}

// Config holds all settings for document rendering, mirroring the
// "markdown-pdf" object of the settings file. Optional scalars use pointers
// so the merge can tell "unset" from "explicitly false/zero/empty"; in
// particular an override may clear a baked-in default by setting a string
// key to "".
type Config struct {
	// Output selection and placement.
	Type                            []string `yaml:"type"`
	OutputDirectory                 *string  `yaml:"outputDirectory"`
	OutputDirectoryRelativePathFile *bool    `yaml:"outputDirectoryRelativePathFile"`

	// Styling.
	Styles                 []string            `yaml:"styles"`
	StylesRelativePathFile *bool               `yaml:"stylesRelativePathFile"`
	TypeStyles             map[string][]string `yaml:"typeStyles"`
	IncludeDefaultStyles   *bool               `yaml:"includeDefaultStyles"`
	Highlight              *bool               `yaml:"highlight"`
	HighlightStyle         *string             `yaml:"highlightStyle"`

	// Markdown behavior.
	Breaks              *bool   `yaml:"breaks"`
	Emoji               *bool   `yaml:"emoji"`
	EmojiPath           *string `yaml:"emojiPath"`
	EnableHTML          *bool   `yaml:"html"`
	MarkdownItInclude   *bool   `yaml:"markdownItInclude"`
	IncludeDir          *string `yaml:"includeDir"`
	MarkdownItContainer *bool   `yaml:"markdownItContainer"`

	// Diagram services.
	MermaidServer       *string `yaml:"mermaidServer"`
	PlantumlServer      *string `yaml:"plantumlServer"`
	PlantumlOpenMarker  *string `yaml:"plantumlOpenMarker"`
	PlantumlCloseMarker *string `yaml:"plantumlCloseMarker"`

	// Browser.
	ExecutablePath *string `yaml:"executablePath"`
	Debug          *bool   `yaml:"debug"`

	// PDF capture.
	Scale               *float64     `yaml:"scale"`
	DisplayHeaderFooter *bool        `yaml:"displayHeaderFooter"`
	HeaderTemplate      *string      `yaml:"headerTemplate"`
	FooterTemplate      *string      `yaml:"footerTemplate"`
	PrintBackground     *bool        `yaml:"printBackground"`
	Orientation         *string      `yaml:"orientation"`
	PageRanges          *string      `yaml:"pageRanges"`
	Format              *string      `yaml:"format"`
	Width               *string      `yaml:"width"`
	Height              *string      `yaml:"height"`
	Margin              MarginConfig `yaml:"margin"`

	// Screenshot capture.
	Quality        *int       `yaml:"quality"`
	Clip           ClipConfig `yaml:"clip"`
	OmitBackground *bool      `yaml:"omitBackground"`
}

// MarginConfig holds the four page margins as CSS-like lengths
// ("1.5cm", "0.5in", "20px"). Nil or empty means unset.
type MarginConfig struct {
	Top    *string `yaml:"top"`
	Right  *string `yaml:"right"`
	Bottom *string `yaml:"bottom"`
	Left   *string `yaml:"left"`
}

// ClipConfig holds an optional screenshot clip rectangle. The rectangle is
// used only when all four fields are present.
type ClipConfig struct {
	X      *float64 `yaml:"x"`
	Y      *float64 `yaml:"y"`
	Width  *float64 `yaml:"width"`
	Height *float64 `yaml:"height"`
}

// Complete reports whether all four clip fields are set.
func (c ClipConfig) Complete() bool {
	return c.X != nil && c.Y != nil && c.Width != nil && c.Height != nil
}

// file is the on-disk shape: all settings grouped under one well-known key.
type file struct {
	Settings Config `yaml:"markdown-pdf"`
}

// Resolve merges the embedded defaults with an optional override file.
//
// If overridePath is non-empty the file must exist. Otherwise the
// conventional names are probed in the working directory; absence is fine.
// The returned Config is a fresh value; the defaults are never mutated.
func Resolve(overridePath string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	path, err := locateOverride(overridePath)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, path, err)
	}

	var f file
	if err := yamlutil.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	merged := Merge(*defaults, f.Settings)
	return &merged, nil
}

// loadDefaults parses the embedded defaults file. A failure here means the
// binary was packaged wrong, not that the user did anything.
func loadDefaults() (*Config, error) {
	var f file
	if err := yamlutil.Unmarshal(defaultSettings, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDefaultsBroken, err)
	}
	return &f.Settings, nil
}

// locateOverride returns the override file path to use, or "" for none.
func locateOverride(overridePath string) (string, error) {
	if overridePath != "" {
		if _, err := os.Stat(overridePath); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, overridePath)
		}
		return overridePath, nil
	}
	for _, name := range ConventionalNames {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, nil
		}
	}
	return "", nil
}
