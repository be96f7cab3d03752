package browser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-rod/rod/lib/proto"

	"github.com/showzs/markdown-pdf-m-cli/internal/config"
)

// ErrBadLength indicates a size or margin value could not be parsed.
var ErrBadLength = errors.New("invalid length value")

// defaultPaperFormat is used when neither an explicit format nor explicit
// dimensions are configured.
const defaultPaperFormat = "A4"

// paperSizes maps format names to width and height in inches.
var paperSizes = map[string][2]float64{
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
	"ledger":  {17, 11},
	"a0":      {33.1, 46.8},
	"a1":      {23.4, 33.1},
	"a2":      {16.54, 23.4},
	"a3":      {11.7, 16.54},
	"a4":      {8.27, 11.7},
	"a5":      {5.83, 8.27},
	"a6":      {4.13, 5.83},
}

// PDFOptions is the print configuration derived from settings. Format is
// empty whenever an explicit width or height is present; the two ways of
// sizing the page are mutually exclusive.
type PDFOptions struct {
	Scale               float64
	DisplayHeaderFooter bool
	HeaderTemplate      string
	FooterTemplate      string
	PrintBackground     bool
	Landscape           bool
	PageRanges          string
	Format              string
	Width               *float64 // inches
	Height              *float64 // inches
	MarginTop           *float64 // inches, nil = unset
	MarginRight         *float64
	MarginBottom        *float64
	MarginLeft          *float64
}

// BuildPDFOptions derives print options from the effective settings.
func BuildPDFOptions(cfg *config.Config) (PDFOptions, error) {
	opts := PDFOptions{
		Scale:               config.Float(cfg.Scale, 1),
		DisplayHeaderFooter: config.Bool(cfg.DisplayHeaderFooter, false),
		HeaderTemplate:      config.String(cfg.HeaderTemplate, ""),
		FooterTemplate:      config.String(cfg.FooterTemplate, ""),
		PrintBackground:     config.Bool(cfg.PrintBackground, true),
		Landscape:           strings.EqualFold(config.String(cfg.Orientation, ""), "landscape"),
		PageRanges:          config.String(cfg.PageRanges, ""),
	}

	var err error
	if opts.Width, err = parseOptionalLength(config.String(cfg.Width, "")); err != nil {
		return PDFOptions{}, err
	}
	if opts.Height, err = parseOptionalLength(config.String(cfg.Height, "")); err != nil {
		return PDFOptions{}, err
	}

	// An explicit dimension supersedes the named format entirely.
	if opts.Width == nil && opts.Height == nil {
		opts.Format = config.String(cfg.Format, "")
		if opts.Format == "" {
			opts.Format = defaultPaperFormat
		}
	}

	if opts.MarginTop, err = parseOptionalLength(config.String(cfg.Margin.Top, "")); err != nil {
		return PDFOptions{}, err
	}
	if opts.MarginRight, err = parseOptionalLength(config.String(cfg.Margin.Right, "")); err != nil {
		return PDFOptions{}, err
	}
	if opts.MarginBottom, err = parseOptionalLength(config.String(cfg.Margin.Bottom, "")); err != nil {
		return PDFOptions{}, err
	}
	if opts.MarginLeft, err = parseOptionalLength(config.String(cfg.Margin.Left, "")); err != nil {
		return PDFOptions{}, err
	}

	return opts, nil
}

// proto converts the options to the devtools print request. Named formats
// are mapped to paper dimensions here since the protocol only speaks inches.
func (o PDFOptions) proto() (*proto.PagePrintToPDF, error) {
	req := &proto.PagePrintToPDF{
		Scale:               floatPtr(o.Scale),
		DisplayHeaderFooter: o.DisplayHeaderFooter,
		HeaderTemplate:      o.HeaderTemplate,
		FooterTemplate:      o.FooterTemplate,
		PrintBackground:     o.PrintBackground,
		Landscape:           o.Landscape,
		PageRanges:          o.PageRanges,
		MarginTop:           o.MarginTop,
		MarginRight:         o.MarginRight,
		MarginBottom:        o.MarginBottom,
		MarginLeft:          o.MarginLeft,
	}

	width, height := o.Width, o.Height
	if o.Format != "" {
		size, ok := paperSizes[strings.ToLower(o.Format)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown paper format %q", ErrBadLength, o.Format)
		}
		width, height = floatPtr(size[0]), floatPtr(size[1])
	}
	req.PaperWidth = width
	req.PaperHeight = height

	return req, nil
}

// ScreenshotOptions is the capture configuration for image targets.
// FullPage is disabled only when a complete clip rectangle is configured.
type ScreenshotOptions struct {
	Format         proto.PageCaptureScreenshotFormat
	Quality        *int // JPEG only
	FullPage       bool
	Clip           *proto.PageViewport
	OmitBackground bool
}

// BuildScreenshotOptions derives capture options from the effective
// settings for a png or jpeg target.
func BuildScreenshotOptions(cfg *config.Config, format string) ScreenshotOptions {
	opts := ScreenshotOptions{
		FullPage:       true,
		OmitBackground: config.Bool(cfg.OmitBackground, false),
	}

	switch format {
	case "jpeg":
		opts.Format = proto.PageCaptureScreenshotFormatJpeg
		quality := config.Int(cfg.Quality, 100)
		opts.Quality = &quality
	default:
		opts.Format = proto.PageCaptureScreenshotFormatPng
	}

	if cfg.Clip.Complete() {
		opts.FullPage = false
		opts.Clip = &proto.PageViewport{
			X:      *cfg.Clip.X,
			Y:      *cfg.Clip.Y,
			Width:  *cfg.Clip.Width,
			Height: *cfg.Clip.Height,
			Scale:  1,
		}
	}

	return opts
}

// parseOptionalLength parses a CSS-like length ("1.5cm", "0.5in", "96px",
// "10mm", bare number = inches) into inches. Blank input means unset.
func parseOptionalLength(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	unit := ""
	number := value
	for _, suffix := range []string{"px", "in", "cm", "mm"} {
		if strings.HasSuffix(value, suffix) {
			unit = suffix
			number = strings.TrimSpace(strings.TrimSuffix(value, suffix))
			break
		}
	}

	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadLength, value)
	}

	switch unit {
	case "px":
		n /= 96
	case "cm":
		n /= 2.54
	case "mm":
		n /= 25.4
	}
	return &n, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
