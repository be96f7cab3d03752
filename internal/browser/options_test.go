package browser_test

import (
	"errors"
	"testing"

	"github.com/go-rod/rod/lib/proto"

	"github.com/showzs/markdown-pdf-m-cli/internal/browser"
	"github.com/showzs/markdown-pdf-m-cli/internal/config"
)

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - print option derivation
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		opts, err := browser.BuildPDFOptions(&config.Config{})
		if err != nil {
			t.Fatalf("BuildPDFOptions error: %v", err)
		}
		if opts.Format != "A4" {
			t.Errorf("Format = %q, want A4", opts.Format)
		}
		if opts.Scale != 1 {
			t.Errorf("Scale = %v, want 1", opts.Scale)
		}
		if !opts.PrintBackground {
			t.Error("PrintBackground = false, want true")
		}
		if opts.Landscape {
			t.Error("Landscape = true by default")
		}
	})

	t.Run("explicit width suppresses format", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Format: strPtr("Letter"), Width: strPtr("10in")}
		opts, err := browser.BuildPDFOptions(cfg)
		if err != nil {
			t.Fatalf("BuildPDFOptions error: %v", err)
		}
		if opts.Format != "" {
			t.Errorf("Format = %q, want empty when width is set", opts.Format)
		}
		if opts.Width == nil || *opts.Width != 10 {
			t.Errorf("Width = %v, want 10 inches", opts.Width)
		}
	})

	t.Run("explicit height alone also suppresses format", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Height: strPtr("5in")}
		opts, err := browser.BuildPDFOptions(cfg)
		if err != nil {
			t.Fatalf("BuildPDFOptions error: %v", err)
		}
		if opts.Format != "" {
			t.Errorf("Format = %q, want empty when height is set", opts.Format)
		}
	})

	t.Run("margins parsed to inches", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Margin: config.MarginConfig{Top: strPtr("2.54cm"), Left: strPtr("96px")}}
		opts, err := browser.BuildPDFOptions(cfg)
		if err != nil {
			t.Fatalf("BuildPDFOptions error: %v", err)
		}
		if opts.MarginTop == nil || *opts.MarginTop != 1 {
			t.Errorf("MarginTop = %v, want 1 inch", opts.MarginTop)
		}
		if opts.MarginLeft == nil || *opts.MarginLeft != 1 {
			t.Errorf("MarginLeft = %v, want 1 inch", opts.MarginLeft)
		}
		if opts.MarginBottom != nil {
			t.Errorf("MarginBottom = %v, want unset", opts.MarginBottom)
		}
	})

	t.Run("landscape orientation", func(t *testing.T) {
		t.Parallel()

		opts, err := browser.BuildPDFOptions(&config.Config{Orientation: strPtr("Landscape")})
		if err != nil {
			t.Fatalf("BuildPDFOptions error: %v", err)
		}
		if !opts.Landscape {
			t.Error("Landscape = false for landscape orientation")
		}
	})

	t.Run("bad length is an error", func(t *testing.T) {
		t.Parallel()

		_, err := browser.BuildPDFOptions(&config.Config{Width: strPtr("wide")})
		if !errors.Is(err, browser.ErrBadLength) {
			t.Errorf("error = %v, want ErrBadLength", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestBuildScreenshotOptions - capture option derivation
// ---------------------------------------------------------------------------

func TestBuildScreenshotOptions(t *testing.T) {
	t.Parallel()

	t.Run("png defaults to full page", func(t *testing.T) {
		t.Parallel()

		opts := browser.BuildScreenshotOptions(&config.Config{}, "png")
		if opts.Format != proto.PageCaptureScreenshotFormatPng {
			t.Errorf("Format = %v, want png", opts.Format)
		}
		if !opts.FullPage {
			t.Error("FullPage = false by default")
		}
		if opts.Quality != nil {
			t.Errorf("Quality = %v, want unset for png", opts.Quality)
		}
	})

	t.Run("jpeg carries quality", func(t *testing.T) {
		t.Parallel()

		opts := browser.BuildScreenshotOptions(&config.Config{Quality: intPtr(80)}, "jpeg")
		if opts.Format != proto.PageCaptureScreenshotFormatJpeg {
			t.Errorf("Format = %v, want jpeg", opts.Format)
		}
		if opts.Quality == nil || *opts.Quality != 80 {
			t.Errorf("Quality = %v, want 80", opts.Quality)
		}
	})

	t.Run("complete clip disables full page", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Clip: config.ClipConfig{
			X: floatPtr(0), Y: floatPtr(10), Width: floatPtr(800), Height: floatPtr(600),
		}}
		opts := browser.BuildScreenshotOptions(cfg, "png")
		if opts.FullPage {
			t.Error("FullPage = true with a complete clip")
		}
		if opts.Clip == nil || opts.Clip.Width != 800 || opts.Clip.Y != 10 {
			t.Errorf("Clip = %+v, want configured rectangle", opts.Clip)
		}
	})

	t.Run("partial clip is ignored", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Clip: config.ClipConfig{X: floatPtr(0), Y: floatPtr(0), Width: floatPtr(800)}}
		opts := browser.BuildScreenshotOptions(cfg, "png")
		if !opts.FullPage || opts.Clip != nil {
			t.Errorf("partial clip applied: FullPage=%v Clip=%+v", opts.FullPage, opts.Clip)
		}
	})

	t.Run("omit background", func(t *testing.T) {
		t.Parallel()

		opts := browser.BuildScreenshotOptions(&config.Config{OmitBackground: boolPtr(true)}, "png")
		if !opts.OmitBackground {
			t.Error("OmitBackground = false, want true")
		}
	})
}
