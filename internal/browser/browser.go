// Package browser drives headless Chrome to capture an assembled HTML page
// as PDF or image bytes.
//
// A browser process is launched, used and closed within the scope of a
// single capture call. Nothing is shared between captures; the isolation
// costs startup time but removes any cross-target browser state.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/showzs/markdown-pdf-m-cli/internal/config"
)

// Sentinel errors for browser operations.
var (
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrPageCreate    = errors.New("failed to create browser page")
	ErrPageLoad      = errors.New("failed to load page")
	ErrCapture       = errors.New("capture failed")
)

// idleSettle bounds the wait for page scripts to go idle after load.
// Navigation itself is not bounded; diagram scripts can be slow.
const idleSettle = time.Hour

// Capture holds the executable decision for one invocation. The path is
// resolved once and threaded down instead of being cached in process-wide
// state.
type Capture struct {
	// ExecutablePath is the browser binary to launch. Empty lets the
	// launcher download and manage its own browser.
	ExecutablePath string
}

// ResolveExecutable decides which browser binary the invocation will use:
// the configured path if any, else a system browser found on the usual
// paths, else empty for a launcher-managed download.
func ResolveExecutable(cfg *config.Config) string {
	if path := config.String(cfg.ExecutablePath, ""); path != "" {
		return path
	}
	if bin, has := launcher.LookPath(); has {
		return bin
	}
	return ""
}

// PDF loads the page at uri and prints it with the given options.
func (c Capture) PDF(ctx context.Context, uri string, opts PDFOptions) ([]byte, error) {
	req, err := opts.proto()
	if err != nil {
		return nil, err
	}

	var out []byte
	err = c.withPage(ctx, uri, func(page *rod.Page) error {
		reader, err := page.PDF(req)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCapture, err)
		}
		out, err = io.ReadAll(reader)
		if err != nil {
			return fmt.Errorf("%w: reading PDF stream: %v", ErrCapture, err)
		}
		return nil
	})
	return out, err
}

// Screenshot loads the page at uri and captures it with the given options.
func (c Capture) Screenshot(ctx context.Context, uri string, opts ScreenshotOptions) ([]byte, error) {
	var out []byte
	err := c.withPage(ctx, uri, func(page *rod.Page) error {
		if opts.OmitBackground {
			override := proto.EmulationSetDefaultBackgroundColorOverride{
				Color: &proto.DOMRGBA{R: 0, G: 0, B: 0, A: new(float64)},
			}
			if err := override.Call(page); err != nil {
				return fmt.Errorf("%w: %v", ErrCapture, err)
			}
		}
		data, err := page.Screenshot(opts.FullPage, &proto.PageCaptureScreenshot{
			Format:  opts.Format,
			Quality: opts.Quality,
			Clip:    opts.Clip,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCapture, err)
		}
		out = data
		return nil
	})
	return out, err
}

// withPage launches a browser, opens the page, waits for it to settle and
// hands it to fn. The browser always shuts down before returning.
func (c Capture) withPage(ctx context.Context, uri string, fn func(*rod.Page) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l := launcher.New()
	if c.ExecutablePath != "" {
		l = l.Bin(c.ExecutablePath)
	}
	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") != "" {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserLaunch, err)
	}
	defer func() { _ = b.Close() }()

	page, err := b.Page(proto.TargetCreateTarget{URL: uri})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Navigation is deliberately unbounded; the idle wait only caps the
	// settle time after the load event.
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.WaitIdle(idleSettle); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return fn(page)
}
