// Package export writes assembled documents to their final form: a direct
// file write for HTML, a browser round trip for PDF and image targets.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reconquest/pkg/log"

	"github.com/showzs/markdown-pdf-m-cli/internal/browser"
	"github.com/showzs/markdown-pdf-m-cli/internal/config"
	"github.com/showzs/markdown-pdf-m-cli/internal/document"
	"github.com/showzs/markdown-pdf-m-cli/internal/fileutil"
	"github.com/showzs/markdown-pdf-m-cli/internal/pipeline"
)

// Sentinel errors for output operations.
var (
	ErrCreateOutputDir = errors.New("failed to create output directory")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrWriteTempPage   = errors.New("failed to write temporary page")
)

// tempSuffix marks the sibling HTML file fed to the browser for non-HTML
// targets.
const tempSuffix = "_tmp.html"

// OutputPath computes where the output for one target lands: the input's
// base name with the target extension, inside the first directory present
// in the precedence chain override > configured > document's own.
func OutputPath(docPath string, target pipeline.Target, overrideDir string, cfg *config.Config) string {
	name := fileutil.StripExt(filepath.Base(docPath)) + "." + target.Ext()

	dir := overrideDir
	if dir == "" {
		dir = configuredOutputDir(docPath, cfg)
	}
	if dir == "" {
		dir = filepath.Dir(docPath)
	}
	return filepath.Join(fileutil.ExpandHome(dir), name)
}

// configuredOutputDir resolves the settings-level output directory, which
// may be relative to either the document or the working directory.
func configuredOutputDir(docPath string, cfg *config.Config) string {
	dir := fileutil.ExpandHome(config.String(cfg.OutputDirectory, ""))
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	if config.Bool(cfg.OutputDirectoryRelativePathFile, false) {
		return filepath.Join(filepath.Dir(docPath), dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// Emit writes one assembled document for one target and returns the path
// written. HTML is written directly; other targets route the page through
// the browser capability.
func Emit(ctx context.Context, assembled string, doc *document.Document, target pipeline.Target, overrideDir string, cfg *config.Config, capture browser.Capture) (string, error) {
	outPath := OutputPath(doc.Path, target, overrideDir, cfg)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCreateOutputDir, err)
	}

	if target == pipeline.TargetHTML {
		if err := os.WriteFile(outPath, []byte(assembled), 0o644); err != nil { // #nosec G306 -- user document
			return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, outPath, err)
		}
		return outPath, nil
	}

	data, err := captureTarget(ctx, assembled, outPath, target, cfg, capture)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil { // #nosec G306 -- user document
		return "", fmt.Errorf("%w: %s: %v", ErrWriteOutput, outPath, err)
	}
	return outPath, nil
}

// captureTarget writes the page to a sibling temp file, drives the browser
// over it and returns the captured bytes. The temp file is removed unless
// debug mode asks to keep it for inspection.
func captureTarget(ctx context.Context, assembled, outPath string, target pipeline.Target, cfg *config.Config, capture browser.Capture) ([]byte, error) {
	tempPath := fileutil.StripExt(outPath) + tempSuffix
	if err := os.WriteFile(tempPath, []byte(assembled), 0o644); err != nil { // #nosec G306 -- sibling of user document
		return nil, fmt.Errorf("%w: %s: %v", ErrWriteTempPage, tempPath, err)
	}
	if !config.Bool(cfg.Debug, false) {
		defer func() { _ = os.Remove(tempPath) }()
	} else {
		log.Debugf(nil, "keeping temporary page %s", tempPath)
	}

	uri, err := fileURI(tempPath)
	if err != nil {
		return nil, err
	}

	switch target {
	case pipeline.TargetPDF:
		opts, err := browser.BuildPDFOptions(cfg)
		if err != nil {
			return nil, err
		}
		return capture.PDF(ctx, uri, opts)
	default:
		opts := browser.BuildScreenshotOptions(cfg, target.Ext())
		return capture.Screenshot(ctx, uri, opts)
	}
}

// Run processes every requested target for one document, strictly in
// sequence. A browser failure aborts the whole invocation; targets already
// emitted stay on disk.
func Run(ctx context.Context, doc *document.Document, targets []pipeline.Target, overrideDir string, cfg *config.Config) error {
	// Decide the browser binary once per invocation and thread it down.
	var capture browser.Capture
	for _, t := range targets {
		if t.NeedsBrowser() {
			capture = browser.Capture{ExecutablePath: browser.ResolveExecutable(cfg)}
			break
		}
	}

	for _, target := range targets {
		fragment, err := pipeline.New(doc, cfg, target).Render(ctx)
		if err != nil {
			return err
		}
		assembled, err := pipeline.Assemble(fragment, doc, cfg, target)
		if err != nil {
			return err
		}
		written, err := Emit(ctx, assembled, doc, target, overrideDir, cfg, capture)
		if err != nil {
			return err
		}
		log.Infof(nil, "wrote %s", written)
	}
	return nil
}

// fileURI converts a path to the file URI the browser navigates to.
func fileURI(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWriteTempPage, err)
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	// A literal # in the document name would start a fragment and truncate
	// the path the browser loads.
	p = strings.ReplaceAll(p, "#", "%23")
	return "file://" + p, nil
}
