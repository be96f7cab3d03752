package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/showzs/markdown-pdf-m-cli/internal/config"
	"github.com/showzs/markdown-pdf-m-cli/internal/pipeline"
)

// ---------------------------------------------------------------------------
// TestParseFlags - command line parsing
// ---------------------------------------------------------------------------

func TestParseFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		want     cliFlags
		wantArgs []string
	}{
		{
			name: "input flag",
			args: []string{"-i", "readme.md", "-t", "pdf,html"},
			want: cliFlags{input: "readme.md", types: "pdf,html"},
		},
		{
			name:     "positional input",
			args:     []string{"readme.md"},
			wantArgs: []string{"readme.md"},
		},
		{
			name: "long flags",
			args: []string{"--outdir", "/tmp/out", "--config", "s.json", "--debug"},
			want: cliFlags{outDir: "/tmp/out", config: "s.json", debug: true},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, args, err := parseFlags(tt.args)
			if err != nil {
				t.Fatalf("parseFlags error: %v", err)
			}
			if *flags != tt.want {
				t.Errorf("flags = %+v, want %+v", *flags, tt.want)
			}
			if len(args) != len(tt.wantArgs) {
				t.Errorf("positional args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestRequestedTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		types string
		want  []string
	}{
		{"pdf", []string{"pdf"}},
		{"html, pdf ,png", []string{"html", "pdf", "png"}},
		{"pdf,,html", []string{"pdf", "html"}},
		{"", nil},
	}

	for _, tt := range tests {
		f := &cliFlags{types: tt.types}
		if got := f.requestedTypes(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("requestedTypes(%q) = %v, want %v", tt.types, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestResolveTargets - output type selection
// ---------------------------------------------------------------------------

func TestResolveTargets(t *testing.T) {
	t.Parallel()

	t.Run("flag wins over config", func(t *testing.T) {
		t.Parallel()

		flags := &cliFlags{types: "html"}
		cfg := &config.Config{Type: []string{"pdf"}}
		targets, err := resolveTargets(flags, cfg)
		if err != nil {
			t.Fatalf("resolveTargets error: %v", err)
		}
		if len(targets) != 1 || targets[0] != pipeline.TargetHTML {
			t.Errorf("targets = %v, want [html]", targets)
		}
	})

	t.Run("config used without a flag", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Type: []string{"png", "jpeg"}}
		targets, err := resolveTargets(&cliFlags{}, cfg)
		if err != nil {
			t.Fatalf("resolveTargets error: %v", err)
		}
		want := []pipeline.Target{pipeline.TargetPNG, pipeline.TargetJPEG}
		if !reflect.DeepEqual(targets, want) {
			t.Errorf("targets = %v, want %v", targets, want)
		}
	})

	t.Run("pdf when nothing is configured", func(t *testing.T) {
		t.Parallel()

		targets, err := resolveTargets(&cliFlags{}, &config.Config{})
		if err != nil {
			t.Fatalf("resolveTargets error: %v", err)
		}
		if len(targets) != 1 || targets[0] != pipeline.TargetPDF {
			t.Errorf("targets = %v, want [pdf]", targets)
		}
	})

	t.Run("all entries unsupported is an error", func(t *testing.T) {
		t.Parallel()

		_, err := resolveTargets(&cliFlags{types: "docx,gif"}, &config.Config{})
		if !errors.Is(err, errNoValidTargets) {
			t.Errorf("error = %v, want errNoValidTargets", err)
		}
	})

	t.Run("unsupported entries are dropped not fatal", func(t *testing.T) {
		t.Parallel()

		targets, err := resolveTargets(&cliFlags{types: "docx,pdf"}, &config.Config{})
		if err != nil {
			t.Fatalf("resolveTargets error: %v", err)
		}
		if len(targets) != 1 || targets[0] != pipeline.TargetPDF {
			t.Errorf("targets = %v, want [pdf]", targets)
		}
	})
}

// ---------------------------------------------------------------------------
// TestExpandInputs - input collection and globbing
// ---------------------------------------------------------------------------

func TestExpandInputs(t *testing.T) {
	t.Parallel()

	writeFiles := func(t *testing.T, dir string, names ...string) {
		t.Helper()
		for _, name := range names {
			path := filepath.Join(dir, name)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(path, []byte("# x\n"), 0o600); err != nil {
				t.Fatal(err)
			}
		}
	}

	t.Run("literal path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFiles(t, dir, "a.md")
		inputs, err := expandInputs(&cliFlags{}, []string{filepath.Join(dir, "a.md")})
		if err != nil {
			t.Fatalf("expandInputs error: %v", err)
		}
		if len(inputs) != 1 {
			t.Errorf("inputs = %v, want one entry", inputs)
		}
	})

	t.Run("recursive glob", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFiles(t, dir, "a.md", "sub/b.md", "sub/deep/c.md")
		inputs, err := expandInputs(&cliFlags{}, []string{filepath.Join(dir, "**", "*.md")})
		if err != nil {
			t.Fatalf("expandInputs error: %v", err)
		}
		if len(inputs) != 3 {
			t.Errorf("inputs = %v, want three entries", inputs)
		}
	})

	t.Run("flag and positional inputs combine", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFiles(t, dir, "a.md", "b.md")
		flags := &cliFlags{input: filepath.Join(dir, "a.md")}
		inputs, err := expandInputs(flags, []string{filepath.Join(dir, "b.md")})
		if err != nil {
			t.Fatalf("expandInputs error: %v", err)
		}
		if len(inputs) != 2 {
			t.Errorf("inputs = %v, want two entries", inputs)
		}
	})

	t.Run("no inputs at all", func(t *testing.T) {
		t.Parallel()

		_, err := expandInputs(&cliFlags{}, nil)
		if !errors.Is(err, errNoInput) {
			t.Errorf("error = %v, want errNoInput", err)
		}
	})

	t.Run("nothing matches", func(t *testing.T) {
		t.Parallel()

		_, err := expandInputs(&cliFlags{}, []string{filepath.Join(t.TempDir(), "*.md")})
		if !errors.Is(err, errNoInputMatch) {
			t.Errorf("error = %v, want errNoInputMatch", err)
		}
	})
}
