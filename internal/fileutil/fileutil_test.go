package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/showzs/markdown-pdf-m-cli/internal/fileutil"
)

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "present.md")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !fileutil.FileExists(file) {
		t.Errorf("FileExists(%q) = false, want true", file)
	}
	if fileutil.FileExists(filepath.Join(dir, "absent.md")) {
		t.Error("FileExists = true for a missing file")
	}
	if fileutil.FileExists(dir) {
		t.Error("FileExists = true for a directory")
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com/a.css", true},
		{"https://example.com/a.css", true},
		{"ftp://example.com/a.css", false},
		{"/local/a.css", false},
		{"a.css", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := fileutil.IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExpandHome(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/docs/a.md", filepath.Join(home, "docs/a.md")},
		{"/abs/a.md", "/abs/a.md"},
		{"rel/a.md", "rel/a.md"},
		{"~user/a.md", "~user/a.md"},
	}

	for _, tt := range tests {
		if got := fileutil.ExpandHome(tt.in); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"/a/b/report.md", "/a/b/report"},
		{"report.md", "report"},
		{"archive.tar.gz", "archive.tar"},
		{"noext", "noext"},
	}

	for _, tt := range tests {
		if got := fileutil.StripExt(tt.in); got != tt.want {
			t.Errorf("StripExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
