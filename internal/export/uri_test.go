package export

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestFileURI - browser navigation target
// ---------------------------------------------------------------------------

func TestFileURI(t *testing.T) {
	t.Parallel()

	t.Run("absolute path", func(t *testing.T) {
		t.Parallel()

		got, err := fileURI("/docs/report_tmp.html")
		if err != nil {
			t.Fatalf("fileURI error: %v", err)
		}
		if want := "file:///docs/report_tmp.html"; got != want {
			t.Errorf("fileURI = %q, want %q", got, want)
		}
	})

	t.Run("hash in the name is escaped", func(t *testing.T) {
		t.Parallel()

		got, err := fileURI("/docs/issue #42_tmp.html")
		if err != nil {
			t.Fatalf("fileURI error: %v", err)
		}
		if strings.Contains(got, "#") {
			t.Errorf("fileURI = %q, unescaped # would start a fragment", got)
		}
		if want := "file:///docs/issue %2342_tmp.html"; got != want {
			t.Errorf("fileURI = %q, want %q", got, want)
		}
	})
}
