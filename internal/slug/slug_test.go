package slug_test

import (
	"fmt"
	"testing"

	"github.com/showzs/markdown-pdf-m-cli/internal/slug"
)

// ---------------------------------------------------------------------------
// TestMake - Heading text to fragment id
// ---------------------------------------------------------------------------

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "simple heading",
			text: "Hello World",
			want: "hello-world",
		},
		{
			name: "punctuation stripped",
			text: "What's new, exactly?",
			want: "whats-new-exactly",
		},
		{
			name: "inner whitespace collapses to one hyphen",
			text: "a   \t b",
			want: "a-b",
		},
		{
			name: "surrounding whitespace trimmed",
			text: "  padded  ",
			want: "padded",
		},
		{
			name: "full-width punctuation stripped",
			text: "序章：はじめに",
			want: "%E5%BA%8F%E7%AB%A0%E3%81%AF%E3%81%98%E3%82%81%E3%81%AB",
		},
		{
			name: "punctuation only",
			text: "?!...",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
		{
			name: "mixed case lowered",
			text: "API Reference",
			want: "api-reference",
		},
		{
			name: "leading and trailing hyphens trimmed",
			text: "- dash item -",
			want: "dash-item",
		},
		{
			name: "stripped punctuation can leave hyphen runs",
			text: "a & c",
			want: "a--c",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := slug.Make(tt.text)
			if got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRegistryAssign - Collision suffixes
// ---------------------------------------------------------------------------

func TestRegistryAssign(t *testing.T) {
	t.Parallel()

	t.Run("duplicates get numbered suffixes", func(t *testing.T) {
		t.Parallel()

		reg := slug.NewRegistry()
		got := []string{
			reg.Assign("Intro"),
			reg.Assign("Intro"),
			reg.Assign("Intro"),
		}
		want := []string{"intro", "intro-1", "intro-2"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Assign #%d = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("distinct headings stay distinct", func(t *testing.T) {
		t.Parallel()

		reg := slug.NewRegistry()
		seen := make(map[string]bool)
		for i := 0; i < 20; i++ {
			id := reg.Assign(fmt.Sprintf("Section %d", i))
			if seen[id] {
				t.Fatalf("duplicate id %q", id)
			}
			seen[id] = true
		}
	})

	t.Run("empty slug is never registered", func(t *testing.T) {
		t.Parallel()

		reg := slug.NewRegistry()
		if got := reg.Assign("!!!"); got != "" {
			t.Errorf("Assign(%q) = %q, want empty", "!!!", got)
		}
		// A later empty heading must not collide into "-1".
		if got := reg.Assign("???"); got != "" {
			t.Errorf("Assign(%q) = %q, want empty", "???", got)
		}
	})

	t.Run("suffix collision with literal heading", func(t *testing.T) {
		t.Parallel()

		reg := slug.NewRegistry()
		first := reg.Assign("Intro")
		second := reg.Assign("Intro")
		third := reg.Assign("Intro 1")
		if first != "intro" || second != "intro-1" {
			t.Fatalf("setup produced %q, %q", first, second)
		}
		if third == second {
			t.Errorf("Assign(%q) collided with existing id %q", "Intro 1", second)
		}
	})
}
