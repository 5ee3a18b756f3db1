package search

import "testing"

// TestDeduplicatorAdmit tests canonical identity rules: trailing slashes
// and fragments collapse, query strings do not.
func TestDeduplicatorAdmit(t *testing.T) {
	t.Parallel()

	t.Run("trailing slash variant is a duplicate", func(t *testing.T) {
		t.Parallel()

		d := NewDeduplicator()
		if !d.Admit("https://example.com/post") {
			t.Error("expected first URL to be admitted")
		}
		if d.Admit("https://example.com/post/") {
			t.Error("expected trailing-slash variant to be rejected")
		}
	})

	t.Run("fragment variant is a duplicate", func(t *testing.T) {
		t.Parallel()

		d := NewDeduplicator()
		if !d.Admit("https://example.com/post") {
			t.Error("expected first URL to be admitted")
		}
		if d.Admit("https://example.com/post#section-2") {
			t.Error("expected fragment variant to be rejected")
		}
	})

	t.Run("query variants are distinct", func(t *testing.T) {
		t.Parallel()

		d := NewDeduplicator()
		if !d.Admit("https://example.com/post?page=1") {
			t.Error("expected first URL to be admitted")
		}
		if !d.Admit("https://example.com/post?page=2") {
			t.Error("expected different query string to be admitted")
		}
	})

	t.Run("case-insensitive scheme and host", func(t *testing.T) {
		t.Parallel()

		d := NewDeduplicator()
		if !d.Admit("https://Example.COM/Post") {
			t.Error("expected first URL to be admitted")
		}
		if d.Admit("HTTPS://example.com/Post") {
			t.Error("expected case variant to be rejected")
		}
		// Path case is significant.
		if !d.Admit("https://example.com/post") {
			t.Error("expected different path case to be admitted")
		}
	})

	t.Run("first seen wins", func(t *testing.T) {
		t.Parallel()

		d := NewDeduplicator()
		d.Admit("https://example.com/a")
		if d.Len() != 1 {
			t.Errorf("expected 1 identity, got %d", d.Len())
		}
	})
}

// TestCanonicalURL tests the normalization rules directly.
func TestCanonicalURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"strips trailing slash", "https://example.com/a/b/", "https://example.com/a/b"},
		{"drops fragment", "https://example.com/a#frag", "https://example.com/a"},
		{"keeps query", "https://example.com/a?x=1&y=2", "https://example.com/a?x=1&y=2"},
		{"lowercases host", "https://EXAMPLE.com/a", "https://example.com/a"},
		{"trims whitespace", "  https://example.com/a  ", "https://example.com/a"},
		{"root path collapses", "https://example.com/", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := CanonicalURL(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
