package diff

import (
	"errors"
	"testing"
)

// pickSet is a minimal Selection for tests.
type pickSet map[int]struct{}

func (p pickSet) Selected(block int) bool {
	_, ok := p[block]
	return ok
}

func pickAll(entries []Entry) pickSet {
	p := make(pickSet)
	for _, id := range Blocks(entries) {
		p[id] = struct{}{}
	}
	return p
}

func TestReconstructRoundTrips(t *testing.T) {
	tests := []struct {
		name     string
		original string
		updated  string
	}{
		{"replacement", "a\nb\nc", "a\nx\nc"},
		{"append", "a\nb", "a\nb\nc"},
		{"new file", "", "hello"},
		{"emptied file", "hello", ""},
		{"rewrite", "a\nb\nc", "x\ny"},
		{"trailing newline", "a\nb", "a\nb\n"},
		{"identical", "a\nb", "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Generate(tt.original, tt.updated)

			accepted, err := Reconstruct(entries, pickAll(entries))
			if err != nil {
				t.Fatalf("Reconstruct(all): %v", err)
			}
			if accepted != tt.updated {
				t.Errorf("full accept = %q, want %q", accepted, tt.updated)
			}

			rejected, err := Reconstruct(entries, pickSet{})
			if err != nil {
				t.Fatalf("Reconstruct(none): %v", err)
			}
			if rejected != tt.original {
				t.Errorf("full reject = %q, want %q", rejected, tt.original)
			}
		})
	}
}

func TestReconstructPartialSelection(t *testing.T) {
	// Two independent edits; accept the first, reject the second.
	entries := Generate("a\nb\nc\nd", "a\nx\nc\ny")

	blocks := Blocks(entries)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %v", blocks)
	}

	got, err := Reconstruct(entries, pickSet{blocks[0]: {}})
	if err != nil {
		t.Fatal(err)
	}
	if want := "a\nx\nc\nd"; got != want {
		t.Errorf("partial selection = %q, want %q", got, want)
	}
}

func TestReconstructRejectsMalformedEntry(t *testing.T) {
	entries := []Entry{{Type: EntryType(42), Content: "?"}}
	if _, err := Reconstruct(entries, pickSet{}); !errors.Is(err, ErrMalformedEntry) {
		t.Errorf("err = %v, want ErrMalformedEntry", err)
	}
}
