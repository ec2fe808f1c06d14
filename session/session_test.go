package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sokinpui/sift/diff"
)

func TestOpenSelectsAllBlocks(t *testing.T) {
	s := Open("a\nb\nc", "a\nx\nc")

	if s.State() != StateOpen {
		t.Fatalf("state = %s, want open", s.State())
	}
	if !s.FullySelected() {
		t.Error("new session should start with every block selected")
	}
	if got := s.SelectedCount(); got != 1 {
		t.Errorf("SelectedCount = %d, want 1", got)
	}
}

func TestToggleInvolution(t *testing.T) {
	s := Open("a\nb\nc", "a\nx\nc")
	block := diff.Blocks(s.Entries())[0]

	before := s.Selected(block)
	if err := s.Toggle(block); err != nil {
		t.Fatal(err)
	}
	if s.Selected(block) == before {
		t.Error("toggle did not flip membership")
	}
	if err := s.Toggle(block); err != nil {
		t.Fatal(err)
	}
	if s.Selected(block) != before {
		t.Error("double toggle did not restore membership")
	}
}

func TestToggleAll(t *testing.T) {
	s := Open("a\nb\nc\nd", "a\nx\nc\ny")
	blocks := diff.Blocks(s.Entries())
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %v", blocks)
	}

	// Everything selected: toggle-all clears.
	if err := s.ToggleAll(); err != nil {
		t.Fatal(err)
	}
	if got := s.SelectedCount(); got != 0 {
		t.Fatalf("after clear: SelectedCount = %d, want 0", got)
	}

	// Partial selection: toggle-all selects everything.
	if err := s.Toggle(blocks[0]); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleAll(); err != nil {
		t.Fatal(err)
	}
	if !s.FullySelected() {
		t.Error("toggle-all from partial selection should select every block")
	}
}

func TestFullySelectedRequiresBlocks(t *testing.T) {
	s := Open("same", "same")
	if s.HasChanges() {
		t.Fatal("identical texts should produce no change blocks")
	}
	if s.FullySelected() {
		t.Error("a diff with zero blocks must not count as fully selected")
	}
}

func TestApplyAcceptAndReject(t *testing.T) {
	const original = "a\nb\nc"
	const candidate = "a\nx\nc"

	t.Run("accept", func(t *testing.T) {
		s := Open(original, candidate)
		var written string
		got, err := s.Apply(func(content string) error {
			written = content
			return nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if got != candidate || written != candidate {
			t.Errorf("applied %q, want %q", written, candidate)
		}
		if s.State() != StateApplied {
			t.Errorf("state = %s, want applied", s.State())
		}
	})

	t.Run("reject keeps original line", func(t *testing.T) {
		s := Open(original, candidate)
		block := diff.Blocks(s.Entries())[0]
		if err := s.Toggle(block); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Apply(func(string) error { return nil }); !errors.Is(err, ErrEmptySelection) {
			t.Fatalf("err = %v, want ErrEmptySelection", err)
		}
		// Rejecting everything is a cancel, not an apply; preview still
		// shows the restored original.
		preview, err := s.Preview()
		if err != nil {
			t.Fatal(err)
		}
		if preview != original {
			t.Errorf("preview = %q, want %q", preview, original)
		}
	})
}

func TestApplyEmptySelection(t *testing.T) {
	s := Open("a", "b")
	if err := s.ToggleAll(); err != nil { // clears the lone block
		t.Fatal(err)
	}

	called := false
	_, err := s.Apply(func(string) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("err = %v, want ErrEmptySelection", err)
	}
	if called {
		t.Error("write must not run for an empty selection")
	}
	if s.State() != StateOpen {
		t.Errorf("state = %s, want open", s.State())
	}
}

func TestApplyWriteFailureKeepsSessionOpen(t *testing.T) {
	s := Open("a", "b")

	boom := fmt.Errorf("disk full")
	if _, err := s.Apply(func(string) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped write error", err)
	}
	if s.State() != StateOpen {
		t.Fatalf("state = %s, want open after failed write", s.State())
	}

	// Retry without recomputing anything.
	if _, err := s.Apply(func(string) error { return nil }); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if s.State() != StateApplied {
		t.Errorf("state = %s, want applied", s.State())
	}
}

func TestTerminalStatesRefuseMutation(t *testing.T) {
	s := Open("a", "b")
	if err := s.Cancel(); err != nil {
		t.Fatal(err)
	}

	if err := s.Toggle(0); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Toggle after cancel: err = %v, want ErrNotOpen", err)
	}
	if err := s.ToggleAll(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("ToggleAll after cancel: err = %v, want ErrNotOpen", err)
	}
	if _, err := s.Apply(func(string) error { return nil }); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Apply after cancel: err = %v, want ErrNotOpen", err)
	}
	if err := s.Cancel(); !errors.Is(err, ErrNotOpen) {
		t.Errorf("double Cancel: err = %v, want ErrNotOpen", err)
	}
}

func TestSessionsDoNotShareSelection(t *testing.T) {
	a := Open("a", "b")
	if err := a.ToggleAll(); err != nil { // deselect everything
		t.Fatal(err)
	}

	b := Open("a", "b")
	if !b.FullySelected() {
		t.Error("a fresh session must start fully selected regardless of prior sessions")
	}
}
