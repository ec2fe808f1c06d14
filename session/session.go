// Package session owns one diff review from open to apply or cancel: the
// computed entries, the set of change blocks the reviewer keeps, and the
// state transitions around applying the reconstructed content.
package session

import (
	"errors"
	"fmt"

	"github.com/sokinpui/sift/diff"
)

// State of a review session.
type State int

const (
	StateOpen State = iota
	StateApplied
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateApplied:
		return "applied"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	// ErrNotOpen reports a mutation attempted on an applied or cancelled
	// session. A new review needs a new session.
	ErrNotOpen = errors.New("session: not open")

	// ErrEmptySelection reports an apply with no change blocks selected.
	// Saving a no-op would be indistinguishable from "nothing changed", so
	// the caller is expected to surface this to the reviewer instead.
	ErrEmptySelection = errors.New("session: no change blocks selected")
)

// Session holds one diff computation and its selection state. Sessions are
// values owned by the caller; nothing is shared between sessions, so a new
// one can never inherit a stale selection. A session is not safe for
// concurrent use.
type Session struct {
	original  string
	candidate string
	entries   []diff.Entry
	selection *Selection
	state     State
}

// Open computes the diff between original and candidate and starts a review
// with every change block selected.
func Open(original, candidate string) *Session {
	entries := diff.Generate(original, candidate)
	return &Session{
		original:  original,
		candidate: candidate,
		entries:   entries,
		selection: newSelection(entries),
		state:     StateOpen,
	}
}

// Entries returns the computed diff for rendering. Callers must not modify
// the returned slice.
func (s *Session) Entries() []diff.Entry { return s.entries }

// Original returns the baseline text the session was opened with.
func (s *Session) Original() string { return s.original }

// Candidate returns the proposed text the session was opened with.
func (s *Session) Candidate() string { return s.candidate }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// HasChanges reports whether the diff contains any change blocks.
func (s *Session) HasChanges() bool { return len(diff.Blocks(s.entries)) > 0 }

// Selected reports whether a change block is currently kept.
func (s *Session) Selected(block int) bool { return s.selection.Selected(block) }

// SelectedCount returns the number of currently kept blocks.
func (s *Session) SelectedCount() int { return s.selection.Count() }

// Stats returns the added/deleted line counts of the diff.
func (s *Session) Stats() diff.Stats { return diff.Count(s.entries) }

// Toggle flips whether the given block is kept.
func (s *Session) Toggle(block int) error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	s.selection.Toggle(block)
	return nil
}

// ToggleAll clears the selection when every known block is kept, and keeps
// every block otherwise. The full block set is recomputed from the entries
// on each call rather than cached.
func (s *Session) ToggleAll() error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	blocks := diff.Blocks(s.entries)
	if s.fullySelected(blocks) {
		s.selection.Clear()
		return nil
	}
	s.selection.Reset(blocks)
	return nil
}

// FullySelected reports whether every change block is kept. A diff with no
// blocks is never fully selected.
func (s *Session) FullySelected() bool {
	return s.fullySelected(diff.Blocks(s.entries))
}

func (s *Session) fullySelected(blocks []int) bool {
	return len(blocks) > 0 && s.selection.Count() == len(blocks)
}

// Preview reconstructs the content the current selection would produce
// without changing the session state.
func (s *Session) Preview() (string, error) {
	return diff.Reconstruct(s.entries, s.selection)
}

// Apply reconstructs the selected content and hands it to write. An empty
// selection is rejected before anything is written. When write fails the
// session stays open so the apply can be retried without recomputing the
// diff; on success the session becomes terminal.
func (s *Session) Apply(write func(content string) error) (string, error) {
	if s.state != StateOpen {
		return "", ErrNotOpen
	}
	if s.selection.Count() == 0 {
		return "", ErrEmptySelection
	}
	content, err := diff.Reconstruct(s.entries, s.selection)
	if err != nil {
		return "", err
	}
	if err := write(content); err != nil {
		return "", fmt.Errorf("write reconstructed content: %w", err)
	}
	s.state = StateApplied
	return content, nil
}

// Cancel discards the review. The session becomes terminal and its
// selection is never reused.
func (s *Session) Cancel() error {
	if s.state != StateOpen {
		return ErrNotOpen
	}
	s.state = StateCancelled
	return nil
}
