package session

import "github.com/sokinpui/sift/diff"

// Selection is the set of change blocks a reviewer currently keeps. It
// lives and dies with its session.
type Selection struct {
	picked map[int]struct{}
}

// newSelection starts with every block of the diff selected.
func newSelection(entries []diff.Entry) *Selection {
	sel := &Selection{picked: make(map[int]struct{})}
	for _, id := range diff.Blocks(entries) {
		sel.picked[id] = struct{}{}
	}
	return sel
}

// Selected reports membership, satisfying diff.Selection.
func (s *Selection) Selected(block int) bool {
	_, ok := s.picked[block]
	return ok
}

// Toggle flips membership of the given block id.
func (s *Selection) Toggle(block int) {
	if _, ok := s.picked[block]; ok {
		delete(s.picked, block)
		return
	}
	s.picked[block] = struct{}{}
}

// Count returns the number of selected blocks.
func (s *Selection) Count() int { return len(s.picked) }

// Clear empties the selection.
func (s *Selection) Clear() {
	s.picked = make(map[int]struct{})
}

// Reset replaces the selection with exactly the given blocks.
func (s *Selection) Reset(blocks []int) {
	s.picked = make(map[int]struct{}, len(blocks))
	for _, id := range blocks {
		s.picked[id] = struct{}{}
	}
}
