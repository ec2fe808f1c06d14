package diff

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedEntry reports a diff entry whose type is outside the known
// set. It signals a broken call contract, not a reviewable outcome.
var ErrMalformedEntry = errors.New("diff: malformed entry type")

// Selection reports whether a change block is currently selected. It is
// implemented by session.Selection; reconstruction only needs membership.
type Selection interface {
	Selected(block int) bool
}

// Reconstruct builds the final file content from entries under sel.
//
// Common lines are always kept. An added line is kept only when its block is
// selected. A deleted line is kept only when its block is NOT selected:
// rejecting a change restores the original line rather than dropping it.
// The kept lines are joined with '\n'.
func Reconstruct(entries []Entry, sel Selection) (string, error) {
	kept := make([]string, 0, len(entries))
	for _, e := range entries {
		switch e.Type {
		case Common:
			kept = append(kept, e.Content)
		case Added:
			if sel.Selected(e.Block) {
				kept = append(kept, e.Content)
			}
		case Deleted:
			if !sel.Selected(e.Block) {
				kept = append(kept, e.Content)
			}
		default:
			return "", fmt.Errorf("%w: %d", ErrMalformedEntry, int(e.Type))
		}
	}
	return strings.Join(kept, "\n"), nil
}
