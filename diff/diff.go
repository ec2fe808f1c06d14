// Package diff computes line-level diffs between two versions of a text
// file and reconstructs a final content from a per-block selection of the
// changes. Added and deleted lines are grouped into change blocks, the unit
// a reviewer accepts or rejects.
package diff

import "strings"

// EntryType classifies a single diff line.
type EntryType int

const (
	Common EntryType = iota
	Added
	Deleted
)

func (t EntryType) String() string {
	switch t {
	case Common:
		return "common"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// NoBlock is the Block value of entries that belong to no change block.
const NoBlock = -1

// Entry is one line of a computed diff.
//
// OldLine and NewLine are 1-based; 0 means the line does not exist on that
// side. Common entries carry both line numbers and Block == NoBlock. Added
// entries carry only NewLine, deleted entries only OldLine; both carry the
// id of the change block they belong to.
type Entry struct {
	Type    EntryType
	Content string
	OldLine int
	NewLine int
	Block   int
}

// splitLines splits literally on '\n'. Empty text has no lines, so a file
// without a baseline diffs as pure additions. A trailing newline yields a
// trailing empty line; that is intentional and survives reconstruction.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Generate computes the ordered diff between originalText and newText.
//
// It walks both line slices alongside their LCS. Lines equal to the current
// LCS element on both sides become common entries. A divergent step emits a
// deleted entry (original line missing from the new text), an added entry
// (new line missing from the original), or both at once for a paired
// replacement; entries emitted in the same step share one block id. The id
// counter advances once per divergent step, so a contiguous multi-line edit
// spans several blocks, one per step. Callers key off that granularity.
func Generate(originalText, newText string) []Entry {
	original := splitLines(originalText)
	updated := splitLines(newText)
	anchors := LCS(original, updated)

	var entries []Entry
	oi, ni, ai := 0, 0, 0
	block := 0

	// The walk ends when both texts are consumed, even if anchors remain;
	// an unconsumed anchor can only occur at input boundaries.
	for oi < len(original) || ni < len(updated) {
		var anchor string
		anchored := ai < len(anchors)
		if anchored {
			anchor = anchors[ai]
		}

		if oi < len(original) && ni < len(updated) && anchored &&
			original[oi] == anchor && updated[ni] == anchor {
			entries = append(entries, Entry{
				Type:    Common,
				Content: anchor,
				OldLine: oi + 1,
				NewLine: ni + 1,
				Block:   NoBlock,
			})
			oi++
			ni++
			ai++
			continue
		}

		if oi < len(original) && (!anchored || original[oi] != anchor) {
			entries = append(entries, Entry{
				Type:    Deleted,
				Content: original[oi],
				OldLine: oi + 1,
				Block:   block,
			})
			oi++
		}
		if ni < len(updated) && (!anchored || updated[ni] != anchor) {
			entries = append(entries, Entry{
				Type:    Added,
				Content: updated[ni],
				NewLine: ni + 1,
				Block:   block,
			})
			ni++
		}
		block++
	}
	return entries
}

// Blocks returns the distinct change block ids in the order they first
// appear in entries.
func Blocks(entries []Entry) []int {
	var ids []int
	seen := make(map[int]struct{})
	for _, e := range entries {
		if e.Block == NoBlock {
			continue
		}
		if _, ok := seen[e.Block]; ok {
			continue
		}
		seen[e.Block] = struct{}{}
		ids = append(ids, e.Block)
	}
	return ids
}

// Stats holds line and block counts derived from a diff. They are computed
// on demand and never stored.
type Stats struct {
	AddedLines   int
	DeletedLines int
	Blocks       int
}

// Count tallies the added and deleted lines and distinct change blocks.
func Count(entries []Entry) Stats {
	var s Stats
	seen := make(map[int]struct{})
	for _, e := range entries {
		switch e.Type {
		case Added:
			s.AddedLines++
		case Deleted:
			s.DeletedLines++
		}
		if e.Block != NoBlock {
			seen[e.Block] = struct{}{}
		}
	}
	s.Blocks = len(seen)
	return s
}
