// Package index assigns the deterministic flat integer index that the
// Differ, Patcher and Chain Codec all share. The counter is kept as
// explicit state on a Walker rather than threaded through closures.
package index

import "github.com/didplc/compress/internal/optree"

// Walker hands out consecutive flat indices in pre-order tree-walk
// order. It is also used directly by the Differ and Patcher so that all
// three components consume indices identically.
type Walker struct {
	next int
}

// Next returns the next index and advances the counter.
func (w *Walker) Next() int {
	idx := w.next
	w.next++
	return idx
}

// Peek returns the index Next would return, without consuming it.
func (w *Walker) Peek() int {
	return w.next
}

// Skip advances the counter by n without assigning any node to the
// skipped indices.
func (w *Walker) Skip(n int) {
	w.next += n
}

// FlatIndex returns every node the pre-order walk visits, keyed by its
// index, including one entry per map-entry administrative slot — so
// SubtreeCount(T) always equals len(FlatIndex(T)) for the same T. An
// entry marker's node is a synthetic null leaf: it carries no content
// of its own, only the key name that follows it does.
func FlatIndex(n *optree.Node) map[int]*optree.Node {
	out := make(map[int]*optree.Node)
	w := &Walker{}
	walkFlatIndex(n, w, out)
	return out
}

func walkFlatIndex(n *optree.Node, w *Walker, out map[int]*optree.Node) {
	idx := w.Next()
	out[idx] = n
	switch n.Kind {
	case optree.KindMap:
		for _, e := range n.Entries {
			markerIdx := w.Next()
			out[markerIdx] = optree.NewNull()
			keyIdx := w.Next()
			out[keyIdx] = optree.NewText(e.Key)
			walkFlatIndex(e.Value, w, out)
		}
	case optree.KindSeq:
		for _, item := range n.Items {
			walkFlatIndex(item, w, out)
		}
	}
}

// SubtreeCount returns the number of indices a subtree consumes under
// the pre-order walk, including its map-entry administrative slots.
func SubtreeCount(n *optree.Node) int {
	switch n.Kind {
	case optree.KindMap:
		total := 1
		for _, e := range n.Entries {
			total += 2 // entry marker + key name
			total += SubtreeCount(e.Value)
		}
		return total
	case optree.KindSeq:
		total := 1
		for _, item := range n.Items {
			total += SubtreeCount(item)
		}
		return total
	default:
		return 1
	}
}
