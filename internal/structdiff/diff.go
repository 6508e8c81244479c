// Package structdiff implements the structural Differ and Patcher: a
// synchronized pre-order walk of two trees that classifies every change
// as an update, delete, insert or prepend, and the inverse operation
// that reconstructs the new tree from the old one plus a Diff.
package structdiff

import (
	"sort"

	"github.com/didplc/compress/internal/index"
	"github.com/didplc/compress/internal/optree"
)

// Insert is one addition recorded against a container's index. HasKey
// distinguishes a Map-container insert — (key_string, subtree) — from a
// Sequence-container insert, which carries only the appended subtree.
type Insert struct {
	HasKey bool
	Key    string
	Value  *optree.Node
}

// Diff is the structural diff between two trees, all indices
// referencing the previous (old) tree's flat pre-order indexing.
type Diff struct {
	Updates  map[int]*optree.Node
	Deletes  map[int]struct{}
	Inserts  map[int][]Insert
	Prepends map[int][]*optree.Node
}

// NewDiff returns an empty Diff.
func NewDiff() *Diff {
	return &Diff{
		Updates:  make(map[int]*optree.Node),
		Deletes:  make(map[int]struct{}),
		Inserts:  make(map[int][]Insert),
		Prepends: make(map[int][]*optree.Node),
	}
}

// IsEmpty reports whether the diff carries no changes at all.
func (d *Diff) IsEmpty() bool {
	return len(d.Updates) == 0 && len(d.Deletes) == 0 && len(d.Inserts) == 0 && len(d.Prepends) == 0
}

// differ carries the walk's private counter as explicit struct state
// rather than a captured closure variable.
type differ struct {
	w    index.Walker
	diff *Diff
}

// ComputeDiff computes the structural diff that, applied to old via
// ApplyDiff, reconstructs new.
func ComputeDiff(old, new *optree.Node) *Diff {
	d := &differ{diff: NewDiff()}
	d.walk(old, new)
	return d.diff
}

func (d *differ) walk(oldObj, newObj *optree.Node) {
	idx := d.w.Next()

	if oldObj.Kind != newObj.Kind {
		d.diff.Updates[idx] = newObj
		d.w.Skip(index.SubtreeCount(oldObj) - 1)
		return
	}

	switch oldObj.Kind {
	case optree.KindMap:
		d.walkMap(idx, oldObj, newObj)
	case optree.KindSeq:
		d.walkSeq(idx, oldObj, newObj)
	default:
		if !optree.Equal(oldObj, newObj) {
			d.diff.Updates[idx] = newObj
		}
	}
}

func (d *differ) walkMap(idx int, oldObj, newObj *optree.Node) {
	var added []string
	for _, e := range newObj.Entries {
		if !oldObj.Has(e.Key) {
			added = append(added, e.Key)
		}
	}
	sort.Slice(added, func(i, j int) bool { return optree.CanonicalLess(added[i], added[j]) })
	for _, k := range added {
		v, _ := newObj.Get(k)
		d.diff.Inserts[idx] = append(d.diff.Inserts[idx], Insert{HasKey: true, Key: k, Value: v})
	}

	for _, e := range oldObj.Entries {
		entryIdx := d.w.Next() // entry marker
		d.w.Next()              // key name

		newVal, ok := newObj.Get(e.Key)
		if !ok {
			d.diff.Deletes[entryIdx] = struct{}{}
			d.w.Skip(index.SubtreeCount(e.Value))
			continue
		}
		d.walk(e.Value, newVal)
	}
}

func (d *differ) walkSeq(idx int, oldObj, newObj *optree.Node) {
	pairs := computeLCS(oldObj.Items, newObj.Items)

	oldToNew := make(map[int]int, len(pairs))
	newMatched := make([]int, 0, len(pairs)) // new positions matched, ascending (pairs already ascending)
	for _, p := range pairs {
		oldToNew[p[0]] = p[1]
		newMatched = append(newMatched, p[1])
	}
	newToOld := make(map[int]int, len(pairs))
	for _, p := range pairs {
		newToOld[p[1]] = p[0]
	}

	oldElemIndices := make([]int, len(oldObj.Items))
	for i, item := range oldObj.Items {
		oldElemIndices[i] = d.w.Peek()
		if newPos, ok := oldToNew[i]; ok {
			d.walk(item, newObj.Items[newPos])
			continue
		}
		elemIdx := d.w.Peek()
		d.diff.Deletes[elemIdx] = struct{}{}
		d.w.Skip(index.SubtreeCount(item))
	}

	newMatchedSet := make(map[int]struct{}, len(newMatched))
	for _, np := range newMatched {
		newMatchedSet[np] = struct{}{}
	}

	for j := 0; j < len(newObj.Items); j++ {
		if _, ok := newMatchedSet[j]; ok {
			continue
		}
		nextLCSNew := -1
		for _, np := range newMatched {
			if np > j {
				nextLCSNew = np
				break
			}
		}
		if nextLCSNew != -1 {
			oldPos := newToOld[nextLCSNew]
			targetIdx := oldElemIndices[oldPos]
			d.diff.Prepends[targetIdx] = append(d.diff.Prepends[targetIdx], newObj.Items[j])
		} else {
			d.diff.Inserts[idx] = append(d.diff.Inserts[idx], Insert{Value: newObj.Items[j]}) // HasKey false: sequence insert
		}
	}
}

// computeLCS returns the longest-common-subsequence alignment between
// oldItems and newItems as ascending (oldPos, newPos) pairs, using
// structural equality. Ties in the DP reconstruction prefer the
// upper-row predecessor, so the alignment is a deterministic function of
// the input pair.
func computeLCS(oldItems, newItems []*optree.Node) [][2]int {
	n, m := len(oldItems), len(newItems)
	dp := make([][]int, n+1)
	for i := range dp {
		dp[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if optree.Equal(oldItems[i-1], newItems[j-1]) {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}

	var pairs [][2]int
	i, j := n, m
	for i > 0 && j > 0 {
		switch {
		case optree.Equal(oldItems[i-1], newItems[j-1]):
			pairs = append(pairs, [2]int{i - 1, j - 1})
			i--
			j--
		case dp[i-1][j] >= dp[i][j-1]:
			i--
		default:
			j--
		}
	}
	for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
		pairs[l], pairs[r] = pairs[r], pairs[l]
	}
	return pairs
}
