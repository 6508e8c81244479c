package structdiff

import (
	"sort"

	"go.uber.org/multierr"

	"github.com/didplc/compress/internal/codecerr"
	"github.com/didplc/compress/internal/index"
	"github.com/didplc/compress/internal/optree"
)

// patcher performs the same synchronized pre-order walk as differ, over
// a single tree and a precomputed Diff. It tracks, per diff field,
// exactly which keys were actually consulted in a structurally valid
// position — not merely which flat indices the walk passed through —
// so a Prepends or Inserts entry aimed at an index that never acts as a
// sequence/map container is caught as an InvalidDiff rather than
// silently dropped.
type patcher struct {
	w    index.Walker
	diff *Diff

	appliedU map[int]bool
	appliedD map[int]bool
	appliedI map[int]bool
	appliedP map[int]bool
}

// ApplyDiff reconstructs the tree that diff = ComputeDiff(old, new) was
// computed against, i.e. new.
func ApplyDiff(old *optree.Node, diff *Diff) (*optree.Node, error) {
	p := &patcher{
		diff:     diff,
		appliedU: map[int]bool{},
		appliedD: map[int]bool{},
		appliedI: map[int]bool{},
		appliedP: map[int]bool{},
	}

	result, err := p.walk(old)
	if err != nil {
		return nil, err
	}

	if err := p.checkAllApplied(); err != nil {
		return nil, err
	}
	return result, nil
}

func (p *patcher) walk(old *optree.Node) (*optree.Node, error) {
	idx := p.w.Next()

	if v, ok := p.diff.Updates[idx]; ok {
		p.appliedU[idx] = true
		if !old.IsContainer() {
			return v, nil
		}
		p.w.Skip(index.SubtreeCount(old) - 1)
		return v, nil
	}

	switch old.Kind {
	case optree.KindMap:
		return p.walkMap(idx, old)
	case optree.KindSeq:
		return p.walkSeq(idx, old)
	default:
		if _, ok := p.diff.Inserts[idx]; ok {
			return nil, &codecerr.InvalidDiff{Index: idx, Reason: "insert targets a non-container node"}
		}
		// A prepend keyed at a sequence element was already consumed by
		// walkSeq before it descended into that element.
		if _, ok := p.diff.Prepends[idx]; ok && !p.appliedP[idx] {
			return nil, &codecerr.InvalidDiff{Index: idx, Reason: "prepend targets a node outside any sequence"}
		}
		return old.Clone(), nil
	}
}

func (p *patcher) walkMap(idx int, old *optree.Node) (*optree.Node, error) {
	var entries []optree.Entry

	for _, e := range old.Entries {
		entryIdx := p.w.Next() // entry marker
		p.w.Next()              // key name

		if _, deleted := p.diff.Deletes[entryIdx]; deleted {
			p.appliedD[entryIdx] = true
			p.w.Skip(index.SubtreeCount(e.Value))
			continue
		}

		newVal, err := p.walk(e.Value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, optree.Entry{Key: e.Key, Value: newVal})
	}

	if inserts, ok := p.diff.Inserts[idx]; ok {
		p.appliedI[idx] = true
		for _, ins := range inserts {
			entries = append(entries, optree.Entry{Key: ins.Key, Value: ins.Value})
		}
	}

	optree.SortEntries(entries)
	return &optree.Node{Kind: optree.KindMap, Entries: entries}, nil
}

func (p *patcher) walkSeq(idx int, old *optree.Node) (*optree.Node, error) {
	var items []*optree.Node

	for _, item := range old.Items {
		elemIdx := p.w.Peek()

		if _, deleted := p.diff.Deletes[elemIdx]; deleted {
			p.appliedD[elemIdx] = true
			p.w.Skip(index.SubtreeCount(item))
			continue
		}

		if pre, ok := p.diff.Prepends[elemIdx]; ok {
			p.appliedP[elemIdx] = true
			items = append(items, pre...)
		}

		newItem, err := p.walk(item)
		if err != nil {
			return nil, err
		}
		items = append(items, newItem)
	}

	if inserts, ok := p.diff.Inserts[idx]; ok {
		p.appliedI[idx] = true
		for _, ins := range inserts {
			items = append(items, ins.Value)
		}
	}

	return &optree.Node{Kind: optree.KindSeq, Items: items}, nil
}

func (p *patcher) checkAllApplied() error {
	var unreached []int
	collect := func(applied map[int]bool, idx int) {
		if !applied[idx] {
			unreached = append(unreached, idx)
		}
	}
	for idx := range p.diff.Updates {
		collect(p.appliedU, idx)
	}
	for idx := range p.diff.Deletes {
		collect(p.appliedD, idx)
	}
	for idx := range p.diff.Inserts {
		collect(p.appliedI, idx)
	}
	for idx := range p.diff.Prepends {
		collect(p.appliedP, idx)
	}
	if len(unreached) == 0 {
		return nil
	}

	sort.Ints(unreached)
	var errs error
	for _, idx := range unreached {
		errs = multierr.Append(errs, &codecerr.InvalidDiff{Index: idx, Reason: "index not reached by the walk"})
	}
	return errs
}
