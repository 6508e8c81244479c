package index

import (
	"testing"

	"github.com/didplc/compress/internal/optree"
)

func TestFlatIndexUpdateScenario(t *testing.T) {
	// A = {"k": "a", "n": 1}
	tree := optree.NewMap(
		optree.Entry{Key: "k", Value: optree.NewText("a")},
		optree.Entry{Key: "n", Value: optree.NewInt(1)},
	)

	flat := FlatIndex(tree)

	// idx 0: the map itself
	// idx 1: entry marker for "k"; idx 2: key "k"... wait, key node comes
	// after the entry marker and before the value, so:
	//   0 map, 1 entry-marker(k), 2 key(k), 3 value("a"),
	//   4 entry-marker(n), 5 key(n), 6 value(1)
	if flat[0].Kind != optree.KindMap {
		t.Fatalf("index 0 should be the map, got %v", flat[0].Kind)
	}
	if flat[3].Kind != optree.KindText || flat[3].Text != "a" {
		t.Fatalf("index 3 should be value \"a\", got %+v", flat[3])
	}
	if flat[6].Kind != optree.KindInt || flat[6].Int != 1 {
		t.Fatalf("index 6 should be value 1, got %+v", flat[6])
	}
	if flat[1].Kind != optree.KindNull || flat[4].Kind != optree.KindNull {
		t.Fatalf("entry-marker indices 1 and 4 should be synthetic null leaves")
	}
	if len(flat) != 7 {
		t.Fatalf("expected 7 indices, got %d", len(flat))
	}
}

func TestSubtreeCountMatchesFlatIndexLength(t *testing.T) {
	trees := []*optree.Node{
		optree.NewInt(1),
		optree.NewSeq(),
		optree.NewMap(),
		optree.NewMap(optree.Entry{Key: "k", Value: optree.NewText("a")}),
		optree.NewSeq(optree.NewInt(1), optree.NewInt(2), optree.NewInt(3)),
	}
	for _, tr := range trees {
		if got, want := SubtreeCount(tr), len(FlatIndex(tr)); got != want {
			t.Errorf("SubtreeCount(%v) = %d, want %d (len of FlatIndex)", tr.Kind, got, want)
		}
	}
}

func TestWalkerNextPeekSkip(t *testing.T) {
	var w Walker
	if got := w.Peek(); got != 0 {
		t.Fatalf("Peek() before any Next() = %d, want 0", got)
	}
	if got := w.Next(); got != 0 {
		t.Fatalf("first Next() = %d, want 0", got)
	}
	if got := w.Next(); got != 1 {
		t.Fatalf("second Next() = %d, want 1", got)
	}
	w.Skip(3)
	if got := w.Next(); got != 5 {
		t.Fatalf("Next() after Skip(3) = %d, want 5", got)
	}
}

func TestFlatIndexDeterministic(t *testing.T) {
	tree := optree.NewMap(
		optree.Entry{Key: "xs", Value: optree.NewSeq(optree.NewInt(1), optree.NewInt(2))},
	)
	a := FlatIndex(tree)
	b := FlatIndex(tree)
	if len(a) != len(b) {
		t.Fatalf("FlatIndex is not deterministic: lengths %d vs %d", len(a), len(b))
	}
	for idx, na := range a {
		nb, ok := b[idx]
		if !ok || na.Kind != nb.Kind {
			t.Fatalf("FlatIndex differs at index %d between runs", idx)
		}
	}
}
