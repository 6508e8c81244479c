package optree

import "testing"

func TestCanonicalLess(t *testing.T) {
	cases := []struct {
		a, b string
		less bool
	}{
		{"k", "n", true},   // same length, lexicographic
		{"n", "k", false},
		{"k", "xs", true},  // shorter key first, regardless of bytes
		{"xs", "k", false},
		{"k", "k", false},
	}
	for _, c := range cases {
		if got := CanonicalLess(c.a, c.b); got != c.less {
			t.Errorf("CanonicalLess(%q, %q) = %v, want %v", c.a, c.b, got, c.less)
		}
	}
}

func TestSortEntriesCAN1(t *testing.T) {
	entries := []Entry{
		{Key: "n", Value: NewInt(1)},
		{Key: "k", Value: NewText("a")},
		{Key: "xs", Value: NewSeq()},
	}
	SortEntries(entries)
	want := []string{"k", "n", "xs"}
	for i, w := range want {
		if entries[i].Key != w {
			t.Fatalf("entries[%d].Key = %q, want %q", i, entries[i].Key, w)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewMap(Entry{Key: "k", Value: NewText("a")}, Entry{Key: "n", Value: NewInt(1)})
	b := NewMap(Entry{Key: "k", Value: NewText("a")}, Entry{Key: "n", Value: NewInt(1)})
	c := NewMap(Entry{Key: "k", Value: NewText("b")}, Entry{Key: "n", Value: NewInt(1)})

	if !Equal(a, b) {
		t.Error("expected structurally identical maps to be Equal")
	}
	if Equal(a, c) {
		t.Error("expected maps differing in a leaf to not be Equal")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	orig := NewMap(Entry{Key: "xs", Value: NewSeq(NewInt(1), NewInt(2))})
	clone := orig.Clone()

	clone.Entries[0].Value.Items[0].Int = 99
	if orig.Entries[0].Value.Items[0].Int == 99 {
		t.Fatal("Clone shared underlying Items slice with the original")
	}
}

func TestTaggedEqual(t *testing.T) {
	a := NewTagged(7, []byte{1, 2, 3}, "")
	b := NewTagged(7, []byte{1, 2, 3}, "")
	c := NewTagged(8, []byte{1, 2, 3}, "")
	if !Equal(a, b) {
		t.Error("expected identical tagged leaves to be Equal")
	}
	if Equal(a, c) {
		t.Error("expected leaves with different tags to not be Equal")
	}
}
