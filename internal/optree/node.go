// Package optree is the decoded tree form of a did:plc operation: the
// recursive Map/Sequence/Leaf value described by the codec's data model.
package optree

import "sort"

// Kind discriminates the variant a Node holds.
type Kind int

const (
	KindMap Kind = iota
	KindSeq
	KindText
	KindBytes
	KindInt
	KindFloat
	KindBool
	KindNull
	KindTagged
)

func (k Kind) String() string {
	switch k {
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindTagged:
		return "tagged"
	default:
		return "unknown"
	}
}

// Entry is one key/value pair of a Map, in iteration order.
type Entry struct {
	Key   string
	Value *Node
}

// Node is a single node of a decoded operation tree. Only the fields
// matching Kind are meaningful; the rest are zero.
type Node struct {
	Kind Kind

	Entries []Entry // KindMap
	Items   []*Node // KindSeq

	Text  string // KindText, and the payload of a KindTagged(9) at:// leaf
	Bytes []byte // KindBytes, and the payload of a KindTagged(6/7/8) leaf
	Int   int64  // KindInt
	Float float64
	Bool  bool

	Tag uint64 // KindTagged: 6, 7, 8 or 9
}

// Constructors mirror how a decoder would build these nodes.

func NewMap(entries ...Entry) *Node { return &Node{Kind: KindMap, Entries: entries} }
func NewSeq(items ...*Node) *Node   { return &Node{Kind: KindSeq, Items: items} }
func NewText(s string) *Node       { return &Node{Kind: KindText, Text: s} }
func NewBytes(b []byte) *Node      { return &Node{Kind: KindBytes, Bytes: b} }
func NewInt(i int64) *Node         { return &Node{Kind: KindInt, Int: i} }
func NewFloat(f float64) *Node     { return &Node{Kind: KindFloat, Float: f} }
func NewBool(b bool) *Node         { return &Node{Kind: KindBool, Bool: b} }
func NewNull() *Node               { return &Node{Kind: KindNull} }

// NewTagged builds a Tagged(tag, ...) leaf. Tags 6/7/8 wrap bytes; tag 9
// wraps a string.
func NewTagged(tag uint64, bytesPayload []byte, textPayload string) *Node {
	return &Node{Kind: KindTagged, Tag: tag, Bytes: bytesPayload, Text: textPayload}
}

// IsContainer reports whether n is a Map or Sequence.
func (n *Node) IsContainer() bool {
	return n != nil && (n.Kind == KindMap || n.Kind == KindSeq)
}

// Get looks up a key in a Map node.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMap {
		return nil, false
	}
	for _, e := range n.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Has reports whether a Map node has the given key.
func (n *Node) Has(key string) bool {
	_, ok := n.Get(key)
	return ok
}

// CanonicalLess implements the canonical map-key ordering: shorter keys
// first, then lexicographic by byte value.
func CanonicalLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// SortEntries reorders a Map's entries in place into canonical order.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return CanonicalLess(entries[i].Key, entries[j].Key)
	})
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Kind:  n.Kind,
		Text:  n.Text,
		Int:   n.Int,
		Float: n.Float,
		Bool:  n.Bool,
		Tag:   n.Tag,
	}
	if n.Bytes != nil {
		out.Bytes = append([]byte(nil), n.Bytes...)
	}
	if n.Entries != nil {
		out.Entries = make([]Entry, len(n.Entries))
		for i, e := range n.Entries {
			out.Entries[i] = Entry{Key: e.Key, Value: e.Value.Clone()}
		}
	}
	if n.Items != nil {
		out.Items = make([]*Node, len(n.Items))
		for i, it := range n.Items {
			out.Items[i] = it.Clone()
		}
	}
	return out
}

// Equal reports structural equality between a and b, the comparator the
// Differ's LCS alignment and leaf-update detection rely on.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindMap:
		if len(a.Entries) != len(b.Entries) {
			return false
		}
		for i := range a.Entries {
			if a.Entries[i].Key != b.Entries[i].Key {
				return false
			}
			if !Equal(a.Entries[i].Value, b.Entries[i].Value) {
				return false
			}
		}
		return true
	case KindSeq:
		if len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case KindText:
		return a.Text == b.Text
	case KindBytes:
		return string(a.Bytes) == string(b.Bytes)
	case KindInt:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	case KindBool:
		return a.Bool == b.Bool
	case KindNull:
		return true
	case KindTagged:
		return a.Tag == b.Tag && a.Text == b.Text && string(a.Bytes) == string(b.Bytes)
	default:
		return false
	}
}
