package compress

import (
	"testing"

	"github.com/didplc/compress/internal/fixture"
	"github.com/didplc/compress/internal/wire"
)

func textTree(t *testing.T, s string) *Node {
	t.Helper()
	n, err := fixture.ParseTree([]byte(s))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	return n
}

// Round-trip guarantee: canonical re-encoding of each restored operation
// equals the canonical re-encoding of the original.
func TestRoundTripSmallChain(t *testing.T) {
	ops := []*Node{
		textTree(t, `{"k": "a", "n": 1}`),
		textTree(t, `{"k": "b", "n": 1}`),
		textTree(t, `{"k": "b", "n": 2}`),
	}

	blob, err := Compress(ops)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	restored, err := Decompress(blob)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(restored) != len(ops) {
		t.Fatalf("restored %d operations, want %d", len(restored), len(ops))
	}
	for i := range ops {
		if !canonicalEqual(t, ops[i], restored[i]) {
			t.Fatalf("operation %d did not round-trip:\ngot:  %+v\nwant: %+v", i, restored[i], ops[i])
		}
	}
}

func canonicalEqual(t *testing.T, a, b *Node) bool {
	t.Helper()
	aw, err := wire.Marshal(wire.NodeToWire(a))
	if err != nil {
		t.Fatalf("wire.Marshal: %v", err)
	}
	bw, err := wire.Marshal(wire.NodeToWire(b))
	if err != nil {
		t.Fatalf("wire.Marshal: %v", err)
	}
	return string(aw) == string(bw)
}

func TestEmptyChain(t *testing.T) {
	blob, err := Compress(nil)
	if err != nil {
		t.Fatalf("Compress(nil): %v", err)
	}
	ops, err := Decompress(blob)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(ops) != 0 {
		t.Fatalf("expected an empty chain, got %d operations", len(ops))
	}
}

func TestSingleOperationChain(t *testing.T) {
	ops := []*Node{textTree(t, `{"k": "a"}`)}
	blob, err := Compress(ops)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	restored, err := Decompress(blob)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(restored) != 1 {
		t.Fatalf("expected 1 operation, got %d", len(restored))
	}
}

// A no-op chain's compressed size grows by O(N), not with the size of
// the repeated tree.
func TestNoOpChainIsSmall(t *testing.T) {
	tree := textTree(t, `{"k": "a", "n": 1, "xs": [1, 2, 3]}`)
	ops := make([]*Node, 20)
	for i := range ops {
		ops[i] = tree.Clone()
	}

	blob, err := Compress(ops)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	single := []*Node{tree}
	singleBlob, err := Compress(single)
	if err != nil {
		t.Fatalf("Compress(single): %v", err)
	}

	// 19 empty diff records should add only a few bytes each, nowhere
	// near the size of 19 additional full copies of tree.
	perOpOverhead := float64(len(blob)-len(singleBlob)) / 19
	if perOpOverhead > float64(len(singleBlob)) {
		t.Fatalf("no-op diffs cost %.1f bytes/op, as much as a whole extra tree (%d bytes)",
			perOpOverhead, len(singleBlob))
	}
}

func TestSemanticTagSurvivesChain(t *testing.T) {
	ops := []*Node{
		textTree(t, `{"uri": "at://did:plc:abc/app.bsky.feed.post/1"}`),
		textTree(t, `{"uri": "at://did:plc:abc/app.bsky.feed.post/2"}`),
	}
	blob, err := Compress(ops)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	restored, err := Decompress(blob)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	for i := range ops {
		if !canonicalEqual(t, ops[i], restored[i]) {
			t.Fatalf("operation %d did not round-trip", i)
		}
	}
}
