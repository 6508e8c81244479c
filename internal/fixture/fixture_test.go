package fixture

import (
	"testing"

	"github.com/didplc/compress/internal/optree"
)

func TestParseTree(t *testing.T) {
	n, err := ParseTree([]byte(`{"k": "a", "n": 1, "xs": [1, 2, 3]}`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if n.Kind != optree.KindMap {
		t.Fatalf("expected a map, got %v", n.Kind)
	}
	v, ok := n.Get("n")
	if !ok || v.Kind != optree.KindInt || v.Int != 1 {
		t.Fatalf("expected n=1 (int), got %+v", v)
	}
	xs, ok := n.Get("xs")
	if !ok || len(xs.Items) != 3 {
		t.Fatalf("expected xs to be a 3-element sequence, got %+v", xs)
	}
}

func TestParseChain(t *testing.T) {
	ops, err := ParseChain([]byte(`[{"n": 1}, {"n": 2}]`))
	if err != nil {
		t.Fatalf("ParseChain: %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(ops))
	}
}

func TestGenerateChainDeterministic(t *testing.T) {
	a, err := GenerateChain(42, 5)
	if err != nil {
		t.Fatalf("GenerateChain: %v", err)
	}
	b, err := GenerateChain(42, 5)
	if err != nil {
		t.Fatalf("GenerateChain: %v", err)
	}
	if len(a) != 5 || len(b) != 5 {
		t.Fatalf("expected 5 operations, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if !optree.Equal(a[i], b[i]) {
			t.Fatalf("GenerateChain(42, 5) is not deterministic at op %d", i)
		}
	}
}

func TestGenerateChainRotationKeyGrowth(t *testing.T) {
	ops, err := GenerateChain(7, 4)
	if err != nil {
		t.Fatalf("GenerateChain: %v", err)
	}
	first, _ := ops[0].Get("rotationKeys")
	fourth, _ := ops[3].Get("rotationKeys")
	if len(fourth.Items) <= len(first.Items) {
		t.Fatalf("expected rotation keys to grow across the chain: first=%d fourth=%d",
			len(first.Items), len(fourth.Items))
	}
}

func TestComputeCIDDeterministic(t *testing.T) {
	n, err := ParseTree([]byte(`{"k": "a"}`))
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	a, err := ComputeCID(n)
	if err != nil {
		t.Fatalf("ComputeCID: %v", err)
	}
	b, err := ComputeCID(n)
	if err != nil {
		t.Fatalf("ComputeCID: %v", err)
	}
	if a != b {
		t.Fatalf("ComputeCID is not deterministic: %q vs %q", a, b)
	}
}
