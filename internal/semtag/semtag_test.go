package semtag

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/multiformats/go-multibase"

	"github.com/didplc/compress/internal/optree"
)

// Scenario 6: a leaf equal to the 86-char base64 string of 64 zero bytes
// compresses to Tagged(6, <64x0x00>) and decompresses back.
func TestSignatureRoundTrip(t *testing.T) {
	zero64 := make([]byte, 64)
	s := base64.RawURLEncoding.EncodeToString(zero64)
	if len(s) != sigLen {
		t.Fatalf("test fixture length = %d, want %d", len(s), sigLen)
	}

	leaf := optree.NewText(s)
	compressed := compressLeaf(leaf)
	if compressed.Kind != optree.KindTagged || compressed.Tag != TagSig {
		t.Fatalf("expected Tagged(6, ...), got %+v", compressed)
	}
	if len(compressed.Bytes) != 64 {
		t.Fatalf("expected 64 raw bytes, got %d", len(compressed.Bytes))
	}

	decompressed, err := decompressLeaf(compressed)
	if err != nil {
		t.Fatalf("decompressLeaf: %v", err)
	}
	if decompressed.Text != s {
		t.Fatalf("round-trip mismatch: got %q, want %q", decompressed.Text, s)
	}
}

func TestDIDKeyRoundTrip(t *testing.T) {
	raw := []byte{0xed, 0x01, 1, 2, 3, 4, 5, 6, 7, 8}
	encoded, err := multibase.Encode(multibase.Base58BTC, raw)
	if err != nil {
		t.Fatalf("multibase.Encode: %v", err)
	}
	s := "did:key:" + encoded

	leaf := optree.NewText(s)
	compressed := compressLeaf(leaf)
	if compressed.Kind != optree.KindTagged || compressed.Tag != TagDIDKey {
		t.Fatalf("expected Tagged(8, ...), got %+v", compressed)
	}

	decompressed, err := decompressLeaf(compressed)
	if err != nil {
		t.Fatalf("decompressLeaf: %v", err)
	}
	if decompressed.Text != s {
		t.Fatalf("round-trip mismatch: got %q, want %q", decompressed.Text, s)
	}
}

func TestATURIRoundTrip(t *testing.T) {
	s := "at://did:plc:abc123/app.bsky.feed.post/xyz"
	leaf := optree.NewText(s)
	compressed := compressLeaf(leaf)
	if compressed.Kind != optree.KindTagged || compressed.Tag != TagATURI {
		t.Fatalf("expected Tagged(9, ...), got %+v", compressed)
	}
	if compressed.Text != strings.TrimPrefix(s, "at://") {
		t.Fatalf("unexpected stored suffix: %q", compressed.Text)
	}

	decompressed, err := decompressLeaf(compressed)
	if err != nil {
		t.Fatalf("decompressLeaf: %v", err)
	}
	if decompressed.Text != s {
		t.Fatalf("round-trip mismatch: got %q, want %q", decompressed.Text, s)
	}
}

func TestUnrecognizedShapePassesThrough(t *testing.T) {
	leaf := optree.NewText("just a plain string")
	compressed := compressLeaf(leaf)
	if compressed.Kind != optree.KindText {
		t.Fatalf("expected unrecognized string to pass through, got %+v", compressed)
	}
}

// Compress never re-tags an already-tagged leaf.
func TestCompressIdempotent(t *testing.T) {
	zero64 := make([]byte, 64)
	s := base64.RawURLEncoding.EncodeToString(zero64)
	tree := optree.NewMap(optree.Entry{Key: "sig", Value: optree.NewText(s)})

	once := Compress(tree)
	twice := Compress(once)
	if !optree.Equal(once, twice) {
		t.Fatalf("Compress is not idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

// Decompress(Compress(T)) == T.
func TestCompressDecompressRoundTrip(t *testing.T) {
	zero64 := make([]byte, 64)
	sig := base64.RawURLEncoding.EncodeToString(zero64)
	tree := optree.NewMap(
		optree.Entry{Key: "sig", Value: optree.NewText(sig)},
		optree.Entry{Key: "aka", Value: optree.NewSeq(optree.NewText("at://handle.example"))},
		optree.Entry{Key: "plain", Value: optree.NewText("nothing special")},
	)

	compressed := Compress(tree)
	restored, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !optree.Equal(restored, tree) {
		t.Fatalf("round-trip mismatch:\ngot:  %+v\nwant: %+v", restored, tree)
	}
}

func TestUnknownTagPassesThroughOnDecompress(t *testing.T) {
	leaf := optree.NewTagged(42, []byte{1, 2, 3}, "")
	decompressed, err := decompressLeaf(leaf)
	if err != nil {
		t.Fatalf("decompressLeaf: %v", err)
	}
	if !optree.Equal(decompressed, leaf) {
		t.Fatalf("expected unknown tag to pass through unchanged, got %+v", decompressed)
	}
}
