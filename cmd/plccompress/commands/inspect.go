package commands

import (
	"fmt"
	"os"

	compress "github.com/didplc/compress"
	"github.com/didplc/compress/internal/optree"
	"github.com/didplc/compress/internal/semtag"
)

// Inspect prints a human-readable summary of a blob's first (full)
// tree: every Tagged leaf with its decoded shape, and for did:key
// leaves, the multicodec name of the wrapped key.
func Inspect(args []string) error {
	var inPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--in" && i+1 < len(args) {
			inPath = args[i+1]
			i++
		}
	}
	if inPath == "" {
		return fmt.Errorf("usage: plccompress inspect --in <file>")
	}

	blob, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	ops, err := compress.Decompress(blob)
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", inPath, err)
	}

	fmt.Printf("%d operations, %d bytes compressed\n", len(ops), len(blob))
	if len(ops) == 0 {
		return nil
	}

	recompressed := semtag.Compress(ops[0])
	walkTagged(recompressed, "")
	return nil
}

func walkTagged(n *optree.Node, path string) {
	if n == nil {
		return
	}
	switch n.Kind {
	case optree.KindMap:
		for _, e := range n.Entries {
			walkTagged(e.Value, path+"."+e.Key)
		}
	case optree.KindSeq:
		for i, it := range n.Items {
			walkTagged(it, fmt.Sprintf("%s[%d]", path, i))
		}
	case optree.KindTagged:
		switch n.Tag {
		case semtag.TagDIDKey:
			fmt.Printf("  %-24s tag=8 did:key (%s)\n", path, semtag.DescribeDIDKey(n.Bytes))
		case semtag.TagSig:
			fmt.Printf("  %-24s tag=6 signature (%d bytes)\n", path, len(n.Bytes))
		case semtag.TagCID:
			fmt.Printf("  %-24s tag=7 cid (%d bytes)\n", path, len(n.Bytes))
		case semtag.TagATURI:
			fmt.Printf("  %-24s tag=9 at-uri (%s)\n", path, n.Text)
		default:
			fmt.Printf("  %-24s tag=%d unknown\n", path, n.Tag)
		}
	}
}
