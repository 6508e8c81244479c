package commands

import (
	"encoding/json"
	"fmt"
	"os"

	compress "github.com/didplc/compress"
	"github.com/didplc/compress/internal/optree"
)

// Decompress reads a compressed blob and prints the restored operations
// as a JSON array, one tree per operation.
func Decompress(args []string) error {
	var inPath string
	for i := 0; i < len(args); i++ {
		if args[i] == "--in" && i+1 < len(args) {
			inPath = args[i+1]
			i++
		}
	}
	if inPath == "" {
		return fmt.Errorf("usage: plccompress decompress --in <file>")
	}

	blob, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	ops, err := compress.Decompress(blob)
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", inPath, err)
	}

	out := make([]interface{}, len(ops))
	for i, op := range ops {
		out[i] = nodeToPlain(op)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// nodeToPlain renders a Node as a plain Go value suitable for
// encoding/json (a Tagged leaf prints as its tag number and raw bytes,
// since it only ever appears this way when a caller asks to inspect a
// still-compressed tree).
func nodeToPlain(n *optree.Node) interface{} {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case optree.KindMap:
		m := make(map[string]interface{}, len(n.Entries))
		for _, e := range n.Entries {
			m[e.Key] = nodeToPlain(e.Value)
		}
		return m
	case optree.KindSeq:
		s := make([]interface{}, len(n.Items))
		for i, it := range n.Items {
			s[i] = nodeToPlain(it)
		}
		return s
	case optree.KindText:
		return n.Text
	case optree.KindBytes:
		return n.Bytes
	case optree.KindInt:
		return n.Int
	case optree.KindFloat:
		return n.Float
	case optree.KindBool:
		return n.Bool
	case optree.KindNull:
		return nil
	case optree.KindTagged:
		return map[string]interface{}{"tag": n.Tag, "bytes": n.Bytes, "text": n.Text}
	default:
		return nil
	}
}
