package commands

import (
	"context"
	"fmt"
	"os"

	compress "github.com/didplc/compress"
	"github.com/didplc/compress/cmd/plccompress/internal/config"
	"github.com/didplc/compress/internal/plcstore"
)

// Compress reads one identity's chain from the mirror database and
// writes the compressed blob to stdout or --out.
func Compress(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: plccompress compress --did <did> [--db <path>] [--out <file>]")
	}

	var did, dbPath, outPath string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--did":
			if i+1 >= len(args) {
				return fmt.Errorf("--did requires a value")
			}
			did = args[i+1]
			i++
		case "--db":
			if i+1 >= len(args) {
				return fmt.Errorf("--db requires a value")
			}
			dbPath = args[i+1]
			i++
		case "--out":
			if i+1 >= len(args) {
				return fmt.Errorf("--out requires a value")
			}
			outPath = args[i+1]
			i++
		}
	}
	if did == "" {
		return fmt.Errorf("--did is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	store, err := plcstore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	ops, err := store.Operations(ctx, did, 0)
	if err != nil {
		return fmt.Errorf("loading operations for %s: %w", did, err)
	}
	if len(ops) == 0 {
		return fmt.Errorf("no operations found for %s", did)
	}

	trees := make([]*compress.Node, len(ops))
	for i, o := range ops {
		trees[i] = o.OperationTree
	}

	blob, err := compress.Compress(trees)
	if err != nil {
		return fmt.Errorf("compressing chain for %s: %w", did, err)
	}

	if outPath == "" {
		_, err = os.Stdout.Write(blob)
		return err
	}
	return os.WriteFile(outPath, blob, 0644)
}
