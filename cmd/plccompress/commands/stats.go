package commands

import (
	"bytes"
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	compress "github.com/didplc/compress"
	"github.com/didplc/compress/cmd/plccompress/internal/config"
	"github.com/didplc/compress/cmd/plccompress/internal/ui"
	"github.com/didplc/compress/internal/plcstore"
	"github.com/didplc/compress/internal/wire"
)

// Stats streams through every identity in the mirror database that is
// not flagged in did_spam, compresses its chain, verifies the round-trip, and reports aggregate
// savings — the Go counterpart of streaming through a dataset file and
// printing periodic progress followed by a final results block.
func Stats(args []string) error {
	var dbPath string
	var showProgress bool
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--db":
			if i+1 < len(args) {
				dbPath = args[i+1]
				i++
			}
		case "--progress":
			showProgress = true
		}
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
	dids, err := store.ListDIDs(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Using %s, %d DIDs\n", dbPath, len(dids))

	var program *tea.Program
	if showProgress {
		program = ui.NewBatchProgram(len(dids))
		programDone := make(chan error, 1)
		go func() {
			_, err := program.Run()
			programDone <- err
		}()
		defer func() {
			program.Send(ui.BatchDoneMsg{})
			<-programDone
		}()
	}

	var totalRaw, totalCompressed int64
	var totalOps, errors int

	for n, did := range dids {
		ops, err := store.Operations(ctx, did, 0)
		if err != nil {
			return fmt.Errorf("loading operations for %s: %w", did, err)
		}
		if len(ops) == 0 {
			sendProgress(program, n+1, len(dids), totalOps, totalRaw, totalCompressed)
			continue
		}

		trees := make([]*compress.Node, len(ops))
		for i, o := range ops {
			trees[i] = o.OperationTree
		}

		var rawSize int64
		for _, t := range trees {
			encoded, err := wire.Marshal(wire.NodeToWire(t))
			if err != nil {
				return fmt.Errorf("encoding operation for %s: %w", did, err)
			}
			rawSize += int64(len(encoded))
		}
		totalRaw += rawSize
		totalOps += len(trees)

		blob, err := compress.Compress(trees)
		if err != nil {
			return fmt.Errorf("compressing chain for %s: %w", did, err)
		}
		totalCompressed += int64(len(blob))

		restored, err := compress.Decompress(blob)
		if err != nil {
			errors++
			fmt.Printf("  MISMATCH (decompress error): %s: %v\n", did, err)
			sendProgress(program, n+1, len(dids), totalOps, totalRaw, totalCompressed)
			continue
		}
		for i := range trees {
			want, err := wire.Marshal(wire.NodeToWire(trees[i]))
			if err != nil {
				return err
			}
			got, err := wire.Marshal(wire.NodeToWire(restored[i]))
			if err != nil {
				return err
			}
			if !bytes.Equal(want, got) {
				errors++
				fmt.Printf("  MISMATCH: %s op %d\n", did, i)
				break
			}
		}

		sendProgress(program, n+1, len(dids), totalOps, totalRaw, totalCompressed)

		if (n+1)%cfg.BatchSize == 0 {
			ratio := 0.0
			if totalRaw > 0 {
				ratio = (1 - float64(totalCompressed)/float64(totalRaw)) * 100
			}
			fmt.Printf("  %d DIDs, %d ops, %.1f%% savings, %d errors\n", n+1, totalOps, ratio, errors)
		}
	}

	fmt.Println()
	ui.PrintSummary(len(dids), totalOps, totalRaw, totalCompressed, errors)
	return nil
}

// sendProgress forwards a progress update to program if the --progress
// UI is active; it is a no-op otherwise.
func sendProgress(program *tea.Program, didsDone, didsTotal, opsDone int, rawBytes, compressed int64) {
	if program == nil {
		return
	}
	program.Send(ui.BatchProgressMsg{
		DIDsDone:   didsDone,
		DIDsTotal:  didsTotal,
		OpsDone:    opsDone,
		RawBytes:   rawBytes,
		Compressed: compressed,
	})
}
