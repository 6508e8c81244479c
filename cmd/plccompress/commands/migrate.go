package commands

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/didplc/compress/cmd/plccompress/internal/config"
	"github.com/didplc/compress/internal/plcstore"
)

// Migrate runs goose migration subcommands (up/down/status) against
// the mirror database.
func Migrate(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: plccompress migrate <up|down|status> [--db <path>]")
	}
	sub := args[0]

	var dbPath string
	for i := 1; i < len(args); i++ {
		if args[i] == "--db" && i+1 < len(args) {
			dbPath = args[i+1]
			i++
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.DatabasePath
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	switch sub {
	case "up":
		return plcstore.Migrate(db)
	case "down":
		return plcstore.MigrateDown(db)
	case "status":
		return plcstore.MigrateStatus(db)
	default:
		return fmt.Errorf("unknown migrate subcommand: %s", sub)
	}
}
