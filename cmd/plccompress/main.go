package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/didplc/compress/cmd/plccompress/commands"
	"github.com/didplc/compress/cmd/plccompress/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command, args := parseGlobalFlags(os.Args[1:])

	var err error
	switch command {
	case "compress":
		err = commands.Compress(args)
	case "decompress":
		err = commands.Decompress(args)
	case "stats":
		err = commands.Stats(args)
	case "inspect":
		err = commands.Inspect(args)
	case "migrate":
		err = commands.Migrate(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("plccompress version %s\n", version)
	if info, ok := debug.ReadBuildInfo(); ok {
		if commit != "unknown" {
			fmt.Printf("commit: %s\n", commit)
		}
		fmt.Printf("go: %s\n", info.GoVersion)
	}
}

func printUsage() {
	fmt.Println("plccompress - differential codec for did:plc operation chains")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  plccompress [--config <path>] <command> [args...]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  plccompress compress --did <did> [--db <path>] [--out <file>]    Compress one identity's chain")
	fmt.Println("  plccompress decompress --in <file>                                Decompress a blob back to operations")
	fmt.Println("  plccompress stats [--db <path>] [--progress]                      Compress every DID, report savings")
	fmt.Println("  plccompress inspect --in <file>                                   Describe a blob's structure")
	fmt.Println("  plccompress migrate <up|down|status> [--db <path>]                Manage the mirror database schema")
	fmt.Println("  plccompress version                                               Show version information")
}

// parseGlobalFlags parses global flags like --config and returns the
// command and remaining args.
func parseGlobalFlags(args []string) (string, []string) {
	var filteredArgs []string
	var command string

	for i := 0; i < len(args); i++ {
		if args[i] == "--config" && i+1 < len(args) {
			config.SetConfigPath(args[i+1])
			i++
			continue
		}
		if command == "" {
			command = args[i]
		} else {
			filteredArgs = append(filteredArgs, args[i])
		}
	}
	return command, filteredArgs
}
