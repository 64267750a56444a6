package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/rulezod/internal/cliutil"
	"github.com/erraggy/rulezod/internal/mcpserver"
)

// runMCP is replaced in tests.
var runMCP = mcpserver.Run

// HandleMCP starts the MCP server over stdio.
func HandleMCP(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: rulezod mcp\n\n")
		cliutil.Writef(fs.Output(), "Serve the generate and inspect_rules tools over stdio for MCP clients.\n")
		cliutil.Writef(fs.Output(), "Defaults are read from RULEZOD_MCP_* environment variables.\n")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := runMCP(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
