// Command scantables converts scanned PDF financial statements into CSV
// (or XLSX, HTML, Markdown) tables.
//
// Usage:
//
//	scantables [flags] file.pdf...
//	scantables tokens [flags] file.pdf
//
// Every input produces <name>.csv next to it, or in --output-dir. Inputs
// may also be listed in the configuration file.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Exit codes
const (
	exitOK       = 0
	exitFailures = 1 // At least one document failed
	exitUsage    = 2 // Bad flags or configuration
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := runCLI(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
