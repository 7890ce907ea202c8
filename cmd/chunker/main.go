// Command chunker runs the semantic document-chunking pipeline: split a
// document into structured sentences, embed and cluster them, adjudicate
// ambiguous boundaries with an LLM, and emit bounded, reconstructed chunks
// as JSONL.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MrWong99/semanticchunker/internal/config"
	"github.com/MrWong99/semanticchunker/internal/pipelineerr"
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: chunker <run|eval> [flags]")
		return pipelineerr.ExitUsage
	}

	switch os.Args[1] {
	case "run":
		return runCmd(os.Args[2:])
	case "eval":
		return evalCmd(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "chunker: unknown subcommand %q; want run or eval\n", os.Args[1])
		return pipelineerr.ExitUsage
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// loadConfig loads the YAML config at path, or returns the pipeline's
// built-in defaults when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromReader(strings.NewReader(""))
	}
	return config.Load(path)
}
