package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/sqlite"
	"github.com/canonbase/canon/syncer"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Config  canon.Config
	Logger  *slog.Logger
	DB      *sqlite.DB
	Cache   canon.DocumentCache
	Store   canon.ContentStore
	Scanner canon.DocumentScanner
	Ledger  canon.SyncLedger
	Engine  *syncer.Engine
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug       bool   `help:"Enable verbose internal logging"`
	Structured  bool   `help:"Emit diagnostics as JSON lines"`
	Quiet       bool   `short:"q" help:"Suppress warnings"`
	AutoRecover bool   `help:"Delete corrupted cache entries when detected"`
	CacheDir    string `placeholder:"DIR" help:"Cache directory (default $CANON_CACHE_DIR or ~/.canon)"`
	Target      string `placeholder:"DIR" help:"Directory holding synced standards (default $CANON_TARGET or docs/standards)"`

	Sync       SyncCmd       `cmd:"" help:"Distribute standards from a source tree into the target directory"`
	Status     StatusCmd     `cmd:"" help:"Show drift between the target directory and the sync ledger"`
	Diff       DiffCmd       `cmd:"" help:"Show line changes of a synced file against its baseline"`
	Update     UpdateCmd     `cmd:"" help:"Re-copy documents whose source content changed"`
	Categories CategoriesCmd `cmd:"" help:"List document categories"`
	Docs       DocsCmd       `cmd:"" help:"List documents in a category"`
	Search     SearchCmd     `cmd:"" help:"Search documents by title, id, preview, and category"`
	Cache      CacheCmd      `cmd:"" help:"Show cache and blob store statistics"`
}

// SyncCmd is the "sync" subcommand.
type SyncCmd struct {
	Source   string   `arg:"" help:"Standards source directory"`
	Category []string `short:"c" help:"Restrict to a category (repeatable); disables pruning"`
	Force    bool     `short:"f" help:"Overwrite locally modified files"`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// DiffCmd is the "diff" subcommand.
type DiffCmd struct {
	Path string `arg:"" help:"Relative path of the synced file"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct {
	Source string `arg:"" help:"Standards source directory"`
	Force  bool   `short:"f" help:"Overwrite locally modified files"`
}

// CategoriesCmd is the "categories" subcommand.
type CategoriesCmd struct{}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Category string `arg:"" help:"Category name"`
	Full     bool   `help:"Show full document content"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Query string `arg:"" help:"Search query"`
}

// CacheCmd is the "cache" subcommand.
type CacheCmd struct {
	JSON bool `help:"Emit statistics as JSON"`
}
