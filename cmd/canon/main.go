package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/canonbase/canon"
	"github.com/canonbase/canon/cache"
	"github.com/canonbase/canon/fs"
	"github.com/canonbase/canon/scan"
	canonslog "github.com/canonbase/canon/slog"
	"github.com/canonbase/canon/sqlite"
	"github.com/canonbase/canon/syncer"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Cache root directory. Set before calling Run().
	CacheDir string

	// Target directory holding synced standards. Set before calling Run().
	Target string

	// SQLite database backing the ledger and index snapshots.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Cache  canon.DocumentCache
	Store  canon.ContentStore
	Ledger canon.SyncLedger
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		CacheDir: defaultCacheDir(),
		Target:   defaultTarget(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("canon"),
		kong.Description("Distribute versioned standards documents and inspect drift."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'canon --help' to see available commands")
	}

	if first := args[0]; first == "help" || first == "--help" || first == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.CacheDir != "" {
		m.CacheDir = cli.CacheDir
	}
	if cli.Target != "" {
		m.Target = cli.Target
	}

	// Diagnostics go to stderr; stdout stays reserved for primary output.
	cfg := canon.Config{
		Warnings:    !cli.Quiet,
		Structured:  cli.Structured,
		Debug:       cli.Debug,
		AutoRecover: cli.AutoRecover,
	}
	logger := canon.NewLogger(cfg, stderr)
	deps.Config = cfg
	deps.Logger = logger

	// Open the ledger database under the cache root
	m.DB = sqlite.NewDB(filepath.Join(m.CacheDir, "meta", "canon.db"))
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set CANON_CACHE_DIR or pass --cache-dir to use a different cache path\n")
		return fmt.Errorf("failed to open ledger database under %q: %w", m.CacheDir, err)
	}
	defer m.Close()
	deps.DB = m.DB

	store, err := fs.NewContentStore(m.CacheDir, 0, cfg.AutoRecover, logger)
	if err != nil {
		return fmt.Errorf("failed to open content store under %q: %w", m.CacheDir, err)
	}
	m.Store = canonslog.NewLoggingStore(store, logger)

	scanner := scan.NewScanner(logger)
	documentCache, err := cache.NewCache(scanner, m.Target, cache.Options{
		Store:       m.Store,
		Snapshot:    sqlite.NewSnapshotService(m.DB),
		Logger:      logger,
		Compression: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build document cache: %w", err)
	}

	// Wire core services into dependencies
	m.Ledger = sqlite.NewLedgerService(m.DB)
	m.Cache = canonslog.NewLoggingCache(documentCache, logger)
	deps.Ledger = m.Ledger
	deps.Store = m.Store
	deps.Cache = m.Cache
	deps.Scanner = scanner

	// Wire the sync engine; source-less commands leave Source empty
	engine := &syncer.Engine{
		Target:  m.Target,
		Scanner: scanner,
		Ledger:  m.Ledger,
		Blobs:   m.Store,
		Logger:  logger,
	}
	switch command(kongCtx) {
	case "sync":
		engine.Source = cli.Sync.Source
		engine.Categories = cli.Sync.Category
	case "update":
		engine.Source = cli.Update.Source
	}
	deps.Engine = engine

	return kongCtx.Run(deps)
}

// command returns the leading command word from a parsed Kong context.
func command(kongCtx *kong.Context) string {
	fields := strings.Fields(kongCtx.Command())
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func defaultCacheDir() string {
	if path := os.Getenv("CANON_CACHE_DIR"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".canon"
	}
	return filepath.Join(home, ".canon")
}

func defaultTarget() string {
	if path := os.Getenv("CANON_TARGET"); path != "" {
		return path
	}
	return filepath.Join("docs", "standards")
}
