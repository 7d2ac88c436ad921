package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/partdex"
	pdxhttp "github.com/fwojciec/partdex/http"
	pdxslog "github.com/fwojciec/partdex/slog"
	"github.com/fwojciec/partdex/sqlite"
	"github.com/fwojciec/partdex/term"
	"github.com/fwojciec/partdex/zip"
)

// defaultArtifactName is the catalog artifact file name; chunk files take
// a ".zip.NNN" suffix on top of it.
const defaultArtifactName = "parts-fts5.db"

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
	// Component cache path. Set before calling Run().
	CachePath string

	// SQLite cache used by the ingest, build and maintain commands.
	DB *sqlite.DB

	// Services for end-to-end testing.
	Components partdex.ComponentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		CachePath: defaultCachePath(),
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
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("partdex"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'partdex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// The download command works without the component cache; everything
	// else reads or writes it.
	if cmd != "download" {
		m.DB = sqlite.NewDB(m.CachePath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set PARTDEX_CACHE to use a different cache path\n")
			return fmt.Errorf("failed to open cache at %q: %w", m.CachePath, err)
		}
		defer m.Close()

		m.Components = pdxslog.NewLoggingComponentService(sqlite.NewComponentService(m.DB), logger)
		deps.DB = m.DB
		deps.Components = m.Components
	}

	if term.IsTerminal(stderr) {
		deps.Progress = term.NewProgressReporter(stderr)
	} else {
		deps.Progress = pdxslog.NewProgressReporter(logger)
	}

	if cmd == "ingest" {
		client := &pdxhttp.Client{Limiter: pdxhttp.NewLimiter()}
		deps.Client = pdxslog.NewLoggingCatalogClient(client, logger)
	}

	deps.Archiver = zip.NewArchiver()
	deps.Fetcher = &pdxhttp.ChunkDownloader{
		ArchiveName: defaultArtifactName + ".zip",
		Progress:    deps.Progress,
	}

	return kongCtx.Run(deps)
}

func defaultCachePath() string {
	if path := os.Getenv("PARTDEX_CACHE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "partdex-cache.db"
	}
	dir := filepath.Join(home, ".partdex")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "cache.db")
}
