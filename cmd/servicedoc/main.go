package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/servicedoc"
	"github.com/fwojciec/servicedoc/etree"
	"github.com/fwojciec/servicedoc/goquery"
	sdslog "github.com/fwojciec/servicedoc/slog"
	"github.com/fwojciec/servicedoc/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := LoadDotenv(); err != nil {
		fmt.Fprintf(os.Stderr, "error loading .env: %v\n", err)
		os.Exit(1)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// LoadDotenv loads environment variables from the given files, or from
// ".env" when none are given. Missing files are ignored.
func LoadDotenv(filenames ...string) error {
	err := godotenv.Load(filenames...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	TemplateService  servicedoc.TemplateService
	PersonnelService servicedoc.PersonnelService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Now:    time.Now,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("servicedoc"),
		kong.Description("Turn planning-tool exports into service bulletins and slides."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'servicedoc --help' to see available commands")
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

	deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	if cli.Verbose {
		deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set SERVICEDOC_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.TemplateService = sqlite.NewTemplateService(m.DB)
	m.PersonnelService = sqlite.NewPersonnelService(m.DB)
	deps.DB = m.DB
	deps.Templates = m.TemplateService
	deps.Personnel = m.PersonnelService
	deps.Cache = sqlite.NewParseCache(m.DB)

	deps.Parser = sdslog.NewLoggingBulletinParser(
		servicedoc.NewCachedParser(servicedoc.NewParser(goquery.NewHTMLParser()), deps.Cache),
		deps.Logger,
	)
	deps.Bulletins = sdslog.NewLoggingBulletinRenderer(etree.NewBulletinRenderer(), deps.Logger)
	deps.Slides = sdslog.NewLoggingSlideRenderer(etree.NewSlideRenderer(cli.SlidesDir), deps.Logger)

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("SERVICEDOC_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "servicedoc.db"
	}
	dir := filepath.Join(home, ".servicedoc")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "servicedoc.db")
}
