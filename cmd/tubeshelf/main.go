package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/tubeshelf/internal/config"
	"github.com/mmcdole/tubeshelf/internal/domain"
	"github.com/mmcdole/tubeshelf/internal/event"
	"github.com/mmcdole/tubeshelf/internal/library"
	"github.com/mmcdole/tubeshelf/internal/logging"
	"github.com/mmcdole/tubeshelf/internal/player"
	"github.com/mmcdole/tubeshelf/internal/search"
	"github.com/mmcdole/tubeshelf/internal/store"
	"github.com/mmcdole/tubeshelf/internal/tui"
	"github.com/mmcdole/tubeshelf/internal/videocache"
	"github.com/mmcdole/tubeshelf/internal/videosource"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

const usage = `Usage: tubeshelf [flags] [command]

Without a command tubeshelf opens the interactive browser when stdout is a
terminal, and prints the saved list otherwise.

Commands:
  list [--filter all|watch-later|watched] [--query text]
  search [--pages n] <query>
  save <id>
  watch <id>        toggle the watched flag
  remove <id>
  play <id>
  clear
  history [--clear]

Flags:
`

func main() {
	var (
		showVersion bool
		configDir   string
		ephemeral   bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configDir, "c", "", "config directory")
	flag.StringVar(&configDir, "config", "", "config directory")
	flag.BoolVar(&ephemeral, "ephemeral", false, "keep saved videos in memory only")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("tubeshelf %s\n", Version)
		return
	}

	if err := run(configDir, ephemeral, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir string, ephemeral bool, args []string) error {
	ctx := context.Background()

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if configDir != "" {
		cfg, err = config.LoadConfigFrom(configDir)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if needsSetup(cfg) {
		if err := runSetupFlow(cfg, configDir); err != nil {
			return err
		}
	}
	if ephemeral {
		cfg.Store.Type = config.StoreTypeMemory
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// Setup logger
	logger, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting tubeshelf", "version", Version, "source", cfg.Source.Type, "store", cfg.Store.Type)

	kv, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer kv.Close()

	source, err := videosource.NewClient(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create video source: %w", err)
	}

	a := newApp(cfg, kv, source, logger)
	defer a.detach()

	if len(args) == 0 {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			return a.runTUI()
		}
		args = []string{"list"}
	}

	return a.runCommand(ctx, args[0], args[1:], os.Stdout)
}

// app holds the wired services shared by the TUI and the commands
type app struct {
	logger   *slog.Logger
	bus      *event.Bus
	cache    *videocache.Cache
	pager    *search.Pager
	history  *search.History
	library  *library.Service
	launcher *player.Launcher
	detach   func()
}

func newApp(cfg *config.Config, kv store.KV, source domain.VideoSource, logger *slog.Logger) *app {
	bus := event.NewBus()

	cache := videocache.New(kv, cfg.Library.MaxSaved, bus, logger)
	pager := search.NewPager(source, cache, cfg.Source.PageSize, bus, logger)
	history := search.NewHistory(kv, cfg.Search.HistorySize, logger)

	return &app{
		logger:   logger,
		bus:      bus,
		cache:    cache,
		pager:    pager,
		history:  history,
		library:  library.NewService(cache, pager, logger),
		launcher: player.NewLauncher(cfg.Player.Command, cfg.Player.Args, logger),
		detach:   history.Attach(bus),
	}
}

func (a *app) runTUI() error {
	events := make(chan event.Event, 64)
	observer := tui.NewChannelObserver(events)
	detach := observer.Attach(a.bus)
	defer detach()

	model := tui.NewModel(a.library, a.pager, a.history, a.launcher, events)

	p := tea.NewProgram(model, tea.WithAltScreen())

	a.logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		a.logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	a.logger.Info("shutting down")
	return nil
}

// needsSetup reports whether the Data API source is selected without a key
func needsSetup(cfg *config.Config) bool {
	return cfg.Source.Type == config.SourceTypeYouTube && cfg.Source.APIKey == ""
}

// runSetupFlow asks for a YouTube Data API key and saves it to the config
func runSetupFlow(cfg *config.Config, configDir string) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("source.api_key is required for the youtube source (set TUBESHELF_SOURCE_API_KEY)")
	}

	fmt.Println()
	fmt.Println("Welcome to tubeshelf!")
	fmt.Println()
	fmt.Print("Enter your YouTube Data API key: ")
	keyBytes, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read API key: %w", err)
	}

	apiKey := strings.TrimSpace(string(keyBytes))
	if apiKey == "" {
		return errors.New("API key cannot be empty")
	}
	cfg.Source.APIKey = apiKey

	if configDir != "" {
		err = config.SaveConfigTo(cfg, configDir)
	} else {
		err = config.SaveConfig(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

// writeln writes one line, ignoring write errors on the terminal
func writeln(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
