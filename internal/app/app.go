package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/five82/downlink/internal/config"
	"github.com/five82/downlink/internal/daemon"
	"github.com/five82/downlink/internal/logging"
	"github.com/five82/downlink/internal/prefs"
	"github.com/five82/downlink/internal/state"
	"github.com/five82/downlink/internal/ui"
)

// Options configure the downlink application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/downlink/prefs.toml
	FPS        int    // zero uses the configured frame rate
	Headless   bool   // log progress to stderr instead of running the TUI
}

// Run boots downlink until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = cfg.WithFPS(opts.FPS)

	logger, closer := openLogger(cfg, opts.Headless)
	defer closer.Close()

	client, err := daemon.NewClient(cfg.APIBind)
	if err != nil {
		return fmt.Errorf("init daemon client: %w", err)
	}
	logger.Info("starting", "daemon", client.BaseURL(), "fps", cfg.FPS, "headless", opts.Headless)

	if opts.Headless {
		store, w := newHeadlessStore(logger)
		consumer := NewConsumer(store, client, logger, defaultRetryInterval)
		return runHeadless(ctx, consumer, w)
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs", "error", err)
	}

	driver := ui.NewFrameDriver(cfg.FPS)
	store := state.NewStore(driver)
	consumer := NewConsumer(store, client, logger, defaultRetryInterval)

	// Populate the store before the first frame is drawn.
	if err := consumer.Resync(ctx); err != nil {
		logger.Warn("initial task sync failed", "error", err)
	}
	store.Flush()

	go consumer.Run(ctx)

	return ui.Run(ui.Options{
		Context:       ctx,
		Client:        client,
		Store:         store,
		Driver:        driver,
		Logger:        logger,
		ThemeName:     userPrefs.Theme,
		HideCompleted: userPrefs.HideCompleted,
		Filter:        userPrefs.Filter,
		PrefsPath:     opts.PrefsPath,
		LogPath:       cfg.LogFile,
	})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openLogger writes to stderr in headless mode and to the configured log file
// otherwise, since the TUI owns the terminal.
func openLogger(cfg config.Config, headless bool) (*log.Logger, io.Closer) {
	if headless {
		return logging.New(os.Stderr, cfg.LogLevel), nopCloser{}
	}
	logger, closer, err := logging.OpenFile(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "downlink: logging disabled: %v\n", err)
		return logging.Discard(), nopCloser{}
	}
	return logger, closer
}
