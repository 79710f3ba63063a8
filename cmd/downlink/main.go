package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/five82/downlink/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.StringP("config", "c", "", "config file path (optional)")
	prefsPath := pflag.String("prefs", "", "UI preferences file path (optional)")
	fps := pflag.Int("fps", 0, "frames per second for progress redraws (optional, defaults to the config value)")
	headless := pflag.Bool("headless", false, "log progress instead of starting the terminal UI")
	pflag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Headless:   *headless,
	}
	if *fps > 0 {
		opts.FPS = *fps
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "downlink: %v\n", err)
		return 1
	}
	return 0
}
