package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/halo"
	"github.com/gogpu/halo/background"
	"github.com/gogpu/halo/config"
	"github.com/gogpu/halo/render"
	"github.com/gogpu/halo/shm"
	"github.com/gogpu/halo/wayland"
)

// newRootCmd builds the command. Environment settings become the flag
// defaults, so flags given on the command line win.
func newRootCmd() *cobra.Command {
	cfg, loadErr := config.Load()
	if loadErr != nil {
		cfg = config.Config{}
	}

	cmd := &cobra.Command{
		Use:           "halo",
		Short:         "Highlight the pointer on every Wayland output",
		Long:          "halo covers each output with a translucent overlay and draws a circle under the pointer.\nAny click or scroll ends it.",
		Version:       halo.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if loadErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "halo:", loadErr)
				return loadErr
			}
			if err := cfg.Validate(); err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "halo:", err)
				return err
			}
			return run(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.Flags()
	flags.IntVar(&cfg.Radius, "radius", cfg.Radius, "indicator radius in surface units")
	flags.IntVar(&cfg.Margin, "margin", cfg.Margin, "extra damage margin around the indicator")
	flags.StringVar(&cfg.Background, "background", cfg.Background, "image painted instead of the overlay color (png, jpeg, gif, bmp, tiff, webp, svg)")
	flags.Var(&cfg.BackgroundColor, "background-color", "overlay color as #rrggbbaa")
	flags.Var(&cfg.IndicatorColor, "indicator-color", "indicator color as #rrggbbaa")
	flags.DurationVar(&cfg.BufferTimeout, "buffer-timeout", cfg.BufferTimeout, "idle time before a buffer is freed")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flags.StringVar(&cfg.Display, "display", cfg.Display, "Wayland display name or socket path (default $WAYLAND_DISPLAY)")
	return cmd
}

// run connects, sets up the overlays and dispatches until asked to stop.
// Only failures before the first dispatch are returned.
func run(ctx context.Context, cfg config.Config, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	halo.SetLogger(logger)

	bg, err := background.Load(cfg.Background, cfg.BackgroundColor.RGBA)
	if err != nil {
		logger.Error("halo: loading background failed", "err", err)
		return err
	}

	conn, err := wayland.Connect(cfg.Display)
	if err != nil {
		logger.Error("halo: connecting to compositor failed", "err", err)
		return err
	}

	s := wayland.NewSession(conn, wayland.Options{
		Render: render.Options{
			Radius:    cfg.Radius,
			Margin:    cfg.Margin,
			Indicator: cfg.IndicatorColor.RGBA,
		},
		Background: bg,
		Pool:       []shm.Option{shm.WithTimeout(cfg.BufferTimeout)},
	})
	defer func() {
		if err := s.Close(); err != nil {
			logger.Debug("halo: teardown", "err", err)
		}
	}()

	if err := s.Setup(ctx); err != nil {
		logger.Error("halo: setup failed", "err", err)
		return err
	}

	if err := s.Run(ctx); err != nil {
		logger.Warn("halo: session ended", "err", err)
	}
	logger.Info("halo: goodbye")
	return nil
}
