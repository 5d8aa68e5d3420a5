package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ringwalk/internal/app"
	"ringwalk/internal/config"
	httpTransport "ringwalk/internal/transport/http"
)

const releaseVersion = "0.1.0"

func main() {
	cfg := config.Default()
	if err := newCmd(cfg).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCmd(cfg *config.Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("RINGWALK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "ringwalk",
		Short:         "Real-time server for a room-based privilege walk game.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	fs := cmd.Flags()

	fs.StringVarP(&cfg.Server.Host, "bind", "b", cfg.Server.Host, "address to bind to (env: RINGWALK_BIND)")
	fs.IntVarP(&cfg.Server.Port, "port", "p", cfg.Server.Port, "port to listen on (env: RINGWALK_PORT)")
	fs.StringVar(&cfg.Server.Env, "env", cfg.Server.Env, "environment, development or production (env: RINGWALK_ENV)")
	fs.IntVar(&cfg.Game.MinPlayers, "min-players", cfg.Game.MinPlayers, "minimum non-host players per game (env: RINGWALK_MIN_PLAYERS)")
	fs.IntVar(&cfg.Game.RoomCodeLength, "room-code-length", cfg.Game.RoomCodeLength, "length of generated room codes (env: RINGWALK_ROOM_CODE_LENGTH)")
	fs.DurationVar(&cfg.Game.IdleRoomTimeout, "idle-room-timeout", cfg.Game.IdleRoomTimeout, "time before idle rooms are reaped (env: RINGWALK_IDLE_ROOM_TIMEOUT)")
	fs.StringVar(&cfg.Logging.Level, "log-level", cfg.Logging.Level, "log level: debug, info, warn or error (env: RINGWALK_LOG_LEVEL)")
	fs.StringVar(&cfg.Logging.Format, "log-format", cfg.Logging.Format, "log format: json or text (env: RINGWALK_LOG_FORMAT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("ringwalk v{{.Version}}\n")

	return cmd
}

func run(cfg *config.Config) error {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}

	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{Level: level}
	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}
	slog.SetDefault(logger)

	logger.Info("starting ringwalk server",
		"version", releaseVersion,
		"env", cfg.Server.Env,
		"addr", cfg.Addr(),
	)

	directory := app.NewDirectory(cfg.Game.RoomCodeLength, cfg.Game.MinPlayers, cfg.Game.IdleRoomTimeout, logger)
	defer directory.Close()

	server := httpTransport.NewServer(cfg, directory, logger, releaseVersion)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down server...", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}
