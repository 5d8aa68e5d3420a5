package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host string
	Port int
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MinPlayers      int
	RoomCodeLength  int
	IdleRoomTimeout time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Default returns the configuration defaults. Flags and environment
// variables are layered on top by the command in cmd/server.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Env:  "development",
		},
		Game: GameConfig{
			MinPlayers:      2,
			RoomCodeLength:  6,
			IdleRoomTimeout: 2 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Server.Port)
	}
	if c.Game.MinPlayers < 2 {
		return fmt.Errorf("min-players must be at least 2, got %d", c.Game.MinPlayers)
	}
	if c.Game.RoomCodeLength < 4 || c.Game.RoomCodeLength > 12 {
		return fmt.Errorf("room-code-length must be between 4 and 12, got %d", c.Game.RoomCodeLength)
	}
	if c.Game.IdleRoomTimeout < time.Minute {
		return fmt.Errorf("idle-room-timeout must be at least 1m, got %s", c.Game.IdleRoomTimeout)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("log-format must be json or text, got %q", c.Logging.Format)
	}
	if _, err := c.Logging.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// Addr returns the server address in host:port format
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// SlogLevel parses the configured log level.
func (lc LoggingConfig) SlogLevel() (slog.Level, error) {
	switch lc.Level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log-level must be debug, info, warn or error, got %q", lc.Level)
}
