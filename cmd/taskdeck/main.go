package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskdeck/internal/api"
	"github.com/nhle/taskdeck/internal/app"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/query"
	"github.com/nhle/taskdeck/internal/realtime"
)

func main() {
	if err := mainInner(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func mainInner() error {
	configPath := flag.String(
		"config", model.DefaultConfigPath(), "path to the config file",
	)
	debug := flag.Bool(
		"debug", false, "write debug logs to ~/.config/taskdeck/debug.log",
	)
	flag.Parse()

	// The terminal belongs to the TUI; logs go to a file or nowhere.
	if *debug {
		closeLog, err := setupDebugLog()
		if err != nil {
			return err
		}
		defer closeLog()
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	// First run: seed the config file so the defaults are discoverable.
	if _, statErr := os.Stat(*configPath); os.IsNotExist(statErr) {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			slog.Debug("writing default config failed", "err", err)
		}
	}

	client := api.NewClient(cfg.APIBaseURL)
	if err := client.RestoreSession(); err != nil {
		// A failed restore just means logging in again.
		slog.Debug("session restore failed", "err", err)
	}

	cache := query.NewCache()

	sockURL, err := socketURL(cfg)
	if err != nil {
		return err
	}
	channel := realtime.New(sockURL, cache)
	defer channel.Close()

	poll := time.Duration(cfg.NotificationPollSec) * time.Second
	program := tea.NewProgram(
		app.New(client, cache, channel, poll),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// socketURL resolves the realtime endpoint: the configured one if set,
// otherwise the API host with the scheme swapped to ws/wss.
func socketURL(cfg *model.AppConfig) (string, error) {
	if cfg.SocketURL != "" {
		return cfg.SocketURL, nil
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil {
		return "", fmt.Errorf("parsing api_base_url: %w", err)
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path = "/ws"
	return u.String(), nil
}

func setupDebugLog() (func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "taskdeck")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(
		filepath.Join(dir, "debug.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0o644,
	)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	return func() { f.Close() }, nil
}
