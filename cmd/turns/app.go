package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tricky-turns/internal/audio"
	"github.com/vovakirdan/tricky-turns/internal/config"
	"github.com/vovakirdan/tricky-turns/internal/identity"
	"github.com/vovakirdan/tricky-turns/internal/platform/tui"
	"github.com/vovakirdan/tricky-turns/internal/storage"
)

// app holds what an interactive run needs and releases it on Close.
type app struct {
	svc     tui.Services
	store   *storage.Store
	player  *audio.Player
	logFile io.Closer
}

// gameSettings loads the game config and the preset override.
func gameSettings() (config.TurnsConfig, config.DifficultyPreset, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, "", fmt.Errorf("loading config: %w", err)
	}
	if flagDifficulty == "" {
		return cfg, "", nil
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, "", err
	}
	return cfg, preset, nil
}

// parseLevel reads --log-level.
func parseLevel() (log.Level, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return level, nil
}

// openLog opens ~/.arcade/turns.log. The alt screen owns the terminal, so
// interactive runs never log to stderr. Failure falls back to discarding.
func openLog(level log.Level) (*log.Logger, io.Closer) {
	opts := log.Options{ReportTimestamp: true, Prefix: "turns", Level: level}

	home, err := os.UserHomeDir()
	if err != nil {
		return log.NewWithOptions(io.Discard, opts), nil
	}
	path := filepath.Join(home, ".arcade", "turns.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.NewWithOptions(io.Discard, opts), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return log.NewWithOptions(io.Discard, opts), nil
	}
	return log.NewWithOptions(f, opts), f
}

// newApp wires config, logging, audio and score stores for local play.
// Missing stores and a missing sound device only degrade the game.
func newApp() (*app, error) {
	level, err := parseLevel()
	if err != nil {
		return nil, err
	}
	cfg, preset, err := gameSettings()
	if err != nil {
		return nil, err
	}

	logger, logFile := openLog(level)
	a := &app{logFile: logFile}

	a.player = audio.NewPlayer(flagVolume, flagMute)
	if err := a.player.Init(); err != nil {
		logger.Warn("sound disabled", "err", err)
	}

	a.store, err = storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("leaderboard disabled", "err", err)
		a.store = nil
	}

	a.svc = tui.Services{
		Store:    a.store,
		Audio:    a.player,
		Identity: identity.Named(flagUser),
		Logger:   logger,
		Config:   cfg,
		Preset:   preset,
		Strict:   flagStrict,
	}

	local, err := storage.OpenLocal(flagLocalPath)
	if err != nil {
		logger.Warn("guest best scores kept in memory only", "err", err)
	} else {
		a.svc.Local = local
	}

	logger.Debug("starting",
		"player", a.svc.Identity.CurrentUser(),
		"authenticated", a.svc.Identity.IsAuthenticated(),
		"preset", preset,
	)
	return a, nil
}

// Close releases the speaker, the database and the log file.
func (a *app) Close() {
	a.player.Close()
	if a.store != nil {
		a.store.Close()
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}
