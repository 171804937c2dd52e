package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/borgmon/desk-alarm/pkg/logger"
	"github.com/borgmon/desk-alarm/pkg/store"
	"github.com/emersion/go-autostart"
)

// setupAutostart registers or removes the login entry so that it matches
// enable. The entry starts the binary with "run" and the current --tray mode.
func setupAutostart(enable, tray bool, log *slog.Logger) error {
	execPath, err := os.Executable()
	if err != nil {
		return err
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return err
	}

	exec := []string{execPath, "run"}
	if tray {
		exec = append(exec, "--tray")
	}

	app := &autostart.App{
		Name:        store.AppName,
		DisplayName: "Desk Alarm",
		Exec:        exec,
	}

	switch {
	case enable && !app.IsEnabled():
		if err := app.Enable(); err != nil {
			log.Error("Failed to enable autostart", logger.Err(err))
			return err
		}
		log.Info("Autostart enabled", "exec", exec)
	case !enable && app.IsEnabled():
		if err := app.Disable(); err != nil {
			log.Error("Failed to disable autostart", logger.Err(err))
			return err
		}
		log.Info("Autostart disabled")
	}

	return nil
}
