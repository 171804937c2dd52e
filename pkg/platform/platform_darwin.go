//go:build darwin

// Package platform wraps the few native calls fyne does not expose.
package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

void setAccessoryPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}

int isAppActive(void) {
    return [NSApp isActive] ? 1 : 0;
}

void activateApp(void) {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

import (
	"log/slog"

	"github.com/borgmon/desk-alarm/pkg/logger"
	"golang.design/x/hotkey"
)

// SetAccessoryPolicy hides the Dock icon so the app lives in the menu bar only
func SetAccessoryPolicy() {
	slog.Debug("Setting activation policy", "policy", "accessory")
	C.setAccessoryPolicy()
}

// IsAppActive returns true if the application is currently focused
func IsAppActive() bool {
	return C.isAppActive() == 1
}

// ActivateApp brings the application to the front
func ActivateApp() {
	C.activateApp()
}

// registerQuitShortcut grabs Cmd+Q and drops its keydowns
func registerQuitShortcut() (func(), error) {
	hk := hotkey.New([]hotkey.Modifier{hotkey.ModCmd}, hotkey.KeyQ)
	if err := hk.Register(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-hk.Keydown():
				slog.Info("Cmd+Q blocked, hold the button to dismiss the alarm")
			}
		}
	}()

	return func() {
		close(done)
		if err := hk.Unregister(); err != nil {
			slog.Warn("Failed to unregister Cmd+Q", logger.Err(err))
		}
	}, nil
}
