//go:build !darwin

package platform

// SetAccessoryPolicy is a no-op outside macOS
func SetAccessoryPolicy() {}

// IsAppActive always returns true outside macOS
func IsAppActive() bool {
	return true
}

// ActivateApp is a no-op outside macOS; the window manager decides focus
func ActivateApp() {}

// registerQuitShortcut is nil outside macOS; window managers own the quit keys
var registerQuitShortcut func() (func(), error)
