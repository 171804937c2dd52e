package platform

import (
	"log/slog"
	"sync"

	"github.com/borgmon/desk-alarm/pkg/logger"
)

// quitGuard keeps a single shortcut registration alive while at least one
// holder needs it
type quitGuard struct {
	mu         sync.Mutex
	holders    int
	register   func() (unregister func(), err error)
	unregister func()
}

// acquire registers the shortcut for the first holder. The returned release
// is safe to call more than once; the last release unregisters.
func (g *quitGuard) acquire() (release func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.register == nil {
		return func() {}
	}
	if g.holders == 0 {
		unregister, err := g.register()
		if err != nil {
			slog.Warn("Failed to block the quit shortcut", logger.Err(err))
			return func() {}
		}
		g.unregister = unregister
	}
	g.holders++

	var once sync.Once
	return func() {
		once.Do(g.release)
	}
}

func (g *quitGuard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.holders--
	if g.holders == 0 && g.unregister != nil {
		g.unregister()
		g.unregister = nil
	}
}

var quitShortcut = &quitGuard{register: registerQuitShortcut}

// BlockQuitShortcut swallows the platform's quit shortcut until release is
// called, so an alert cannot be dismissed by quitting the app
func BlockQuitShortcut() (release func()) {
	return quitShortcut.acquire()
}
