package gocas

import (
	"log/slog"
	"sync/atomic"

	"github.com/njchilds90/gocas/internal/logging"
)

var (
	pkgLogger atomic.Pointer[logging.Logger]
	discard   = logging.Discard()
)

// SetLogger routes the engine's diagnostics to l. A nil logger silences
// them again.
func SetLogger(l *slog.Logger) {
	if l == nil {
		pkgLogger.Store(nil)
		return
	}
	pkgLogger.Store(logging.Wrap(l))
}

func logger() *logging.Logger {
	if l := pkgLogger.Load(); l != nil {
		return l
	}
	return discard
}
