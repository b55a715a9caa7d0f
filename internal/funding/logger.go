package funding

import (
	"log/slog"
	"sync/atomic"

	"github.com/seenimoa/thermometer/internal/logging"
)

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(logging.Nop())
}

// SetLogger sets the logger that receives normalization events (clamped,
// padded, truncated values) at debug level. Nil restores silence.
func SetLogger(l *slog.Logger) {
	loggerPtr.Store(logging.OrNop(l))
}

// Logger returns the current normalization logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
