package internal

import (
	"fmt"
	"log/slog"
	"os"
)

func InitSlog(level string) {
	var programLevel slog.Level
	if err := (&programLevel).UnmarshalText([]byte(level)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level %s: %v, using info\n", level, err)
		programLevel = slog.LevelInfo
	}

	leveler := &slog.LevelVar{}
	leveler.Set(programLevel)

	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: true,
		Level:     leveler,
	})
	slog.SetDefault(slog.New(h))
}

// SessionLogger derives a logger for work on one session. The session
// identifier is logged as a fingerprint so log lines can be correlated
// without leaking the identifier itself.
func SessionLogger(lg *slog.Logger, sessionID string) *slog.Logger {
	if lg == nil {
		lg = slog.Default()
	}

	return lg.With("session", FastHash(sessionID))
}
