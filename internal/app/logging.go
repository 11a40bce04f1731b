package app

import (
	"log/slog"

	"github.com/treykane/cli-files/internal/logging"
)

// appLog is the package-level structured logger for the host.
//
// Entries are tagged component=app. Output follows the shared logging
// handler, which the CLI points at a file while the UI owns the terminal.
var appLog = logging.New("app")

// setStatusError updates the status bar with a user-facing error message and
// logs a structured error entry with full context.
//
// The status parameter is displayed verbatim in the footer, while err and any
// additional key-value attrs only go to the log.
//
//	m.setStatusError("Delete failed", err, "path", path)
//	m.setStatusError("Clipboard copy failed", err)
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.status = status
	fields := make([]any, 0, len(attrs)+2)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}
