package storage

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pressly/goose/v3"
)

// SetMigrationLogger направляет вывод goose в logger. У goose один логгер на
// процесс, поэтому настройка действует для всех драйверов.
func SetMigrationLogger(logger *slog.Logger) {
	goose.SetLogger(&migrationLogger{logger: logger.With(slog.String("component", "goose"))})
}

// migrationLogger implements goose.Logger.
type migrationLogger struct {
	logger *slog.Logger
}

func (l *migrationLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf keeps the log.Fatalf contract goose expects.
func (l *migrationLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
