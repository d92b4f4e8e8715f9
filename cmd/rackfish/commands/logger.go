package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// newLogger builds the logr.Logger handed to all handlers: a zerolog console
// writer on stdout, tee'd into logPath when given. The returned func closes
// the log file.
func newLogger(logPath string) (logr.Logger, func(), error) {
	console := zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: !isatty.IsTerminal(os.Stdout.Fd()),
	}

	var (
		sink        io.Writer = console
		closeLogger           = func() {}
	)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return logr.Logger{}, nil, fmt.Errorf("opening log file: %w", err)
		}
		sink = zerolog.MultiLevelWriter(console, f)
		closeLogger = func() { _ = f.Close() }
	}

	zl := zerolog.New(sink).With().Timestamp().Logger()
	return zerologr.New(&zl), closeLogger, nil
}
