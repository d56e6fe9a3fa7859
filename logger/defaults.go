package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog"
)

type DefaultLogger struct {
	Logger
}

var Default = &DefaultLogger{}

var logger = newLogger()

// newLogger writes colored console output plus a plain log file so that the
// per-channel statuses and the final summary survive the terminal session.
// CHECKER_LOG_FILE overrides the file path; "off" disables the file entirely.
func newLogger() zerolog.Logger {
	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout}}

	path, ok := os.LookupEnv("CHECKER_LOG_FILE")
	if !ok {
		path = "iptv_check.log"
	}
	if path != "" && path != "off" {
		file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			writers = append(writers, file)
		}
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

var urlRegex = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*:\/\/[a-zA-Z0-9+%/.\-:_?&=#@+]+`)

func safeLogf(format string, v ...any) string {
	safeString := fmt.Sprintf(format, v...)
	if os.Getenv("SAFE_LOGS") == "true" {
		return urlRegex.ReplaceAllString(safeString, "[redacted url]")
	}
	return safeString
}

func (*DefaultLogger) Log(format string) {
	logger.Info().Msg(safeLogf("%s", format))
}

func (*DefaultLogger) Logf(format string, v ...any) {
	logger.Info().Msg(safeLogf(format, v...))
}

func (*DefaultLogger) Debug(format string) {
	if os.Getenv("DEBUG") == "true" {
		logger.Debug().Msg(safeLogf("%s", format))
	}
}

func (*DefaultLogger) Debugf(format string, v ...any) {
	if os.Getenv("DEBUG") == "true" {
		logger.Debug().Msg(safeLogf(format, v...))
	}
}

func (*DefaultLogger) Error(format string) {
	logger.Error().Msg(safeLogf("%s", format))
}

func (*DefaultLogger) Errorf(format string, v ...any) {
	logger.Error().Msg(safeLogf(format, v...))
}

func (*DefaultLogger) Warn(format string) {
	logger.Warn().Msg(safeLogf("%s", format))
}

func (*DefaultLogger) Warnf(format string, v ...any) {
	logger.Warn().Msg(safeLogf(format, v...))
}

func (*DefaultLogger) Fatal(format string) {
	logger.Fatal().Msg(safeLogf("%s", format))
}

func (*DefaultLogger) Fatalf(format string, v ...any) {
	logger.Fatal().Msg(safeLogf(format, v...))
}
