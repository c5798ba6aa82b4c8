// Package logger builds the console logger used by the respool command.
package logger

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to out at the given level, tagged with
// the application name.
func New(out io.Writer, appName, logLevel string) (zerolog.Logger, error) {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}

	writer := zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: "02-01-2006 15:04:05.000",
		FormatLevel: func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("%-6s", i))
		},
		FieldsExclude: []string{
			"applicationName",
		},
		PartsOrder: []string{
			"applicationName",
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
		FormatCaller: func(i interface{}) string {
			s, ok := i.(string)
			if !ok {
				return ""
			}
			if idx := strings.LastIndex(s, "/"); idx >= 0 {
				return s[idx+1:]
			}
			return s
		},
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("applicationName", appName).
		Logger(), nil
}

// ParseLevel maps a level name (DEBUG, INFO, WARN, ERROR, FATAL, PANIC,
// DISABLED) to a zerolog level. Names are case-insensitive.
func ParseLevel(logLevel string) (zerolog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(logLevel)) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "WARN":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "FATAL":
		return zerolog.FatalLevel, nil
	case "PANIC":
		return zerolog.PanicLevel, nil
	case "DISABLED":
		return zerolog.Disabled, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("incorrect log level: %s", strconv.Quote(logLevel))
	}
}
