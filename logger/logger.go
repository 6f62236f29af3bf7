// Copyright (C) 2020-2021,  0xN3utr0n

// Sintax is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Sintax is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.

// You should have received a copy of the GNU General Public License
// along with Sintax. If not, see <http://www.gnu.org/licenses/>.

package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// From zerolog color-types
const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
	colorCyan
	colorWhite

	colorBold     = 1
	colorDarkGray = 90
)

const (
	maxSizeMB  = 10
	maxBackups = 3
)

type Logger struct {
	logger *zerolog.Logger
	closer io.Closer
}

// Only one global stdout instance to avoid races
var stdout zerolog.ConsoleWriter

// InfoS Send Info type message.
func (l *Logger) InfoS(msg string, module string) {
	l.logger.Info().Str("Module", module).Msg(msg)
}

// DebugS Send Debug type message.
func (l *Logger) DebugS(msg string, module string) {
	l.logger.Debug().Str("Module", module).Msg(msg)
}

// WarnS Send Warn type message.
func (l *Logger) WarnS(msg string, module string) {
	l.logger.Warn().Str("Module", module).Msg(msg)
}

// ErrorS Send Error type message.
func (l *Logger) ErrorS(err error, module string) {
	l.logger.Error().Str("Module", module).Err(err).Send()
}

func (l *Logger) Info(module string) *zerolog.Event {
	return l.logger.Info().Str("Module", module)
}

func (l *Logger) Warn(module string) *zerolog.Event {
	return l.logger.Warn().Str("Module", module)
}

func (l *Logger) Debug(module string) *zerolog.Event {
	return l.logger.Debug().Str("Module", module)
}

func (l *Logger) Error(err error, module string) *zerolog.Event {
	return l.logger.Error().Str("Module", module).Err(err)
}

// Close flushes and releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// KillHandler returns a context cancelled on SIGINT or SIGTERM.
// Calling stop restores the default signal behaviour.
func KillHandler(parent context.Context) (ctx context.Context, stop context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// New creates a new Logger instance writing to a size-rotated file.
// If console is set, every line is mirrored to stdout.
func New(file string, console bool) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}

	var w io.Writer = rotator
	if console {
		stdout = newConsole()
		w = io.MultiWriter(stdout, rotator)
	}

	l := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{logger: &l, closer: rotator}, nil
}

// NewWriter creates a Logger on top of an arbitrary writer.
func NewWriter(w io.Writer) *Logger {
	l := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{logger: &l}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	l := zerolog.Nop()
	return &Logger{logger: &l}
}

// SetDebug Sets the global debug flag.
func SetDebug(debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// newConsole Creates a new logger pointing to stdout.
func newConsole() zerolog.ConsoleWriter {
	// Only allow one stdout Writer
	if stdout.Out != nil {
		return stdout
	}

	console := zerolog.ConsoleWriter{Out: os.Stdout, NoColor: false, TimeFormat: time.RFC3339}

	console.FormatTimestamp = func(i interface{}) string {
		return fmt.Sprintf("\x1b[%dm%v\x1b[0m", colorWhite, i)
	}

	console.FormatFieldValue = func(i interface{}) string {
		switch i {
		case "Threat":
			return fmt.Sprintf("\x1b[%dm%s\x1b[0m", colorYellow, i)
		case "Quarantine":
			return fmt.Sprintf("\x1b[%dm%s\x1b[0m", colorRed, i)
		default:
			return fmt.Sprintf("%s", i)
		}
	}

	return console
}
