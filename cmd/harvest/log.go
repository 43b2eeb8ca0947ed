package main

import (
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/lmittmann/tint"
)

// newLogger returns a logger writing to w. The text format uses tint for
// readable console output.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid log level %q", level)
	}

	switch strings.ToLower(format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	case "", "text":
		return slog.New(tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: "15:04:05",
			NoColor:    !isTerminal(w),
		})), nil
	default:
		return nil, harvest.Errorf(harvest.EINVALID, "invalid log format %q", format)
	}
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Stat() (fs.FileInfo, error) })
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&fs.ModeCharDevice != 0
}
