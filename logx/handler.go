// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// levelColors are the ANSI colors of the level names.
var levelColors = map[slog.Level]string{
	slog.LevelDebug: "4",
	slog.LevelInfo:  "2",
	slog.LevelWarn:  "3",
	slog.LevelError: "1",
}

// Handler is a [slog.Handler] that writes one line per record:
// the level name, colored with a termenv profile, the message,
// and then the attributes as key=value pairs.
type Handler struct {
	w       io.Writer
	mu      *sync.Mutex
	level   slog.Leveler
	profile termenv.Profile
	attrs   string
	group   string
}

// NewHandler returns a handler writing to w at [UserLevel],
// coloring the level names with the given termenv profile.
// Use [termenv.Ascii] for no color.
func NewHandler(w io.Writer, profile termenv.Profile) *Handler {
	return &Handler{w: w, mu: &sync.Mutex{}, level: UserLevel, profile: profile}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	lvl := fmt.Sprintf("%-5s", r.Level.String())
	if h.profile == termenv.Ascii {
		b.WriteString(lvl)
	} else {
		b.WriteString(termenv.String(lvl).Foreground(h.profile.Color(levelColors[r.Level])).Bold().String())
	}
	b.WriteByte(' ')
	b.WriteString(r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.group, a)
		return true
	})
	b.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&b, h.group, a)
	}
	nh.attrs = b.String()
	return &nh
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.group = h.group + name + "."
	return &nh
}

func writeAttr(b *strings.Builder, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			writeAttr(b, group+a.Key+".", ga)
		}
		return
	}
	v := a.Value.String()
	if v == "" || strings.ContainsAny(v, " =\"\n") {
		v = strconv.Quote(v)
	}
	b.WriteByte(' ')
	b.WriteString(group)
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(v)
}

// SetDefaultLogger sets the default logger to a [NewHandler]
// logger on stderr, colored if stderr is a terminal.
func SetDefaultLogger() {
	profile := termenv.Ascii
	if isatty.IsTerminal(os.Stderr.Fd()) {
		profile = termenv.EnvColorProfile()
	}
	slog.SetDefault(slog.New(NewHandler(os.Stderr, profile)))
}

// ForRank returns the default logger tagged with the given rank.
func ForRank(rank int) *slog.Logger {
	return slog.Default().With("rank", rank)
}
