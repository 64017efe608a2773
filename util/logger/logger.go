/*
 * i7000 - Wrapper for slog
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Category tags a Debug-level record with the subsystem that produced
// it, so a --trace flag can ask for e.g. instruction decode without
// drowning in channel polling chatter.
type Category string

const (
	CategoryCmd    Category = "CMD"    // Console and config-file command processing.
	CategoryInst   Category = "INST"   // Instruction fetch/decode/dispatch.
	CategoryData   Category = "DATA"   // Operand read/write, BCD conversion.
	CategoryIO     Category = "IO"     // Channel and device transfers.
	CategoryIRQ    Category = "IRQ"    // Trap and interrupt vectoring.
	CategoryDetail Category = "DETAIL" // Everything else, high volume.
)

// categoryKey is the slog attribute key EnableCategory filters on.
const categoryKey = "cat"

// CategoryAttr builds the slog attribute a call site attaches to a
// Debug record to mark its category, e.g.:
//
//	log.Debug("fetch", logger.CategoryAttr(logger.CategoryInst), "ic", ic)
func CategoryAttr(cat Category) slog.Attr {
	return slog.String(categoryKey, string(cat))
}

type LogHandler struct {
	out        io.Writer
	h          slog.Handler
	mu         *sync.Mutex
	debug      bool
	categories map[Category]bool // nil or empty: no category filtering, all Debug records pass.
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{h: h.h.WithAttrs(attrs), mu: h.mu, out: h.out, debug: h.debug, categories: h.categories}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{h: h.h.WithGroup(name), mu: h.mu, out: h.out, debug: h.debug, categories: h.categories}
}

// EnableCategory turns on a Debug category, e.g. from a --trace flag.
// Before the first call every category is implicitly enabled.
func (h *LogHandler) EnableCategory(cat Category) {
	if h.categories == nil {
		h.categories = map[Category]bool{}
	}
	h.categories[cat] = true
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level == slog.LevelDebug && len(h.categories) > 0 {
		cat := Category("")
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == categoryKey {
				cat = Category(a.Value.String())
				return false
			}
			return true
		})
		if cat == "" || !h.categories[cat] {
			return nil
		}
	}

	level := r.Level.String() + ":"
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, level, r.Message}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, a.Value.String())
			return true
		})
	}
	result := strings.Join(strs, " ") + "\n"
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}

	if h.debug || r.Level > slog.LevelDebug {
		_, err = os.Stderr.Write(b)
	}
	return err
}

func (h *LogHandler) SetDebug(debug *bool) {
	h.debug = *debug
}

func NewHandler(file io.Writer, opts *slog.HandlerOptions, debug *bool) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &LogHandler{
		out: file,
		h: slog.NewTextHandler(file, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: nil,
		}),
		mu:    &sync.Mutex{},
		debug: *debug,
	}
}
