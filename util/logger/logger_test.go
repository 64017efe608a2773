/*
 * i7000 - Wrapper for slog tests
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
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer) (*slog.Logger, *LogHandler) {
	debug := false
	h := NewHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}, &debug)
	return slog.New(h), h
}

func TestHandleWritesInfoRecordsRegardlessOfCategory(t *testing.T) {
	var buf bytes.Buffer
	log, _ := newTestLogger(&buf)

	log.Info("i7000 started")
	if !strings.Contains(buf.String(), "i7000 started") {
		t.Errorf("Info record missing from output: %q", buf.String())
	}
}

func TestHandleSuppressesDebugWithNoCategoryEnabled(t *testing.T) {
	var buf bytes.Buffer
	log, h := newTestLogger(&buf)

	h.EnableCategory(CategoryInst)
	log.Debug("fetch", CategoryAttr(CategoryIO), "ic", 100)

	if buf.Len() != 0 {
		t.Errorf("expected IO debug record suppressed while only INST enabled, got %q", buf.String())
	}
}

func TestHandlePassesDebugForEnabledCategory(t *testing.T) {
	var buf bytes.Buffer
	log, h := newTestLogger(&buf)

	h.EnableCategory(CategoryInst)
	log.Debug("fetch", CategoryAttr(CategoryInst), "ic", 100)

	if !strings.Contains(buf.String(), "fetch") {
		t.Errorf("expected INST debug record to pass, got %q", buf.String())
	}
}

func TestHandlePassesAllDebugBeforeAnyCategoryEnabled(t *testing.T) {
	var buf bytes.Buffer
	log, _ := newTestLogger(&buf)

	log.Debug("interrupt vectoring", CategoryAttr(CategoryIRQ), "channel", 20)

	if !strings.Contains(buf.String(), "interrupt vectoring") {
		t.Errorf("expected unfiltered Debug record to pass when no category enabled, got %q", buf.String())
	}
}

func TestHandleSuppressesUncategorizedDebugOnceFilteringIsOn(t *testing.T) {
	var buf bytes.Buffer
	log, h := newTestLogger(&buf)

	h.EnableCategory(CategoryInst)
	log.Debug("uncategorized message")

	if buf.Len() != 0 {
		t.Errorf("expected uncategorized debug record suppressed once a category filter is active, got %q", buf.String())
	}
}
