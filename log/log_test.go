// log/log_test.go
// Copyright(c) 2022-2026 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func testLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	lg := newLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level}), "test.slog", ".")
	buf.Reset()
	return lg, &buf
}

func records(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var recs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var r map[string]any
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
		recs = append(recs, r)
	}
	return recs
}

func TestLoggerLevels(t *testing.T) {
	lg, buf := testLogger(slog.LevelInfo)

	lg.Debug("hidden")
	lg.Debugf("hidden %d", 2)
	lg.Info("shown", slog.Int("points", 3))
	lg.Warnf("careful %s", "now")

	recs := records(t, buf)
	if len(recs) != 2 {
		t.Fatalf("got %d records, expected 2: %s", len(recs), buf.String())
	}
	if recs[0]["msg"] != "shown" || recs[0]["points"] != 3. {
		t.Errorf("unexpected record %v", recs[0])
	}
	if recs[1]["msg"] != "careful now" || recs[1]["level"] != "WARN" {
		t.Errorf("unexpected record %v", recs[1])
	}
	for _, r := range recs {
		if _, ok := r["callstack"]; !ok {
			t.Errorf("record %v has no callstack", r)
		}
	}
}

func TestLoggerWith(t *testing.T) {
	lg, buf := testLogger(slog.LevelDebug)

	flg := lg.With(slog.String("file", "a.geojson"))
	flg.Debugf("allocated %d", 12)
	if flg.LogFile != lg.LogFile {
		t.Errorf("With didn't keep log file")
	}

	recs := records(t, buf)
	if len(recs) != 1 || recs[0]["file"] != "a.geojson" || recs[0]["msg"] != "allocated 12" {
		t.Errorf("unexpected records %v", recs)
	}
}

func TestNilLogger(t *testing.T) {
	var lg *Logger
	// None of these should crash.
	lg.Debug("x")
	lg.Debugf("x")
	lg.Info("x")
	lg.Infof("x")
	if lg.With("a", 1) != nil {
		t.Errorf("With on nil Logger returned non-nil")
	}
}

func TestParseLevel(t *testing.T) {
	for s, l := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		if got := parseLevel(s); got != l {
			t.Errorf("%s: got %v, expected %v", s, got, l)
		}
	}
}

func TestCallstack(t *testing.T) {
	fr := Callstack(nil)
	if len(fr) == 0 {
		t.Fatalf("empty callstack")
	}
	for _, f := range fr {
		if f.File == "" || f.Line == 0 {
			t.Errorf("incomplete frame %v", f)
		}
	}
}
