package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	return line
}

func TestComponent_TagsLines(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: "debug", Output: &buf}).Component("session").Info().Msg("view opened")

	line := decodeLine(t, &buf)
	if line["component"] != "session" || line["service"] != "legisdash" {
		t.Errorf("unexpected fields %v", line)
	}
}

func TestNew_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "loud", Output: &buf})

	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info, got %q", buf.String())
	}
	log.Info().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("info line missing: %q", buf.String())
	}
}

func TestLogUpstreamRequest_FailureIsWarning(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: "info", Output: &buf}).
		LogUpstreamRequest("GET", "http://api/proposicoes", 0, 30*time.Millisecond, errors.New("connection refused"))

	line := decodeLine(t, &buf)
	if line["level"] != "warn" || line["error"] != "connection refused" {
		t.Errorf("unexpected line %v", line)
	}
}

func TestLogUpstreamRequest_SuccessIsDebug(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: "info", Output: &buf}).LogUpstreamRequest("GET", "http://api/eventos", 200, time.Millisecond, nil)
	if buf.Len() != 0 {
		t.Errorf("successful calls log at debug, got %q", buf.String())
	}
}

func TestLogHTTPRequest_ServerErrorIsError(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Level: "info", Output: &buf}).LogHTTPRequest("rid", "GET", "/api/overview", 502, time.Millisecond, "127.0.0.1", "curl")

	line := decodeLine(t, &buf)
	if line["level"] != "error" || line["status"] != float64(502) || line["request_id"] != "rid" {
		t.Errorf("unexpected line %v", line)
	}
}
