package logger

import (
	"bytes"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestNew_JSONLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", "json")

	log.Info().Msg("hidden")
	log.Warn().Str("query", "laptop").Msg("visible")

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "visible" || entry["query"] != "laptop" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "loud", "json")

	log.Debug().Msg("debug")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at default info level, got %q", buf.String())
	}
	log.Info().Msg("info")
	if buf.Len() == 0 {
		t.Error("info should be written at default info level")
	}
}

func TestDeduplicator(t *testing.T) {
	var mu sync.Mutex
	var lines []string

	d := &deduplicator{
		flushDelay: 20 * time.Millisecond,
		emit: func(msg string) {
			mu.Lock()
			lines = append(lines, msg)
			mu.Unlock()
		},
	}

	d.log("Cache hit for laptop")
	d.log("Cache hit for laptop")
	d.log("Cache hit for laptop")
	d.log("Cache hit for phone")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	want := []string{"Cache hit for laptop (3)", "Cache hit for phone"}
	if len(lines) != len(want) {
		t.Fatalf("expected %v, got %v", want, lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}
