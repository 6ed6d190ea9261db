package debuglog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mabhi256/cgdiag/internal/pretty"
)

func readEntries(t *testing.T, path string) (string, []Entry) {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatal("log is empty")
	}
	header := scanner.Text()

	var entries []Entry
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("line %q is not JSON: %v", scanner.Text(), err)
		}
		entries = append(entries, e)
	}
	return header, entries
}

func TestLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	observe := log.Observer()
	observe(pretty.Event{Kind: pretty.EventMatched, Type: "CguiNode *", Tag: "CguiNode", Variant: "CguiNode"})
	observe(pretty.Event{Kind: pretty.EventSelfTest, Type: "CguiTheme", Tag: "CguiTheme", Err: errors.New("boom")})
	log.Warning("scene.toml", "unknown key comment")

	if err := log.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	header, entries := readEntries(t, path)
	if !strings.Contains(header, "debug session started") {
		t.Errorf("header = %q", header)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	if entries[0].Kind != "matched" || entries[0].Variant != "CguiNode" {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Kind != "self_test_failed" || entries[1].Error != "boom" {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[2].Kind != "warning" {
		t.Errorf("entry 2 = %+v", entries[2])
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	var log *Logger

	log.Observe(pretty.Event{Kind: pretty.EventNoMatch})
	log.Warning("x", "y")
	if log.Observer() != nil {
		t.Error("nil logger should not install an observer")
	}
	if err := log.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")

	for range 2 {
		log, err := Open(path)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		log.Record("session", map[string]int{"n": 1})
		log.Close()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "debug session started"); got != 2 {
		t.Errorf("found %d session headers, want 2", got)
	}
}
