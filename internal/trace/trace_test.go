package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLevelAllows(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeRun, false},
		{LevelPhase, ScopeRun, true},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopePass, false},
		{LevelDetail, ScopePass, true},
	}
	for _, tt := range tests {
		if got := tt.level.Allows(tt.scope); got != tt.want {
			t.Errorf("%s.Allows(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "PHASE": LevelPhase, " detail ": LevelDetail} {
		if l, err := ParseLevel(in); err != nil || l != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, l, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Errorf("ParseMode(both) = %v, %v", m, err)
	}
	if _, err := ParseMode("tape"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestStreamNDJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeStream, Path: path})
	if err != nil {
		t.Fatal(err)
	}
	run := Begin(tr, ScopeRun, "format_paths", 0)
	file := Begin(tr, ScopeFile, "format_file", run.ID())
	Begin(tr, ScopePass, "align_block", file.ID()).End("") // отфильтровано уровнем
	file.WithExtra("path", "top.sv").End("changed")
	run.End("")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events, want 4:\n%s", len(lines), data)
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if ev.Kind != "end" || ev.Name != "format_file" || ev.Detail != "changed" ||
		ev.Attrs["path"] != "top.sv" || ev.Parent != run.ID() || ev.Scope != "file" {
		t.Errorf("unexpected event: %+v", ev)
	}
}

func TestTextEncoding(t *testing.T) {
	origin := time.Now()
	ev := Event{
		Time:  origin.Add(1500 * time.Microsecond),
		Kind:  KindEnd,
		Scope: ScopeFile,
		Name:  "format_file",
		Attrs: map[string]string{"path": "a.v", "cache": "hit"},
		Took:  time.Millisecond,
	}
	got := string(encode(&ev, FormatText, origin))
	want := "[    1.500ms]   < format_file 1ms {cache=hit path=a.v}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRingKeepsNewest(t *testing.T) {
	tr := NewRingTracer(3, LevelPhase)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(tr, ScopeRun, name, "", 0)
	}
	events := tr.Events()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []string{"c", "d", "e"} {
		if events[i].Name != want {
			t.Errorf("events[%d] = %q, want %q", i, events[i].Name, want)
		}
	}

	var buf bytes.Buffer
	if err := tr.Dump(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("Dump wrote:\n%s", buf.String())
	}
}

func TestRingDumpsOnClose(t *testing.T) {
	var dump bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Mode: ModeRing, Dump: &dump})
	if err != nil {
		t.Fatal(err)
	}
	Begin(tr, ScopePass, "align_block", 0).End("")
	if dump.Len() != 0 {
		t.Fatal("ring wrote before Close")
	}
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dump.String(), "> align_block") || !strings.Contains(dump.String(), "< align_block") {
		t.Errorf("dump:\n%s", dump.String())
	}
}

func TestFanout(t *testing.T) {
	a := NewRingTracer(10, LevelPhase)
	b := NewRingTracer(10, LevelDetail)
	f := fanout{a, b}
	if f.Level() != LevelDetail {
		t.Errorf("Level = %s, want detail", f.Level())
	}
	Begin(f, ScopeRun, "fmt", 0).End("")
	if len(a.Events()) != 2 || len(b.Events()) != 2 {
		t.Errorf("events: a=%d b=%d, want 2 each", len(a.Events()), len(b.Events()))
	}
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop || ParentID(ctx) != 0 {
		t.Error("expected Nop and no parent from empty context")
	}
	tr := NewRingTracer(4, LevelPhase)
	ctx = WithTracer(ctx, tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Error("tracer not propagated")
	}
	span := Begin(tr, ScopeRun, "fmt", 0)
	ctx = WithSpan(ctx, span)
	if ParentID(ctx) != span.ID() {
		t.Error("span not propagated")
	}
	if WithSpan(ctx, nil) != ctx {
		t.Error("nil span must leave the context alone")
	}
}

func TestNopSpan(t *testing.T) {
	s := Begin(Nop, ScopeRun, "x", 0)
	if s != nil || s.End("") != 0 || s.ID() != 0 || s.WithExtra("k", "v") != nil {
		t.Error("filtered span must be inert")
	}
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || tr != Nop {
		t.Errorf("New(off) = %v, %v", tr, err)
	}
}

func TestHeartbeat(t *testing.T) {
	tr := NewRingTracer(16, LevelPhase)
	stop := StartHeartbeat(tr, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(tr.Events()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()
	events := tr.Events()
	if len(events) == 0 || events[0].Kind != KindHeartbeat {
		t.Fatalf("no heartbeat recorded: %+v", events)
	}
	StartHeartbeat(Nop, time.Millisecond)()
}
