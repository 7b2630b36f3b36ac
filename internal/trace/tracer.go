package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Tracer receives events. Implementations are safe for concurrent use;
// files are formatted in parallel.
type Tracer interface {
	Emit(ev *Event)
	Level() Level
	Close() error
}

// Mode is where events are kept.
type Mode uint8

const (
	ModeStream Mode = iota + 1 // written as they happen
	ModeRing                   // last N kept in memory, dumped on Close
	ModeBoth
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stream":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	}
	return 0, fmt.Errorf("invalid trace mode %q (expected stream|ring|both)", s)
}

type Config struct {
	Level Level
	Mode  Mode
	// Path is the stream target; "" and "-" mean stderr. The extension
	// picks the encoding (see formatFor).
	Path string
	// Dump receives the ring on Close. Defaults to stderr.
	Dump     io.Writer
	RingSize int
}

const defaultRingSize = 4096

// New builds the tracer for cfg. LevelOff always yields Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	if cfg.Dump == nil {
		cfg.Dump = os.Stderr
	}
	format := formatFor(cfg.Path)
	origin := time.Now()

	switch cfg.Mode {
	case ModeRing:
		return newRing(cfg.Level, cfg.RingSize, cfg.Dump, format, origin), nil
	case ModeStream, ModeBoth:
		w, err := openStream(cfg.Path)
		if err != nil {
			return nil, err
		}
		s := &streamTracer{w: w, level: cfg.Level, format: format, origin: origin}
		if cfg.Mode == ModeStream {
			return s, nil
		}
		return fanout{s, newRing(cfg.Level, cfg.RingSize, cfg.Dump, format, origin)}, nil
	}
	return nil, fmt.Errorf("unknown trace mode %d", cfg.Mode)
}

func openStream(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stderr}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

var seq atomic.Uint64

// nopTracer записывает всё в никуда.
type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Close() error { return nil }

// Nop discards events; FromContext returns it when no tracer is attached.
var Nop Tracer = nopTracer{}

type streamTracer struct {
	mu     sync.Mutex
	w      io.WriteCloser
	level  Level
	format Format
	origin time.Time
}

func (t *streamTracer) Emit(ev *Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	// сбой записи трейса не должен ронять форматирование
	_, _ = t.w.Write(encode(ev, t.format, t.origin))
}

func (t *streamTracer) Level() Level { return t.level }

func (t *streamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.w.Close()
}

// RingTracer keeps the most recent events of a run.
type RingTracer struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	full   bool
	level  Level
	dump   io.Writer
	format Format
	origin time.Time
}

func newRing(level Level, size int, dump io.Writer, format Format, origin time.Time) *RingTracer {
	return &RingTracer{buf: make([]Event, size), level: level, dump: dump, format: format, origin: origin}
}

// NewRingTracer returns a ring of the given size that keeps events in memory
// only; Close does not dump it.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = defaultRingSize
	}
	return newRing(level, size, nil, FormatText, time.Now())
}

func (t *RingTracer) Emit(ev *Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.next = (t.next + 1) % len(t.buf)
	if t.next == 0 {
		t.full = true
	}
}

func (t *RingTracer) Level() Level { return t.level }

// Events returns the stored events, oldest first.
func (t *RingTracer) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes the stored events to w.
func (t *RingTracer) Dump(w io.Writer) error {
	for _, ev := range t.Events() {
		if _, err := w.Write(encode(&ev, t.format, t.origin)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Close() error {
	if t.dump == nil {
		return nil
	}
	return t.Dump(t.dump)
}

type fanout []Tracer

func (f fanout) Emit(ev *Event) {
	for _, t := range f {
		t.Emit(ev)
	}
}

func (f fanout) Level() Level {
	var l Level
	for _, t := range f {
		l = max(l, t.Level())
	}
	return l
}

func (f fanout) Close() error {
	var errs []error
	for _, t := range f {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}
