package trace

import (
	"fmt"
	"strings"
)

// Level controls how deep into a run events are recorded.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // run and file spans
	LevelDetail       // plus engine passes
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	}
	return "unknown"
}

// ParseLevel accepts off, phase and detail in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected off|phase|detail)", s)
}

// Scope is the granularity of a span. Smaller values are coarser.
type Scope uint8

const (
	ScopeRun  Scope = iota + 1 // a CLI command or a FormatPaths call
	ScopeFile                  // one input file or stdin
	ScopePass                  // one engine call on a block
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeFile:
		return "file"
	case ScopePass:
		return "pass"
	}
	return "unknown"
}

// Allows reports whether spans of scope s are recorded at level l.
func (l Level) Allows(s Scope) bool {
	switch l {
	case LevelPhase:
		return s <= ScopeFile
	case LevelDetail:
		return s <= ScopePass
	}
	return false
}
