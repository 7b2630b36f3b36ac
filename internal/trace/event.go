package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Kind says what an event marks.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindHeartbeat:
		return "heartbeat"
	}
	return "unknown"
}

type Event struct {
	Time   time.Time
	Seq    uint64
	Kind   Kind
	Scope  Scope
	Span   uint64 // 0 for points and heartbeats
	Parent uint64
	Name   string // format_paths, format_file, align_block...
	Detail string
	Attrs  map[string]string
	Took   time.Duration // set on KindEnd
}

// Format selects the encoding of streamed and dumped events.
type Format uint8

const (
	FormatText Format = iota + 1
	FormatNDJSON
)

// formatFor picks NDJSON for *.ndjson and *.json outputs, text otherwise.
func formatFor(path string) Format {
	if strings.HasSuffix(path, ".ndjson") || strings.HasSuffix(path, ".json") {
		return FormatNDJSON
	}
	return FormatText
}

type jsonEvent struct {
	Time   string            `json:"time"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope,omitempty"`
	Span   uint64            `json:"span,omitempty"`
	Parent uint64            `json:"parent,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
	TookUS int64             `json:"took_us,omitempty"`
}

// encode renders ev as one line. origin is the moment the tracer was
// created; text output shows the offset from it.
func encode(ev *Event, format Format, origin time.Time) []byte {
	if format == FormatNDJSON {
		j := jsonEvent{
			Time:   ev.Time.UTC().Format(time.RFC3339Nano),
			Seq:    ev.Seq,
			Kind:   ev.Kind.String(),
			Span:   ev.Span,
			Parent: ev.Parent,
			Name:   ev.Name,
			Detail: ev.Detail,
			Attrs:  ev.Attrs,
			TookUS: ev.Took.Microseconds(),
		}
		if ev.Scope != 0 {
			j.Scope = ev.Scope.String()
		}
		data, err := json.Marshal(j)
		if err != nil {
			return nil
		}
		return append(data, '\n')
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%9.3fms] ", float64(ev.Time.Sub(origin).Microseconds())/1000)
	if ev.Scope > ScopeRun {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeRun)))
	}
	switch ev.Kind {
	case KindBegin:
		sb.WriteString("> ")
	case KindEnd:
		sb.WriteString("< ")
	case KindHeartbeat:
		sb.WriteString("~ ")
	default:
		sb.WriteString("* ")
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if ev.Kind == KindEnd {
		fmt.Fprintf(&sb, " %s", ev.Took.Round(time.Microsecond))
	}
	if len(ev.Attrs) > 0 {
		sb.WriteString(" {")
		for i, k := range slices.Sorted(maps.Keys(ev.Attrs)) {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(k + "=" + ev.Attrs[k])
		}
		sb.WriteString("}")
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
