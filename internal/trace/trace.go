// Package trace decodes the JSON trace file format of spec.md §6 into
// event.Event records, enforcing the structural invariants spec.md §7
// assigns to TraceFormatError (participant ids in range, vc width == N).
//
// Grounded on the teacher's config/JSON-loading style in cmd/server/main.go
// (decode into a struct, wrap decode errors with context) and on
// original_source/core/event_processor.py's participant/vc validation.
package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/moraneus/PoET/internal/event"
	"github.com/moraneus/PoET/internal/vclock"
)

// FormatError reports a structurally invalid trace file (spec.md §7).
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("trace format error: %s", e.Message)
}

// rawEvent decodes one element of the trace's "events" array: a 4-tuple
// [event_id, participants, propositions, vc] rather than an object, so it
// needs a custom UnmarshalJSON over a positional JSON array.
type rawEvent struct {
	id           string
	participants []string
	propositions []string
	vc           []int64
}

func (r *rawEvent) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return &FormatError{Message: fmt.Sprintf("event entry is not a JSON array: %v", err)}
	}
	if len(parts) != 4 {
		return &FormatError{Message: fmt.Sprintf("event entry has %d fields, want 4 ([id, participants, propositions, vc])", len(parts))}
	}
	if err := json.Unmarshal(parts[0], &r.id); err != nil {
		return &FormatError{Message: fmt.Sprintf("event id must be a string: %v", err)}
	}
	if err := json.Unmarshal(parts[1], &r.participants); err != nil {
		return &FormatError{Message: fmt.Sprintf("event %q: participants must be a string array: %v", r.id, err)}
	}
	if err := json.Unmarshal(parts[2], &r.propositions); err != nil {
		return &FormatError{Message: fmt.Sprintf("event %q: propositions must be a string array: %v", r.id, err)}
	}
	if err := json.Unmarshal(parts[3], &r.vc); err != nil {
		return &FormatError{Message: fmt.Sprintf("event %q: vc must be an integer array: %v", r.id, err)}
	}
	return nil
}

// file is the top-level shape of spec.md §6's trace JSON.
type file struct {
	Processes    int        `json:"processes"`
	ProcessNames []string   `json:"process_names,omitempty"`
	Events       []rawEvent `json:"events"`
}

// Trace is a decoded, format-validated trace: the declared process count and
// the linearized event list in file order.
type Trace struct {
	Processes    int
	ProcessNames []string
	Events       []*event.Event
}

// Load reads and format-validates the trace file at path.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trace file: %w", err)
	}
	return Parse(data)
}

// Parse format-validates and decodes raw trace JSON bytes.
func Parse(data []byte) (*Trace, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		if fe, ok := err.(*FormatError); ok {
			return nil, fe
		}
		return nil, &FormatError{Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	if f.Processes <= 0 {
		return nil, &FormatError{Message: fmt.Sprintf("processes must be positive, got %d", f.Processes)}
	}
	if len(f.ProcessNames) > 0 && len(f.ProcessNames) != f.Processes {
		return nil, &FormatError{Message: fmt.Sprintf("process_names has %d entries, want %d", len(f.ProcessNames), f.Processes)}
	}

	seen := make(map[string]bool, len(f.Events))
	events := make([]*event.Event, 0, len(f.Events))
	for _, re := range f.Events {
		if re.id == "" {
			return nil, &FormatError{Message: "event id must not be empty"}
		}
		if seen[re.id] {
			return nil, &FormatError{Message: fmt.Sprintf("duplicate event id %q", re.id)}
		}
		seen[re.id] = true

		if len(re.vc) != f.Processes {
			return nil, &FormatError{Message: fmt.Sprintf("event %q: vc has width %d, want %d", re.id, len(re.vc), f.Processes)}
		}
		if len(re.participants) == 0 {
			return nil, &FormatError{Message: fmt.Sprintf("event %q: participants must be non-empty", re.id)}
		}

		procs := make([]int, 0, len(re.participants))
		for _, p := range re.participants {
			n, err := parseParticipant(p, f.Processes)
			if err != nil {
				return nil, &FormatError{Message: fmt.Sprintf("event %q: %v", re.id, err)}
			}
			procs = append(procs, n)
		}

		vc := make(vclock.Clock, f.Processes)
		for i, v := range re.vc {
			if v < 0 {
				return nil, &FormatError{Message: fmt.Sprintf("event %q: vc component %d is negative", re.id, i)}
			}
			vc[i] = uint64(v)
		}

		events = append(events, &event.Event{
			ID:           re.id,
			Processes:    procs,
			Propositions: append([]string(nil), re.propositions...),
			VC:           vc,
		})
	}

	return &Trace{
		Processes:    f.Processes,
		ProcessNames: f.ProcessNames,
		Events:       events,
	}, nil
}

// parseParticipant parses a "Pk" participant identifier and checks that
// k is in range 1..N (spec.md §6, §7).
func parseParticipant(s string, n int) (int, error) {
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("participant %q must have the form \"Pk\"", s)
	}
	k, err := strconv.Atoi(strings.TrimPrefix(s, "P"))
	if err != nil {
		return 0, fmt.Errorf("participant %q must have the form \"Pk\": %v", s, err)
	}
	if k < 1 || k > n {
		return 0, fmt.Errorf("participant %q out of range 1..%d", s, n)
	}
	return k, nil
}
