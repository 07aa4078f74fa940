// Package visual models the external graph-rendering collaborator named in
// spec.md §1 ("SVG/Graphviz rendering" is explicitly out of scope for the
// core). It defines the narrow interface the core hands frontiers to, a
// no-op default, and a Graphviz DOT text emitter — the actual rendering to
// SVG/PNG is left to `dot` or any other consumer of that text, never
// performed in-process.
package visual

import (
	"fmt"
	"io"
	"sort"

	"github.com/moraneus/PoET/internal/frontier"
)

// Visualizer receives the frontier DAG as it grows. The core never inspects
// what a Visualizer does with it (spec.md §1: an external collaborator).
type Visualizer interface {
	Render(frontiers []*frontier.Frontier) error
}

// Noop discards everything; the default when -v/--visual is not passed.
type Noop struct{}

func (Noop) Render([]*frontier.Frontier) error { return nil }

// DOTEmitter writes the frontier DAG as Graphviz DOT source to W, one
// re-render per call to Render (the whole DAG as currently known, not a
// diff) — simplest faithful mapping of "graph emission" for a verifier that
// otherwise never touches rendering.
type DOTEmitter struct {
	W io.Writer
}

func (d DOTEmitter) Render(frontiers []*frontier.Frontier) error {
	if _, err := fmt.Fprintln(d.W, "digraph frontiers {"); err != nil {
		return err
	}
	for _, f := range frontiers {
		label := fmt.Sprintf("F%d\\n%v\\n{%s}", f.ID, []uint64(f.Cut), propsLabel(f.Props))
		style := ""
		if f.Tombstoned() {
			style = ` style="dashed" color="gray"`
		}
		if _, err := fmt.Fprintf(d.W, "  f%d [label=%q%s];\n", f.ID, label, style); err != nil {
			return err
		}
	}
	for _, f := range frontiers {
		for _, e := range f.Children {
			eventID := ""
			if e.Event != nil {
				eventID = e.Event.ID
			}
			if _, err := fmt.Fprintf(d.W, "  f%d -> f%d [label=%q];\n", f.ID, e.To, eventID); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(d.W, "}")
	return err
}

func propsLabel(props map[string]bool) string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ","
		}
		out += k
	}
	return out
}
