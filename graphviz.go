package gamefsm

import (
	"github.com/enetx/g"
	"github.com/enetx/g/cmp"
)

// ToDOT generates a DOT language string representation of the state table
// for visualization. Next successors are drawn as "next" edges, keyed
// transitions are labelled with their key, and manual-only states are boxes.
func (m *Machine[O]) ToDOT() g.String {
	b := g.NewBuilder()

	b.WriteString("digraph FSM {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(
		"  node [shape=circle, style=filled, fillcolor=\"#f8f8f8\", color=\"#444444\", fontname=\"Helvetica\"];\n",
	)
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	if m.initial != "" {
		b.WriteString("  __start [shape=point, style=invis];\n")
		b.WriteString(g.Format("  __start -> \"{}\" [label=\" initial\"];\n\n", m.initial))
	}

	states := m.States()

	for state := range states.Iter() {
		def := m.states[state]

		var attrs g.Slice[g.String]
		attrs.Push(g.Format("label=\"{}\"", state))

		if def.Factory == nil {
			attrs.Push("shape=box")
		}

		switch {
		case state == m.current:
			attrs.Push("fillcolor=\"#90ee90\"", "penwidth=2")
		case def.Next == "" && len(def.Transitions) == 0:
			attrs.Push("fillcolor=\"#d3d3d3\"")
		}

		b.WriteString(g.Format("  \"{}\" [{}];\n", state, attrs.Join(", ")))
	}

	b.WriteByte('\n')

	for from := range states.Iter() {
		def := m.states[from]
		grouped := make(g.Map[State, g.Slice[g.String]])

		var targets g.Slice[State]

		add := func(to State, label g.String) {
			if _, ok := grouped[to]; !ok {
				targets.Push(to)
			}

			grouped[to] = append(grouped[to], label)
		}

		if def.Next != "" {
			add(def.Next, "next")
		}

		var keys g.Slice[Event]
		for key := range def.Transitions {
			keys.Push(key)
		}

		keys.SortBy(cmp.Cmp)

		for key := range keys.Iter() {
			add(def.Transitions[key], g.String(key))
		}

		for to := range targets.Iter() {
			b.WriteString(g.Format("  \"{}\" -> \"{}\" [label=\" {} \"];\n", from, to, grouped[to].Join("\\n")))
		}
	}

	b.WriteString("}\n")

	return b.String()
}
