package generator

import "time"

// Subtopic is one planned part of the explanation: its 1-based topic number
// and a few sentences describing its role in the whole.
type Subtopic struct {
	Index int
	Role  string
}

// Diagram holds the SVG produced for one subtopic. Degraded marks a
// placeholder emitted after the diagram stage exhausted its retry.
type Diagram struct {
	SVG      string
	Degraded bool
}

// Explanation is the short prose accompanying one subtopic's diagram.
// DiagramNote carries the optional trailing bracketed sentence clarifying
// what the diagram depicts.
type Explanation struct {
	Text        string
	DiagramNote string
	Degraded    bool
}

// Section binds one subtopic's role description to the diagram and prose
// generated for it.
type Section struct {
	Index       int
	Role        string
	Diagram     Diagram
	Explanation Explanation
}

// Bundle is the final aggregate for one topic, sections in index order.
type Bundle struct {
	Topic     string
	Count     int
	Sections  []Section
	CreatedAt time.Time
}

// Degraded reports whether any section carries a placeholder artifact.
func (b Bundle) Degraded() bool {
	for _, s := range b.Sections {
		if s.Diagram.Degraded || s.Explanation.Degraded {
			return true
		}
	}
	return false
}
