package kurve

import (
	"fmt"
	"strings"

	"github.com/tsawler/kurve/diag"
)

// Warning is a non-fatal issue encountered while reconstructing a document:
// a heuristic that fired on unexpected input, a field left empty, an entry
// that had to be annotated. Warnings never stop extraction; they exist so
// the caller can audit what the heuristics decided.
type Warning struct {
	Level    diag.Level
	Message  string
	Document string
	Page     int // printed page number, 0 when unknown
	MedNr    int // entry identifier, 0 when not entry-scoped
}

// String renders the warning with whatever context it carries.
func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(w.Message)
	if w.Document != "" {
		fmt.Fprintf(&b, " (%s", w.Document)
		if w.Page != 0 {
			fmt.Fprintf(&b, ", page %d", w.Page)
		}
		if w.MedNr != 0 {
			fmt.Fprintf(&b, ", med nr %d", w.MedNr)
		}
		b.WriteString(")")
	}
	return b.String()
}

// FormatWarnings joins warnings into a human-readable block, one per line.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// collector is an observer that keeps warn-and-above events as warnings.
type collector struct {
	warnings []Warning
}

func (c *collector) Event(e diag.Event) {
	if e.Level < diag.Warn {
		return
	}
	c.warnings = append(c.warnings, Warning{
		Level:    e.Level,
		Message:  e.Message,
		Document: e.Document,
		Page:     e.Page,
		MedNr:    e.MedNr,
	})
}
