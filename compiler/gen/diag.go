package gen

import (
	"fmt"
	"strings"
)

// Diagnostic is one schema validation finding. Entity is always set; Field
// and Option narrow the finding when it concerns a single declaration.
type Diagnostic struct {
	Entity  string
	Field   string
	Option  string
	Message string
}

// String renders the diagnostic as a single line.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Entity)
	if d.Field != "" {
		fmt.Fprintf(&b, ".%s", d.Field)
	}
	if d.Option != "" {
		fmt.Fprintf(&b, " (%s)", d.Option)
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Diagnostics is the batched result of schema validation. Validation never
// stops at the first finding so a schema author sees every problem at once.
type Diagnostics []Diagnostic

// Error renders all diagnostics, one per line.
func (d Diagnostics) Error() string {
	lines := make([]string, 0, len(d)+1)
	lines = append(lines, fmt.Sprintf("entityc: %d schema error(s)", len(d)))
	for _, diag := range d {
		lines = append(lines, "\t"+diag.String())
	}
	return strings.Join(lines, "\n")
}

// Is reports whether the target matches the invalid-schema sentinel.
func (d Diagnostics) Is(target error) bool {
	return target == ErrInvalidSchema
}
