package gen

import "strings"

// ReturningKind selects what a write operation reads back.
type ReturningKind uint8

const (
	// ReturningFull reads back the whole row.
	ReturningFull ReturningKind = iota
	// ReturningIdentity reads back only the identity column.
	ReturningIdentity
	// ReturningNone reads nothing back.
	ReturningNone
	// ReturningColumns reads back an explicit column list.
	ReturningColumns
)

// String returns the directive token of the kind.
func (k ReturningKind) String() string {
	switch k {
	case ReturningIdentity:
		return "id"
	case ReturningNone:
		return "none"
	case ReturningColumns:
		return "columns"
	default:
		return "full"
	}
}

// Returning is the parsed read-back policy of an entity.
type Returning struct {
	Kind    ReturningKind
	Columns []string
}

// ParseReturning parses the returning directive. The empty string defaults
// to the full policy and any unrecognized token is treated as a
// comma-separated column list.
func ParseReturning(s string) Returning {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return Returning{Kind: ReturningFull}
	case "id", "identity":
		return Returning{Kind: ReturningIdentity}
	case "none":
		return Returning{Kind: ReturningNone}
	}
	parts := strings.Split(s, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cols = append(cols, p)
		}
	}
	if len(cols) == 0 {
		return Returning{Kind: ReturningFull}
	}
	return Returning{Kind: ReturningColumns, Columns: cols}
}
