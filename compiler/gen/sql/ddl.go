package sql

import (
	"fmt"
	"strings"

	"github.com/syssam/entityc/compiler/gen"
	"github.com/syssam/entityc/schema/field"
)

// CreateTable synthesizes the CREATE TABLE statement of the entity. Default
// and check expressions are emitted verbatim; they are caller-trusted raw
// SQL.
func (b *Builder) CreateTable() string {
	e := b.entity
	lines := make([]string, 0, len(e.AllFields()))
	for _, f := range e.AllFields() {
		lines = append(lines, "    "+b.columnLine(f))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n);\n",
		e.TableQualifiedName(), strings.Join(lines, ",\n"))
}

// DropTable synthesizes the reversing DROP TABLE statement.
func (b *Builder) DropTable() string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;\n", b.entity.TableQualifiedName())
}

// Indexes synthesizes the index statements of the entity: one per indexed
// field, then one per composite index declaration.
func (b *Builder) Indexes() []string {
	e := b.entity
	var out []string
	for _, f := range e.AllFields() {
		if !f.Indexed() {
			continue
		}
		col := f.Column()
		out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s%s (%s);\n",
			e.Table(), col, e.TableQualifiedName(), usingClause(f.IndexKind()), col))
	}
	for _, idx := range e.Indexes() {
		out = append(out, b.compositeIndex(idx))
	}
	return out
}

func (b *Builder) compositeIndex(idx *gen.Index) string {
	e := b.entity
	unique := ""
	if idx.Unique() {
		unique = "UNIQUE "
	}
	sql := fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s%s (%s)",
		unique, idx.Name(e.Table()), e.TableQualifiedName(),
		usingClause(idx.Using()), strings.Join(idx.Columns(), ", "))
	if w := idx.Where(); w != "" {
		sql += " WHERE " + w
	}
	return sql + ";\n"
}

// columnLine renders one column definition. The identity column gets a
// PRIMARY KEY marker instead of NOT NULL; other non-nullable, non-array
// columns get NOT NULL.
func (b *Builder) columnLine(f *gen.Field) string {
	t := columnType(f)
	var s strings.Builder
	s.WriteString(f.Column())
	s.WriteString(" ")
	s.WriteString(t.String())
	switch {
	case f.Identity():
		s.WriteString(" PRIMARY KEY")
	case !t.Nullable && t.ArrayDepth == 0:
		s.WriteString(" NOT NULL")
	}
	if f.Unique() {
		s.WriteString(" UNIQUE")
	}
	if expr := f.DefaultExpr(); expr != "" {
		s.WriteString(" DEFAULT ")
		s.WriteString(expr)
	}
	if expr := f.Check(); expr != "" {
		s.WriteString(" CHECK (")
		s.WriteString(expr)
		s.WriteString(")")
	}
	if target := f.BelongsTo(); target != "" {
		// The referenced table is derived from the related entity's own
		// name, not its declared table override. The two diverge when the
		// target customizes its table name.
		fmt.Fprintf(&s, " REFERENCES %s.%s(id)", b.entity.Namespace(), gen.Pluralize(gen.Snake(target)))
		if action := f.OnDelete(); action != "" {
			s.WriteString(" ON DELETE ")
			s.WriteString(onDeleteSQL(action))
		}
	}
	return s.String()
}

// usingClause renders the index method clause. The backend default (btree)
// and unrecognized kinds emit nothing.
func usingClause(kind string) string {
	switch kind {
	case "hash", "gin", "gist", "brin":
		return " USING " + kind
	default:
		return ""
	}
}

// onDeleteSQL maps a referential action directive to its SQL clause.
func onDeleteSQL(action string) string {
	switch action {
	case field.Cascade:
		return "CASCADE"
	case field.SetNull:
		return "SET NULL"
	case field.SetDefault:
		return "SET DEFAULT"
	case field.Restrict:
		return "RESTRICT"
	default:
		return "NO ACTION"
	}
}
