package sql

import (
	"strings"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"github.com/syssam/entityc/compiler/gen"
	"github.com/syssam/entityc/dialect"
	"github.com/syssam/entityc/schema/field"
)

// Emitter renders the Go access surface and the DDL migration pair of an
// entity. It implements gen.Emitter.
type Emitter struct {
	pkg    string
	header string
}

// NewEmitter creates an emitter writing files into the named package.
func NewEmitter(pkg string) *Emitter {
	return &Emitter{pkg: pkg, header: gen.DefaultHeader}
}

// WithHeader overrides the header comment of generated files.
func (em *Emitter) WithHeader(header string) *Emitter {
	if header != "" {
		em.header = header
	}
	return em
}

// Artifact renders the typed access surface of the entity: the model
// struct, request/response DTOs, column metadata, the synthesized SQL
// statement constants and the repository interface. Dialects without
// statement synthesis get the interface and DTOs only.
func (em *Emitter) Artifact(e *gen.Entity) (*jen.File, error) {
	f := jen.NewFile(em.pkg)
	f.HeaderComment(em.header)

	em.genModel(f, e)
	em.genInputs(f, e)
	if e.HasFilters() {
		em.genFilter(f, e)
	}
	for _, p := range e.Projections() {
		em.genProjection(f, e, p)
	}
	em.genColumns(f, e)

	if e.Dialect() == dialect.Postgres {
		b, err := NewBuilder(e)
		if err != nil {
			return nil, err
		}
		em.genStatements(f, e, b)
	}
	em.genRepository(f, e)
	return f, nil
}

// Migration renders the up/down DDL migration pair of the entity.
func (em *Emitter) Migration(e *gen.Entity) (up, down string, err error) {
	b, err := NewBuilder(e)
	if err != nil {
		return "", "", err
	}
	var s strings.Builder
	s.WriteString(b.CreateTable())
	for _, idx := range b.Indexes() {
		s.WriteString(idx)
	}
	return s.String(), b.DropTable(), nil
}

func (em *Emitter) genModel(f *jen.File, e *gen.Entity) {
	f.Commentf("%s is the model entity for the %s table.", e.Name(), e.Table())
	f.Type().Id(e.Name()).StructFunc(func(g *jen.Group) {
		for _, fd := range e.ResponseFields() {
			g.Id(fd.StructField()).Add(goType(fd)).Tag(structTags(fd))
		}
	})
}

// genInputs renders the write request structs. An entity with no
// create-exposed or update-exposed fields has no such request, so the
// struct is omitted together with its repository method.
func (em *Emitter) genInputs(f *jen.File, e *gen.Entity) {
	if fields := e.CreateFields(); len(fields) > 0 {
		f.Commentf("Create%sInput is the create request of %s.", e.Name(), e.Name())
		f.Type().Id("Create" + e.Name() + "Input").StructFunc(func(g *jen.Group) {
			for _, fd := range fields {
				g.Id(fd.StructField()).Add(goType(fd)).Tag(structTags(fd))
			}
		})
	}

	if fields := e.UpdateFields(); len(fields) > 0 {
		f.Commentf("Update%sInput is the update request of %s.", e.Name(), e.Name())
		f.Type().Id("Update" + e.Name() + "Input").StructFunc(func(g *jen.Group) {
			for _, fd := range fields {
				g.Id(fd.StructField()).Add(goType(fd)).Tag(structTags(fd))
			}
		})
	}
}

// genFilter renders the dynamic filter request struct. Every condition is a
// pointer so an absent value contributes no term.
func (em *Emitter) genFilter(f *jen.File, e *gen.Entity) {
	f.Commentf("%sFilter is the dynamic filter request of %s.", e.Name(), e.Name())
	f.Type().Id(e.Name() + "Filter").StructFunc(func(g *jen.Group) {
		for _, fd := range e.FilterFields() {
			switch fd.Filter() {
			case field.FilterEq:
				g.Id(fd.StructField()).Add(pointerType(fd)).Tag(filterTags(fd.Name()))
			case field.FilterLike:
				g.Id(fd.StructField() + "Like").Id("*string").Tag(filterTags(fd.Name() + "_like"))
			case field.FilterRange:
				g.Id(fd.StructField() + "From").Add(pointerType(fd)).Tag(filterTags(fd.Name() + "_from"))
				g.Id(fd.StructField() + "To").Add(pointerType(fd)).Tag(filterTags(fd.Name() + "_to"))
			}
		}
		g.Id("Limit").Int().Tag(filterTags("limit"))
		g.Id("Offset").Int().Tag(filterTags("offset"))
	})
}

func (em *Emitter) genProjection(f *jen.File, e *gen.Entity, p gen.Projection) {
	name := e.Name() + gen.Pascal(p.Name)
	f.Commentf("%s is the %q projection of %s.", name, p.Name, e.Name())
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, fd := range p.Fields {
			g.Id(fd.StructField()).Add(goType(fd)).Tag(structTags(fd))
		}
	})
}

func (em *Emitter) genColumns(f *jen.File, e *gen.Entity) {
	name := e.Name()
	f.Commentf("%sTable is the qualified table of %s.", name, name)
	f.Const().Id(name + "Table").Op("=").Lit(e.TableQualifiedName())

	f.Comment("Column names of the " + e.Table() + " table.")
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, fd := range e.AllFields() {
			g.Id(name + "Column" + fd.StructField()).Op("=").Lit(fd.Column())
		}
	})

	f.Commentf("%sColumns lists every column of %s in declaration order.", name, name)
	f.Var().Id(name + "Columns").Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, fd := range e.AllFields() {
			g.Line().Id(name + "Column" + fd.StructField())
		}
		g.Line()
	})

	f.Commentf("Valid%sColumn reports whether column belongs to %s.", name, name)
	f.Func().Id("Valid"+name+"Column").Params(jen.Id("column").String()).Bool().Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("c")).Op(":=").Range().Id(name+"Columns")).Block(
			jen.If(jen.Id("c").Op("==").Id("column")).Block(jen.Return(jen.True())),
		),
		jen.Return(jen.False()),
	)
}

func (em *Emitter) genStatements(f *jen.File, e *gen.Entity, b *Builder) {
	ops := append(b.Operations(), b.Relations()...)
	f.Comment("Statements synthesized for " + e.Name() + ".")
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, op := range ops {
			g.Id(stmtConst(e, op.Name)).Op("=").Lit(op.SQL)
		}
	})
}

// genRepository renders the repository interface. Non-postgres dialects are
// declared but not implemented; their artifact stops at this interface.
func (em *Emitter) genRepository(f *jen.File, e *gen.Entity) {
	name := e.Name()
	idType := goType(e.IdentityField())
	f.Commentf("%sRepository is the typed access surface of %s.", name, name)
	f.Comment("")
	f.Comment("Implementations report a missing row as *entityc.NotFoundError,")
	f.Comment("constraint violations as entityc.ConstraintError, and wrap other")
	f.Comment("failures in *entityc.QueryError or *entityc.MutationError.")
	f.Type().Id(name + "Repository").InterfaceFunc(func(g *jen.Group) {
		ctx := jen.Qual("context", "Context")
		if len(e.CreateFields()) > 0 {
			g.Id("Create").Params(jen.Add(ctx), jen.Id("Create"+name+"Input")).
				Params(jen.Op("*").Id(name), jen.Error())
		}
		g.Id("Find").Params(jen.Add(ctx), jen.Add(idType)).
			Params(jen.Op("*").Id(name), jen.Error())
		if len(e.UpdateFields()) > 0 {
			g.Id("Update").Params(jen.Add(ctx), jen.Add(idType), jen.Id("Update"+name+"Input")).
				Params(jen.Op("*").Id(name), jen.Error())
		}
		g.Id("Delete").Params(jen.Add(ctx), jen.Add(idType)).
			Params(jen.Bool(), jen.Error())
		g.Id("List").Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("limit").Int(), jen.Id("offset").Int()).
			Params(jen.Index().Op("*").Id(name), jen.Error())
		if e.SoftDelete() {
			g.Id("HardDelete").Params(jen.Add(ctx), jen.Add(idType)).
				Params(jen.Bool(), jen.Error())
			g.Id("Restore").Params(jen.Add(ctx), jen.Add(idType)).
				Params(jen.Bool(), jen.Error())
			g.Id("FindWithDeleted").Params(jen.Add(ctx), jen.Add(idType)).
				Params(jen.Op("*").Id(name), jen.Error())
			g.Id("ListWithDeleted").Params(jen.Id("ctx").Qual("context", "Context"), jen.Id("limit").Int(), jen.Id("offset").Int()).
				Params(jen.Index().Op("*").Id(name), jen.Error())
		}
		if e.HasFilters() {
			g.Id("Filter").Params(jen.Add(ctx), jen.Id(name+"Filter")).
				Params(jen.Index().Op("*").Id(name), jen.Error())
		}
		for _, fd := range e.RelationFields() {
			g.Id("Find" + fd.BelongsTo()).Params(jen.Add(ctx), jen.Add(idType)).
				Params(jen.Op("*").Id(fd.BelongsTo()), jen.Error())
		}
		for _, target := range e.OneToMany() {
			g.Id("List" + inflect.Pluralize(target)).Params(jen.Add(ctx), jen.Add(idType)).
				Params(jen.Index().Op("*").Id(target), jen.Error())
		}
		for _, p := range e.Projections() {
			g.Id("Find" + gen.Pascal(p.Name)).Params(jen.Add(ctx), jen.Add(idType)).
				Params(jen.Op("*").Id(name+gen.Pascal(p.Name)), jen.Error())
		}
	})
}

// stmtConst is the name of the statement constant of one operation, e.g.
// sqlUserCreate or sqlMetricHardDelete.
func stmtConst(e *gen.Entity, op string) string {
	return "sql" + e.Name() + gen.Pascal(op)
}

func structTags(f *gen.Field) map[string]string {
	return map[string]string{"json": f.Name() + ",omitempty"}
}

func filterTags(name string) map[string]string {
	return map[string]string{"json": name + ",omitempty"}
}

// goType returns the Go type of a field, honoring optional and list wraps.
func goType(f *gen.Field) jen.Code {
	return typeCode(f.Type())
}

// pointerType returns a pointer to the field's base (unwrapped) type, used
// by filter request structs.
func pointerType(f *gen.Field) jen.Code {
	t := f.Type()
	for t.Kind() != field.KindScalar {
		t = t.Elem()
	}
	if s, ok := simpleScalar(t.ScalarKind()); ok {
		return jen.Id("*" + s)
	}
	return jen.Op("*").Add(scalarCode(t.ScalarKind()))
}

func typeCode(t field.Type) jen.Code {
	switch t.Kind() {
	case field.KindOptional:
		inner := t.Elem()
		if inner.Kind() == field.KindScalar {
			if s, ok := simpleScalar(inner.ScalarKind()); ok {
				return jen.Id("*" + s)
			}
		}
		return jen.Op("*").Add(typeCode(inner))
	case field.KindList:
		return jen.Index().Add(typeCode(t.Elem()))
	}
	return scalarCode(t.ScalarKind())
}

// simpleScalar returns the bare identifier of scalars that need no import,
// so pointer fields render without whitespace artifacts.
func simpleScalar(k field.ScalarKind) (string, bool) {
	switch k {
	case field.ScalarString, field.ScalarDecimal:
		return "string", true
	case field.ScalarInt8:
		return "int8", true
	case field.ScalarInt16:
		return "int16", true
	case field.ScalarInt32:
		return "int32", true
	case field.ScalarInt64:
		return "int64", true
	case field.ScalarFloat32:
		return "float32", true
	case field.ScalarFloat64:
		return "float64", true
	case field.ScalarBool:
		return "bool", true
	default:
		return "", false
	}
}

func scalarCode(k field.ScalarKind) jen.Code {
	switch k {
	case field.ScalarUUID:
		return jen.Qual("github.com/google/uuid", "UUID")
	case field.ScalarString, field.ScalarDecimal:
		return jen.String()
	case field.ScalarInt8:
		return jen.Int8()
	case field.ScalarInt16:
		return jen.Int16()
	case field.ScalarInt32:
		return jen.Int32()
	case field.ScalarInt64:
		return jen.Int64()
	case field.ScalarFloat32:
		return jen.Float32()
	case field.ScalarFloat64:
		return jen.Float64()
	case field.ScalarBool:
		return jen.Bool()
	case field.ScalarTime, field.ScalarDate, field.ScalarTimeOfDay, field.ScalarDateTime:
		return jen.Qual("time", "Time")
	case field.ScalarJSON:
		return jen.Qual("encoding/json", "RawMessage")
	case field.ScalarIP:
		return jen.Qual("net", "IP")
	case field.ScalarMAC:
		return jen.Qual("net", "HardwareAddr")
	case field.ScalarBytes:
		return jen.Index().Byte()
	default:
		return jen.Any()
	}
}

// Verify Emitter satisfies the generator contract.
var _ gen.Emitter = (*Emitter)(nil)
