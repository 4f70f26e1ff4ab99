package field

import (
	"encoding/json"
	"fmt"
)

// A Kind discriminates the three shapes of the semantic type IR.
type Kind uint8

const (
	// KindScalar is a leaf type (UUID, String, Int32, ...).
	KindScalar Kind = iota
	// KindOptional wraps an inner type that may be absent. It maps to a
	// nullable column.
	KindOptional
	// KindList wraps an inner type repeated zero or more times. It maps
	// to an array column on backends that support them.
	KindList
)

// String returns the IR name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOptional:
		return "optional"
	case KindList:
		return "list"
	default:
		return "scalar"
	}
}

// A ScalarKind names a leaf semantic type. The set mirrors what the postgres
// backend can map natively; anything else is declared with Other and falls
// back to an unbounded text column.
type ScalarKind uint8

const (
	ScalarInvalid ScalarKind = iota
	ScalarUUID
	ScalarString
	ScalarInt8
	ScalarInt16
	ScalarInt32
	ScalarInt64
	ScalarFloat32
	ScalarFloat64
	ScalarBool
	ScalarTime      // timestamp with time zone
	ScalarDate      // calendar date
	ScalarTimeOfDay // wall-clock time without date
	ScalarDateTime  // timestamp without time zone
	ScalarJSON
	ScalarDecimal
	ScalarIP
	ScalarMAC
	ScalarBytes
	ScalarOther

	endScalars
)

var scalarNames = [...]string{
	ScalarInvalid:   "invalid",
	ScalarUUID:      "uuid",
	ScalarString:    "string",
	ScalarInt8:      "i8",
	ScalarInt16:     "i16",
	ScalarInt32:     "i32",
	ScalarInt64:     "i64",
	ScalarFloat32:   "f32",
	ScalarFloat64:   "f64",
	ScalarBool:      "bool",
	ScalarTime:      "time",
	ScalarDate:      "date",
	ScalarTimeOfDay: "time_of_day",
	ScalarDateTime:  "datetime",
	ScalarJSON:      "json",
	ScalarDecimal:   "decimal",
	ScalarIP:        "ip",
	ScalarMAC:       "mac",
	ScalarBytes:     "bytes",
	ScalarOther:     "other",
}

// String returns the IR name of the scalar kind.
func (s ScalarKind) String() string {
	if s < endScalars {
		return scalarNames[s]
	}
	return scalarNames[ScalarInvalid]
}

// Valid reports whether the scalar kind is a known leaf type.
func (s ScalarKind) Valid() bool {
	return s > ScalarInvalid && s < endScalars
}

// Type is the recursive semantic type of a field: a scalar leaf, an optional
// wrap, or a list wrap. The zero value is an invalid scalar. Types are
// immutable; wrapping constructors return new values.
type Type struct {
	kind   Kind
	scalar ScalarKind
	elem   *Type
}

// Scalar returns a leaf type of the given kind.
func Scalar(k ScalarKind) Type {
	return Type{kind: KindScalar, scalar: k}
}

// OptionalOf wraps t in an optional.
func OptionalOf(t Type) Type {
	inner := t
	return Type{kind: KindOptional, elem: &inner}
}

// ListOf wraps t in a list.
func ListOf(t Type) Type {
	inner := t
	return Type{kind: KindList, elem: &inner}
}

// Kind returns the outermost shape of the type.
func (t Type) Kind() Kind { return t.kind }

// ScalarKind returns the scalar kind of a leaf type, or ScalarInvalid for
// wrapped types.
func (t Type) ScalarKind() ScalarKind {
	if t.kind != KindScalar {
		return ScalarInvalid
	}
	return t.scalar
}

// Elem returns the wrapped type of an optional or list. For leaf types it
// returns the type itself.
func (t Type) Elem() Type {
	if t.elem == nil {
		return t
	}
	return *t.elem
}

// Leaf unwraps all optional and list wraps and returns the scalar leaf.
func (t Type) Leaf() Type {
	for t.kind != KindScalar {
		t = t.Elem()
	}
	return t
}

// Nullable reports whether any wrap in the type is optional.
func (t Type) Nullable() bool {
	for {
		switch t.kind {
		case KindOptional:
			return true
		case KindList:
			t = t.Elem()
		default:
			return false
		}
	}
}

// Depth returns the number of list wraps in the type.
func (t Type) Depth() int {
	d := 0
	for t.kind != KindScalar {
		if t.kind == KindList {
			d++
		}
		t = t.Elem()
	}
	return d
}

// String renders the type in IR notation, e.g. "optional<list<i32>>".
func (t Type) String() string {
	switch t.kind {
	case KindOptional:
		return fmt.Sprintf("optional<%s>", t.Elem())
	case KindList:
		return fmt.Sprintf("list<%s>", t.Elem())
	default:
		return t.scalar.String()
	}
}

// typeJSON is the serialized form of a Type.
type typeJSON struct {
	Kind   string    `json:"kind"`
	Scalar string    `json:"scalar,omitempty"`
	Elem   *typeJSON `json:"elem,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (t Type) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toJSON())
}

func (t Type) toJSON() *typeJSON {
	j := &typeJSON{Kind: t.kind.String()}
	if t.kind == KindScalar {
		j.Scalar = t.scalar.String()
	} else {
		elem := t.Elem().toJSON()
		j.Elem = elem
	}
	return j
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Type) UnmarshalJSON(b []byte) error {
	var j typeJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	parsed, err := j.toType()
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (j *typeJSON) toType() (Type, error) {
	switch j.Kind {
	case "scalar", "":
		for k := ScalarKind(1); k < endScalars; k++ {
			if scalarNames[k] == j.Scalar {
				return Scalar(k), nil
			}
		}
		return Type{}, fmt.Errorf("field: unknown scalar kind %q", j.Scalar)
	case "optional", "list":
		if j.Elem == nil {
			return Type{}, fmt.Errorf("field: %s type missing element", j.Kind)
		}
		elem, err := j.Elem.toType()
		if err != nil {
			return Type{}, err
		}
		if j.Kind == "optional" {
			return OptionalOf(elem), nil
		}
		return ListOf(elem), nil
	default:
		return Type{}, fmt.Errorf("field: unknown type kind %q", j.Kind)
	}
}
