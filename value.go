package sqlstr

import (
	"database/sql/driver"
	r "reflect"
	"strconv"

	"github.com/mitranim/refut"
)

/*
Shape of a `Value`: which primitive the value holds. The set is closed. Every
Go type that doesn't map onto one of these kinds is `KindUnsupported`, and
its values never render.
*/
type Kind byte

const (
	KindUnsupported Kind = iota
	KindInt
	KindUint
	KindFloat
	KindBool
	KindText
	KindBytes
)

// Implement `fmt.Stringer` for debug purposes.
func (self Kind) String() string {
	switch self {
	case KindInt:
		return `int`
	case KindUint:
		return `uint`
	case KindFloat:
		return `float`
	case KindBool:
		return `bool`
	case KindText:
		return `text`
	case KindBytes:
		return `bytes`
	default:
		return `unsupported`
	}
}

/*
Bit width of numeric values. `WidthSize` stands for pointer-sized integers
(`int`, `uint`, `uintptr`). Zero for non-numeric kinds.
*/
type Width byte

const (
	WidthNone Width = 0
	Width8    Width = 8
	Width16   Width = 16
	Width32   Width = 32
	Width64   Width = 64
	WidthSize Width = 255
)

func (self Width) floatBits() int {
	if self == Width32 {
		return 32
	}
	return 64
}

/*
Type constraint listing every Go type, including named types, whose values
this package knows how to render.
*/
type Primitive interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~bool | ~string | ~[]byte
}

/*
One field's value, already tagged with its shape. This is what a `Record`
hands to the extractor. Create values with `Of`, `OptOf`, `ValueOf` or `Null`.
The zero value is an unsupported value and never renders.

`.Opt` marks optional shapes (pointers, `sql.Null*`, ...). `.Absent` marks an
optional value that is currently unset. `.Type` is the Go type name, filled
for unsupported values so that strict extraction can report them.
*/
type Value struct {
	Kind   Kind
	Width  Width
	Opt    bool
	Absent bool
	Type   string

	num   int64
	unum  uint64
	float float64
	flag  bool
	text  string
	bytes []byte
}

// Implement `fmt.Stringer`. Returns the rendered text, or "" for values that
// don't render.
func (self Value) String() string {
	out, _ := Render(self)
	return out
}

// True if the value renders.
func (self Value) IsPresent() bool {
	_, ok := Render(self)
	return ok
}

/*
Renders a value as SQL literal text. The second result is false when there's
nothing to render: either an absent optional, or an unsupported type. Both
cases are normal outcomes rather than errors.

  - Integers: base 10.
  - Floats: shortest decimal that round-trips, without exponent.
  - Booleans: `true` or `false`.
  - Text and bytes: verbatim. Escaping is up to the consumer.
*/
func Render(val Value) (string, bool) {
	if val.Absent {
		return ``, false
	}

	switch val.Kind {
	case KindInt:
		return strconv.FormatInt(val.num, 10), true
	case KindUint:
		return strconv.FormatUint(val.unum, 10), true
	case KindFloat:
		return strconv.FormatFloat(val.float, 'f', -1, val.Width.floatBits()), true
	case KindBool:
		return strconv.FormatBool(val.flag), true
	case KindText:
		return val.text, true
	case KindBytes:
		return string(val.bytes), true
	case KindUnsupported:
		return ``, false
	default:
		return ``, false
	}
}

// Tags a direct (non-optional) primitive. The result always renders, except
// for a nil byte slice, which is absent like SQL NULL.
func Of[A Primitive](val A) Value { return primitiveValue(r.ValueOf(val)) }

// Tags an optional primitive. Nil means absent.
func OptOf[A Primitive](ptr *A) Value { return rvalValue(r.ValueOf(ptr)) }

// Absent optional of the given shape.
func Null(kind Kind, width Width) Value {
	return Value{Kind: kind, Width: width, Opt: true, Absent: true}
}

// Value of a type outside the supported set. Never renders.
func Unsupported(typ string) Value {
	return Value{Kind: KindUnsupported, Type: typ}
}

/*
Tags an arbitrary Go value, classifying it by its dynamic type:

  - Primitives and named primitives: direct shapes.
  - Pointers to primitives: optional shapes; nil is absent.
  - Nil byte slices: absent.
  - `driver.Valuer` implementations such as `sql.NullString` or
    `sql.Null[A]`: optional shapes; a nil driver value is absent.
  - Everything else: unsupported.
*/
func ValueOf(src any) Value { return rvalValue(r.ValueOf(src)) }

var valuerRtype = r.TypeOf((*driver.Valuer)(nil)).Elem()

func rvalValue(val r.Value) Value {
	if !val.IsValid() {
		return Unsupported(`nil`)
	}

	typ := val.Type()
	if typ.Implements(valuerRtype) {
		return valuerValue(val)
	}

	if typ.Kind() == r.Ptr {
		kind, width := shapeOf(typ.Elem())
		if kind == KindUnsupported {
			return Unsupported(typ.String())
		}
		if val.IsNil() {
			return Null(kind, width)
		}
		out := primitiveValue(val.Elem())
		out.Opt = true
		return out
	}

	return primitiveValue(val)
}

func valuerValue(val r.Value) Value {
	if refut.IsRvalNil(val) {
		return Value{Opt: true, Absent: true, Type: val.Type().String()}
	}

	src, err := val.Interface().(driver.Valuer).Value()
	if err != nil {
		return Unsupported(val.Type().String())
	}
	if src == nil {
		return Value{Opt: true, Absent: true, Type: val.Type().String()}
	}

	out := primitiveValue(r.ValueOf(src))
	if out.Kind == KindUnsupported {
		return Unsupported(val.Type().String())
	}
	out.Opt = true
	return out
}

func primitiveValue(val r.Value) Value {
	kind, width := shapeOf(val.Type())
	out := Value{Kind: kind, Width: width}

	switch kind {
	case KindInt:
		out.num = val.Int()
	case KindUint:
		out.unum = val.Uint()
	case KindFloat:
		out.float = val.Float()
	case KindBool:
		out.flag = val.Bool()
	case KindText:
		out.text = val.String()
	case KindBytes:
		if val.IsNil() {
			return Null(KindBytes, WidthNone)
		}
		out.bytes = val.Bytes()
	default:
		out.Type = val.Type().String()
	}
	return out
}

func shapeOf(typ r.Type) (Kind, Width) {
	switch typ.Kind() {
	case r.Int:
		return KindInt, WidthSize
	case r.Int8:
		return KindInt, Width8
	case r.Int16:
		return KindInt, Width16
	case r.Int32:
		return KindInt, Width32
	case r.Int64:
		return KindInt, Width64
	case r.Uint, r.Uintptr:
		return KindUint, WidthSize
	case r.Uint8:
		return KindUint, Width8
	case r.Uint16:
		return KindUint, Width16
	case r.Uint32:
		return KindUint, Width32
	case r.Uint64:
		return KindUint, Width64
	case r.Float32:
		return KindFloat, Width32
	case r.Float64:
		return KindFloat, Width64
	case r.Bool:
		return KindBool, WidthNone
	case r.String:
		return KindText, WidthNone
	case r.Slice:
		if typ.Elem().Kind() == r.Uint8 {
			return KindBytes, WidthNone
		}
	}
	return KindUnsupported, WidthNone
}
