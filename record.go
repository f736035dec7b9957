package sqlstr

import (
	"fmt"
	r "reflect"
	"sort"
	"strings"

	"github.com/mitranim/refut"
)

/*
Anything with named fields that can be extracted into a `Dict`. Implementations
must call the function once per field, in whatever order they naturally have.
The order carries no meaning for consumers.

This package provides `Fields` for hand-built records, `Struct` for structs
with "db" tags, and `Map` for decoded JSON or YAML documents.
*/
type Record interface {
	RangeFields(func(name string, val Value))
}

// One named field of a `Record`.
type Field struct {
	Name  string
	Value Value
}

// Hand-built `Record`. Useful when the field set is only known at runtime.
type Fields []Field

// Implement `Record`.
func (self Fields) RangeFields(fun func(string, Value)) {
	for _, field := range self {
		fun(field.Name, field.Value)
	}
}

/*
Result of extraction: field name to rendered literal text. Unordered, like
any map. Consumers that need a stable order should use `.Pairs`.
*/
type Dict map[string]string

// Returns the pairs sorted by column name.
func (self Dict) Pairs() []Pair {
	out := make([]Pair, 0, len(self))
	for key, val := range self {
		out = append(out, Pair{key, val})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Col < out[j].Col })
	return out
}

// Column name and rendered value. Input for `Builder.InsertPairs` and
// `Builder.UpdatePairs`.
type Pair struct {
	Col string
	Val string
}

/*
Converts a record into a `Dict` by rendering every field via `Render`. Fields
that don't render are skipped: absent optionals and fields of unsupported
types. Never fails; a nil record, or one without renderable fields, produces
an empty non-nil dict.

Caution: silently skipping unsupported types means that a field whose type
was changed to something outside the supported set simply disappears from the
generated SQL. Use `ExtractStrict` or `ExtractReport` to detect this.
*/
func Extract(rec Record) Dict {
	out, _ := extract(rec, false)
	return out
}

// Why a field is missing from the output of `ExtractReport`.
type DropReason byte

const (
	DropAbsent      DropReason = 1
	DropUnsupported DropReason = 2
)

// Implement `fmt.Stringer` for debug purposes.
func (self DropReason) String() string {
	switch self {
	case DropAbsent:
		return `absent`
	case DropUnsupported:
		return `unsupported`
	default:
		return ``
	}
}

// Field skipped by extraction. See `ExtractReport`.
type Dropped struct {
	Name   string
	Type   string
	Reason DropReason
}

/*
Same as `Extract`, but also returns every skipped field along with the reason.
The dict is identical to the output of `Extract` for the same record.
*/
func ExtractReport(rec Record) (Dict, []Dropped) {
	return extract(rec, true)
}

/*
Same as `Extract`, but fails with `ErrUnsupportedType` if any field has an
unsupported type. Absent optionals are fine. The dict is returned even on
error.
*/
func ExtractStrict(rec Record) (Dict, error) {
	dict, dropped := ExtractReport(rec)

	var names []string
	for _, val := range dropped {
		if val.Reason == DropUnsupported {
			names = append(names, fmt.Sprintf(`%q (%v)`, val.Name, val.Type))
		}
	}
	if len(names) > 0 {
		return dict, ErrUnsupportedType.while(`extracting record fields`).because(
			fmt.Errorf(`unsupported field types: %v`, strings.Join(names, `, `)),
		)
	}
	return dict, nil
}

func extract(rec Record, report bool) (Dict, []Dropped) {
	dict := Dict{}
	var dropped []Dropped

	if refut.IsNil(rec) {
		return dict, dropped
	}

	rec.RangeFields(func(name string, val Value) {
		text, ok := Render(val)
		if ok {
			dict[name] = text
			return
		}
		if !report {
			return
		}
		if val.Absent {
			dropped = append(dropped, Dropped{name, val.Type, DropAbsent})
		} else {
			dropped = append(dropped, Dropped{name, val.Type, DropUnsupported})
		}
	})

	return dict, dropped
}

/*
Converts an arbitrary input into a `Record`:

  - `Record` implementations are returned as-is.
  - `map[string]any` becomes `Map`.
  - Structs and struct pointers become `Struct`.

Other inputs cause `ErrInvalidInput`.
*/
func RecordOf(src any) (Record, error) {
	switch src := src.(type) {
	case Record:
		return src, nil
	case map[string]any:
		return Map(src), nil
	}

	typ := r.TypeOf(src)
	if typ != nil && refut.RtypeDeref(typ).Kind() == r.Struct {
		return Struct{src}, nil
	}

	return nil, ErrInvalidInput.while(`converting input to record`).because(
		fmt.Errorf(`expected record, struct or map, got %v`, typ),
	)
}
