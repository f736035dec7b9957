package sqlstr

import (
	"reflect"

	"github.com/mitranim/refut"
)

/*
Implements `Record` for structs and struct pointers. Opting in is done with
"db" tags: only exported fields tagged with `db:"column_name"` are visited,
and the tag provides the column name. A tag of "-" excludes the field.
Embedded structs are treated as part of the enclosing struct.

Fields are classified by their static Go type, as described in `ValueOf`.
A field declared as `interface{}` is unsupported regardless of its content.

A nil pointer, or a non-struct input, has no fields. Use `RecordOf` to reject
non-struct inputs with an error.

	type User struct {
		Id   *int64  `db:"id"`
		Name *string `db:"name"`
	}

	dict := Extract(Struct{Val: User{Name: &name}})
*/
type Struct struct{ Val interface{} }

// Implement `Record`.
func (self Struct) RangeFields(fun func(string, Value)) {
	traverseStructDbFields(self.Val, func(name string, rval reflect.Value) {
		fun(name, rvalValue(rval))
	})
}

func traverseStructDbFields(input interface{}, fun func(string, reflect.Value)) {
	rval := reflect.ValueOf(input)
	if !rval.IsValid() || refut.IsRvalNil(rval) {
		return
	}
	if refut.RtypeDeref(rval.Type()).Kind() != reflect.Struct {
		return
	}

	err := refut.TraverseStructRval(rval, func(rval reflect.Value, sfield reflect.StructField, _ []int) error {
		if sfield.PkgPath != "" {
			return nil
		}
		colName := sfieldColumnName(sfield)
		if colName == "" {
			return nil
		}
		fun(colName, rval)
		return nil
	})
	if err != nil {
		panic(err)
	}
}

/*
TODO: consider validating that the column name doesn't contain characters
removed by `Escape`. Such names are silently altered in the output.
*/
func sfieldColumnName(sfield reflect.StructField) string {
	return refut.TagIdent(sfield.Tag.Get("db"))
}
