package sqlstr

import (
	"fmt"
	"reflect"

	"github.com/mitranim/refut"
)

/*
Takes a struct and returns the column names of its fields tagged with "db",
suitable for `Builder.Select`. Embedded structs are treated as part of the
enclosing struct. Also accepts the following inputs and automatically
dereferences them into a struct type:

  - Struct pointer.
  - Struct slice.
  - Struct slice pointer.

Nil slices and pointers are fine, as long as they carry a struct type. Any
other input causes `ErrInvalidInput`.

For example, this:

	type User struct {
		Id   int64  `db:"id"`
		Name string `db:"name"`
		Note string
	}

	cols, err := Cols([]User(nil))

Is equivalent to:

	cols := []string{"id", "name"}
*/
func Cols(dest interface{}) ([]string, error) {
	rtype := reflect.TypeOf(dest)
	if rtype == nil {
		return nil, errColsInput(rtype)
	}

	rtype = refut.RtypeDeref(rtype)
	if rtype.Kind() == reflect.Slice {
		rtype = refut.RtypeDeref(rtype.Elem())
	}

	if rtype.Kind() != reflect.Struct {
		return nil, errColsInput(rtype)
	}

	var cols []string
	err := refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, _ []int) error {
		if sfield.PkgPath != "" {
			return nil
		}
		colName := sfieldColumnName(sfield)
		if colName != "" {
			cols = append(cols, colName)
		}
		return nil
	})
	return cols, err
}

func errColsInput(rtype reflect.Type) Err {
	return ErrInvalidInput.while(`listing struct columns`).because(
		fmt.Errorf(`expected struct, got %v`, rtype),
	)
}
