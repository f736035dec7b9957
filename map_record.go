package sqlstr

import (
	"encoding/json"
	"strconv"
)

/*
Implements `Record` for documents decoded from JSON, YAML and similar formats,
where field types are only known at runtime. Values are classified by their
dynamic type via `ValueOf`, with two special cases:

  - Nil is an absent optional: JSON `null` means "no value".
  - `json.Number` becomes a signed or unsigned integer when integral,
    otherwise a float.
    Decoders should enable number mode (`UseNumber`) to avoid rounding
    large integers through float64.

Nested objects and arrays are unsupported.
*/
type Map map[string]interface{}

// Implement `Record`.
func (self Map) RangeFields(fun func(string, Value)) {
	for key, val := range self {
		fun(key, mapValue(val))
	}
}

func mapValue(src interface{}) Value {
	switch src := src.(type) {
	case nil:
		return Null(KindText, WidthNone)
	case json.Number:
		num, err := src.Int64()
		if err == nil {
			return Of(num)
		}
		unum, err := strconv.ParseUint(string(src), 10, 64)
		if err == nil {
			return Of(unum)
		}
		float, err := src.Float64()
		if err == nil {
			return Of(float)
		}
		return Unsupported(`json.Number`)
	default:
		return ValueOf(src)
	}
}
