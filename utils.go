package sqlstr

import (
	"errors"
	"unsafe"
)

var errNoTable = errors.New(`table name is required; create the builder with Table`)

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile, for example when it's a buffer that keeps growing.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func appendStr(buf *[]byte, str string) {
	*buf = append(*buf, str...)
}

func appendEnclosed(buf *[]byte, prefix, infix, suffix string) {
	appendStr(buf, prefix)
	appendStr(buf, infix)
	appendStr(buf, suffix)
}

// Appends 'escaped value'.
func appendQuoted(buf *[]byte, val string) {
	appendEnclosed(buf, `'`, Escape(val), `'`)
}

// Appends col = 'escaped value'.
func appendAssign(buf *[]byte, pair Pair) {
	appendStr(buf, Escape(pair.Col))
	appendStr(buf, ` = `)
	appendQuoted(buf, pair.Val)
}
