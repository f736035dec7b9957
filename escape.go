package sqlstr

import (
	"fmt"
	"strings"

	"github.com/mitranim/sqlp"
)

// Ad-hoc escaping applied to every identifier and literal passed to `Builder`.
// Doubles single quotes, then removes statement terminators and comment
// markers, in this order:
//
//	'   -> ''
//	;   -> (removed)
//	--  -> (removed)
//	/*  -> (removed)
//	*/  -> (removed)
//
// This reduces, but doesn't eliminate, the risk of SQL injection. Each step
// runs over the output of the previous one. Removals repeat until nothing
// changes, so a marker can't be reassembled from the pieces of another, as in
// "-/**/-".
func Escape(src string) string {
	src = strings.ReplaceAll(src, `'`, `''`)
	for {
		out := stripMarkers(src)
		if out == src {
			return out
		}
		src = out
	}
}

func stripMarkers(src string) string {
	src = strings.ReplaceAll(src, `;`, ``)
	src = strings.ReplaceAll(src, `--`, ``)
	src = strings.ReplaceAll(src, `/*`, ``)
	src = strings.ReplaceAll(src, `*/`, ``)
	return src
}

func escapeAll(src []string) []string {
	out := make([]string, len(src))
	for i, val := range src {
		out[i] = Escape(val)
	}
	return out
}

/*
Cleans up a raw SQL fragment for `Builder.Raw`. Unlike `Escape`, this parses
the fragment, so quoted strings and identifiers are left intact:

  - Comments are removed.
  - Semicolons outside quotes are removed.
  - Ordinal and named parameters such as "$1" or ":name" cause
    `ErrUnexpectedParameter`, since this package never binds arguments.
  - Malformed input, such as an unterminated quote, causes `ErrInvalidInput`.
*/
func Sanitize(src string) (_ string, err error) {
	defer recInvalid(&err, `sanitizing raw fragment`)

	tokenizer := sqlp.Tokenizer{Source: src}
	var buf []byte

	for {
		node := tokenizer.Next()
		if node == nil {
			break
		}

		switch node := node.(type) {
		case sqlp.NodeCommentLine, sqlp.NodeCommentBlock:
			continue

		case sqlp.NodeOrdinalParam, sqlp.NodeNamedParam:
			return ``, ErrUnexpectedParameter.while(`sanitizing raw fragment`).because(
				fmt.Errorf(`parameters are not supported, got %q`, nodeString(node)),
			)

		case sqlp.NodeText:
			buf = append(buf, strings.ReplaceAll(string(node), `;`, ``)...)

		default:
			node.Append(&buf)
		}
	}

	return strings.TrimSpace(string(buf)), nil
}

func nodeString(node sqlp.Node) string {
	var buf []byte
	node.Append(&buf)
	return string(buf)
}

// Must be deferred. Converts a panic from the tokenizer into an error.
func recInvalid(ptr *error, while string) {
	val := recover()
	if val == nil {
		return
	}

	err, _ := val.(error)
	if err != nil {
		*ptr = ErrInvalidInput.while(while).because(err)
		return
	}

	panic(val)
}
