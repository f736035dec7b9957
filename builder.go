package sqlstr

import (
	"errors"
	"strconv"
	"strings"
)

/*
Fluent assembler of literal SQL text. Each method appends one clause, escaping
every identifier and value via `Escape`, and returns the builder for chaining.
`.Build` returns the finished statement terminated with ";".

	text, err := sqlstr.Table(`users`).
		Insert(User{Id: &id, Name: &name}).
		Returning(`*`).
		Build()

	// INSERT INTO users (id, name) VALUES ('1', 'John') RETURNING *;

Clauses are appended in call order; the builder doesn't validate the overall
statement structure. The first error is latched: subsequent clause methods do
nothing, and `.Build` returns that error. Methods that take records accept
anything supported by `RecordOf`. Pairs taken from records are emitted in
column name order.

Not safe for concurrent use.
*/
type Builder struct {
	// When true, record-driven clauses use `ExtractStrict` and fail on fields
	// of unsupported types, instead of skipping them.
	Strict bool

	table string
	text  []byte
	err   error
}

// Creates an empty builder without a table. Suitable for SELECT statements.
func New() *Builder { return &Builder{} }

// Creates an empty builder for the given table. Required for INSERT, UPDATE
// and DELETE.
func Table(name string) *Builder { return &Builder{table: Escape(name)} }

// Returns the latched error, if any.
func (self *Builder) Err() error { return self.err }

/*
Returns the statement: accumulated text without surrounding whitespace,
terminated with ";". Fails with the latched error, if any, or with
`ErrEmptyQuery` if nothing was appended.
*/
func (self *Builder) Build() (string, error) {
	if self.err != nil {
		return ``, self.err
	}
	if len(strings.TrimSpace(bytesToMutableString(self.text))) == 0 {
		return ``, ErrEmptyQuery.while(`building query`)
	}
	return strings.TrimSpace(string(self.text)) + `;`, nil
}

// Implement `fmt.Stringer`. Same as `.Build` but returns "" on error.
func (self *Builder) String() string {
	out, _ := self.Build()
	return out
}

// Appends "SELECT cols".
func (self *Builder) Select(cols ...string) *Builder {
	return self.list(`SELECT`, cols)
}

// Appends "SELECT DISTINCT cols".
func (self *Builder) SelectDistinct(cols ...string) *Builder {
	return self.list(`SELECT DISTINCT`, cols)
}

// Appends "SELECT cols" where the columns are derived from a struct type via
// `Cols`.
func (self *Builder) SelectCols(dest interface{}) *Builder {
	if self.err != nil {
		return self
	}
	cols, err := Cols(dest)
	if err != nil {
		return self.fail(err)
	}
	if len(cols) == 0 {
		return self.fail(ErrEmptyColumnSet.while(`building SELECT clause from struct`))
	}
	return self.Select(cols...)
}

// Appends "FROM table".
func (self *Builder) From(table string) *Builder {
	return self.push(`FROM `, Escape(table))
}

// Appends "JOIN table ON left op right".
func (self *Builder) Join(table, left, op, right string) *Builder {
	return self.join(`JOIN`, table, left, op, right)
}

// Appends "INNER JOIN table ON left op right".
func (self *Builder) InnerJoin(table, left, op, right string) *Builder {
	return self.join(`INNER JOIN`, table, left, op, right)
}

// Appends "LEFT JOIN table ON left op right".
func (self *Builder) LeftJoin(table, left, op, right string) *Builder {
	return self.join(`LEFT JOIN`, table, left, op, right)
}

// Appends "RIGHT JOIN table ON left op right".
func (self *Builder) RightJoin(table, left, op, right string) *Builder {
	return self.join(`RIGHT JOIN`, table, left, op, right)
}

// Appends "FULL JOIN table ON left op right".
func (self *Builder) FullJoin(table, left, op, right string) *Builder {
	return self.join(`FULL JOIN`, table, left, op, right)
}

// Appends "WHERE operand op 'value'".
func (self *Builder) Where(operand, op, value string) *Builder {
	return self.predicate(`WHERE`, operand, op, value)
}

// Appends "WHERE NOT operand op 'value'".
func (self *Builder) WhereNot(operand, op, value string) *Builder {
	return self.predicate(`WHERE NOT`, operand, op, value)
}

// Appends "AND operand op 'value'".
func (self *Builder) And(operand, op, value string) *Builder {
	return self.predicate(`AND`, operand, op, value)
}

// Appends "AND NOT operand op 'value'".
func (self *Builder) AndNot(operand, op, value string) *Builder {
	return self.predicate(`AND NOT`, operand, op, value)
}

// Appends "OR operand op 'value'".
func (self *Builder) Or(operand, op, value string) *Builder {
	return self.predicate(`OR`, operand, op, value)
}

// Appends "OR NOT operand op 'value'".
func (self *Builder) OrNot(operand, op, value string) *Builder {
	return self.predicate(`OR NOT`, operand, op, value)
}

/*
Appends "WHERE col = 'val' AND ..." for every renderable field of the record.
A record without renderable fields appends nothing and isn't an error, making
this usable for optional filters.
*/
func (self *Builder) WhereAnd(src interface{}) *Builder {
	dict, ok := self.record(src, `building WHERE clause from record`)
	if !ok || len(dict) == 0 {
		return self
	}

	var buf []byte
	for i, pair := range dict.Pairs() {
		if i > 0 {
			appendStr(&buf, ` AND `)
		}
		appendAssign(&buf, pair)
	}
	return self.push(`WHERE `, bytesToMutableString(buf))
}

/*
Appends "INSERT INTO table (cols) VALUES ('vals')" for every renderable field
of the record. Fails with `ErrEmptyColumnSet` if there are no such fields.
*/
func (self *Builder) Insert(src interface{}) *Builder {
	dict, ok := self.record(src, `building INSERT clause from record`)
	if !ok {
		return self
	}
	return self.insert(dict.Pairs())
}

// Same as `.Insert`, but takes explicit pairs, emitted in the given order.
func (self *Builder) InsertPairs(pairs ...Pair) *Builder {
	return self.insert(pairs)
}

/*
Appends "UPDATE table SET col = 'val', ..." for every renderable field of the
record. Values that render to "" or "null" are skipped as well. Fails with
`ErrEmptyColumnSet` if nothing is left.
*/
func (self *Builder) Update(src interface{}) *Builder {
	dict, ok := self.record(src, `building UPDATE clause from record`)
	if !ok {
		return self
	}

	pairs := dict.Pairs()
	out := pairs[:0]
	for _, pair := range pairs {
		if !(pair.Val == `` || pair.Val == `null`) {
			out = append(out, pair)
		}
	}
	return self.update(out)
}

// Same as `.Update`, but takes explicit pairs, emitted in the given order.
// Doesn't skip any values.
func (self *Builder) UpdatePairs(pairs ...Pair) *Builder {
	return self.update(pairs)
}

// Appends "SET a, b". Each assignment is escaped but otherwise used verbatim.
func (self *Builder) Set(assignments ...string) *Builder {
	return self.list(`SET`, assignments)
}

// Appends "DELETE FROM table".
func (self *Builder) Delete() *Builder {
	if !self.requireTable(`building DELETE clause`) {
		return self
	}
	return self.push(`DELETE FROM `, self.table)
}

// Appends "ORDER BY cols".
func (self *Builder) OrderBy(cols ...string) *Builder {
	return self.list(`ORDER BY`, cols)
}

// Appends "LIMIT n".
func (self *Builder) Limit(num uint) *Builder {
	return self.push(`LIMIT `, strconv.FormatUint(uint64(num), 10))
}

// Appends "OFFSET n".
func (self *Builder) Offset(num uint) *Builder {
	return self.push(`OFFSET `, strconv.FormatUint(uint64(num), 10))
}

// Appends "RETURNING cols".
func (self *Builder) Returning(cols ...string) *Builder {
	return self.list(`RETURNING`, cols)
}

/*
Appends an arbitrary SQL fragment cleaned up by `Sanitize`. Useful for clauses
this builder doesn't cover, such as "GROUP BY" or "ON CONFLICT DO NOTHING".
*/
func (self *Builder) Raw(fragment string) *Builder {
	if self.err != nil {
		return self
	}
	text, err := Sanitize(fragment)
	if err != nil {
		return self.fail(err)
	}
	return self.push(text)
}

func (self *Builder) insert(pairs []Pair) *Builder {
	if !self.requireTable(`building INSERT clause`) {
		return self
	}
	if len(pairs) == 0 {
		return self.fail(ErrEmptyColumnSet.while(`building INSERT clause`))
	}

	var cols, vals []byte
	for i, pair := range pairs {
		if i > 0 {
			appendStr(&cols, `, `)
			appendStr(&vals, `, `)
		}
		appendStr(&cols, Escape(pair.Col))
		appendQuoted(&vals, pair.Val)
	}

	return self.push(
		`INSERT INTO `, self.table,
		` (`, bytesToMutableString(cols), `) VALUES (`, bytesToMutableString(vals), `)`,
	)
}

func (self *Builder) update(pairs []Pair) *Builder {
	if !self.requireTable(`building UPDATE clause`) {
		return self
	}
	if len(pairs) == 0 {
		return self.fail(ErrEmptyColumnSet.while(`building UPDATE clause`))
	}

	var buf []byte
	for i, pair := range pairs {
		if i > 0 {
			appendStr(&buf, `, `)
		}
		appendAssign(&buf, pair)
	}
	return self.push(`UPDATE `, self.table, ` SET `, bytesToMutableString(buf))
}

func (self *Builder) join(kind, table, left, op, right string) *Builder {
	return self.push(kind, ` `, Escape(table), ` ON `, Escape(left), ` `, Escape(op), ` `, Escape(right))
}

func (self *Builder) predicate(prefix, operand, op, value string) *Builder {
	var buf []byte
	appendStr(&buf, Escape(operand))
	appendStr(&buf, ` `)
	appendStr(&buf, Escape(op))
	appendStr(&buf, ` `)
	appendQuoted(&buf, value)
	return self.push(prefix, ` `, bytesToMutableString(buf))
}

func (self *Builder) list(prefix string, cols []string) *Builder {
	return self.push(prefix, ` `, strings.Join(escapeAll(cols), `, `))
}

func (self *Builder) record(src interface{}, while string) (Dict, bool) {
	if self.err != nil {
		return nil, false
	}

	rec, err := RecordOf(src)
	if err != nil {
		self.fail(err)
		return nil, false
	}

	if !self.Strict {
		return Extract(rec), true
	}

	dict, err := ExtractStrict(rec)
	if err != nil {
		self.fail(Err{Code: ErrCodeUnsupportedType, While: while, Cause: errors.Unwrap(err)})
		return nil, false
	}
	return dict, true
}

func (self *Builder) requireTable(while string) bool {
	if self.err != nil {
		return false
	}
	if self.table == `` {
		self.fail(ErrInvalidInput.while(while).because(errNoTable))
		return false
	}
	return true
}

// Appends the given chunks followed by a space. Nop after an error.
func (self *Builder) push(chunks ...string) *Builder {
	if self.err != nil {
		return self
	}
	for _, chunk := range chunks {
		appendStr(&self.text, chunk)
	}
	appendStr(&self.text, ` `)
	return self
}

func (self *Builder) fail(err error) *Builder {
	if self.err == nil {
		self.err = err
	}
	return self
}
