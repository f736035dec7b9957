/*
SQL String: fluent assembler of literal SQL statements, with tools for driving
INSERT, UPDATE and WHERE clauses directly from structs and other records.

This is NOT a parametrized query builder. Values are rendered as text, escaped
ad hoc, and embedded into the output as quoted literals. Use it for tooling,
scripts, fixtures and similar cases where a finished SQL string is the goal.

# Key Features

• Chainable clause methods: `Select`, `From`, `Join`, `Where`, `And`, `Or`,
`Insert`, `Update`, `Delete`, `OrderBy`, `Limit`, `Offset`, `Returning`.

• Extraction of records into column/value dicts. See `Extract`.

• Records are structs with "db" tags, maps from JSON or YAML decoders, or
anything implementing `Record`.

• A closed set of supported field types: integers, floats, booleans, strings,
byte slices, and optional forms of all of these (pointers, `sql.Null*`).
Absent optionals are omitted from the output rather than rendered as null.

# Caveats

Fields of unsupported types are silently skipped by default. This keeps
extraction infallible, but may hide mistakes: a field whose type drifts out of
the supported set disappears from the generated SQL. Use `ExtractStrict`, or
set `Builder.Strict`, to turn this into an error.

# Examples

See `Builder` and `Extract`.
*/
package sqlstr
