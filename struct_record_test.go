package sqlstr

import (
	"database/sql"
	"testing"
)

// nolint:govet
type Embed struct {
	Id        *int64 `db:"embed_id"`
	Name      string `db:"embed_name"`
	private   string `db:"embed_private"`
	Untagged0 string ``
	Untagged1 string `db:"-"`
}

type Outer struct {
	Embed
	Id       int64          `db:"outer_id"`
	Name     sql.NullString `db:"outer_name"`
	OnlyJson string         `json:"onlyJson"`
}

func TestStruct_RangeFields(t *testing.T) {
	var names []string
	Struct{Outer{}}.RangeFields(func(name string, _ Value) {
		names = append(names, name)
	})
	eq(t, []string{`embed_id`, `embed_name`, `outer_id`, `outer_name`}, names)
}

func TestStruct_extract(t *testing.T) {
	val := Outer{
		Embed: Embed{
			Id:        ptr(int64(10)),
			Name:      `embed name`,
			private:   `private`,
			Untagged0: `untagged 0`,
			Untagged1: `untagged 1`,
		},
		Id:       20,
		Name:     sql.NullString{String: `outer name`, Valid: true},
		OnlyJson: `only json`,
	}

	expected := Dict{
		`embed_id`:   `10`,
		`embed_name`: `embed name`,
		`outer_id`:   `20`,
		`outer_name`: `outer name`,
	}

	eq(t, expected, Extract(Struct{val}))
	eq(t, expected, Extract(Struct{&val}))
}

func TestStruct_extract_absent(t *testing.T) {
	eq(
		t,
		Dict{`embed_name`: ``, `outer_id`: `0`},
		Extract(Struct{Outer{}}),
	)
}

func TestStruct_extract_bytes(t *testing.T) {
	type Blob struct {
		Id   int64  `db:"id"`
		Data []byte `db:"data"`
	}

	eq(t, Dict{`id`: `1`}, Extract(Struct{Blob{Id: 1}}))
	eq(t, Dict{`id`: `1`, `data`: ``}, Extract(Struct{Blob{Id: 1, Data: []byte{}}}))
	eq(t, Dict{`id`: `1`, `data`: `raw`}, Extract(Struct{Blob{Id: 1, Data: []byte(`raw`)}}))

	_, dropped := ExtractReport(Struct{Blob{Id: 1}})
	eq(t, []Dropped{{`data`, ``, DropAbsent}}, dropped)
}

func TestStruct_non_struct(t *testing.T) {
	eq(t, Dict{}, Extract(Struct{10}))
	eq(t, Dict{}, Extract(Struct{nil}))
	eq(t, Dict{}, Extract(Struct{[]Outer{{Id: 1}}}))
}

func TestCols(t *testing.T) {
	expected := []string{`embed_id`, `embed_name`, `outer_id`, `outer_name`}

	test := func(val interface{}) {
		t.Helper()
		cols, err := Cols(val)
		noErr(t, err)
		eq(t, expected, cols)
	}

	test(Outer{})
	test((*Outer)(nil))
	test([]Outer(nil))
	test((*[]Outer)(nil))
	test(&[]*Outer{})

	_, err := Cols(10)
	errIs(t, ErrInvalidInput, err)

	_, err = Cols(nil)
	errIs(t, ErrInvalidInput, err)

	cols, err := Cols(struct{}{})
	noErr(t, err)
	eq(t, []string(nil), cols)
}
