package sqlstr

import (
	"encoding/json"
	"strings"
	"testing"

	gojson "github.com/goccy/go-json"
)

func TestMap_extract(t *testing.T) {
	rec := Map{
		`id`:     json.Number(`1`),
		`big`:    json.Number(`9007199254740993`),
		`huge`:   json.Number(`18446744073709551615`),
		`over`:   json.Number(`18446744073709551616`),
		`price`:  json.Number(`1.5`),
		`plain`:  float64(3),
		`name`:   `John`,
		`active`: true,
		`note`:   nil,
		`tags`:   []interface{}{`one`},
		`meta`:   map[string]interface{}{`one`: 1},
	}

	eq(
		t,
		Dict{
			`id`:     `1`,
			`big`:    `9007199254740993`,
			`huge`:   `18446744073709551615`,
			`over`:   `18446744073709552000`,
			`price`:  `1.5`,
			`plain`:  `3`,
			`name`:   `John`,
			`active`: `true`,
		},
		Extract(rec),
	)
}

func TestMap_report(t *testing.T) {
	_, dropped := ExtractReport(Map{`note`: nil})
	eq(t, []Dropped{{`note`, ``, DropAbsent}}, dropped)

	_, dropped = ExtractReport(Map{`tags`: []interface{}{}})
	eq(t, []Dropped{{`tags`, `[]interface {}`, DropUnsupported}}, dropped)
}

func TestMap_decoded(t *testing.T) {
	var rec Map
	dec := gojson.NewDecoder(strings.NewReader(`{"id": 12, "name": "O'Brien", "nick": null, "ratio": 0.75}`))
	dec.UseNumber()
	noErr(t, dec.Decode(&rec))

	eq(t, Dict{`id`: `12`, `name`: `O'Brien`, `ratio`: `0.75`}, Extract(rec))
}
