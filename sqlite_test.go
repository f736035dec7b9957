package sqlstr

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

type Person struct {
	Id     *int64  `db:"id"`
	Name   *string `db:"name"`
	Active bool    `db:"active"`
	Score  float64 `db:"score"`
}

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open(`sqlite`, `:memory:`)
	noErr(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ExecContext(context.Background(), `
		CREATE TABLE persons (
			id     INTEGER PRIMARY KEY,
			name   TEXT NOT NULL,
			active BOOLEAN NOT NULL,
			score  REAL NOT NULL
		)
	`)
	noErr(t, err)
	return db
}

func testExec(t *testing.T, db *sql.DB, bui *Builder) int64 {
	t.Helper()

	text, err := bui.Build()
	noErr(t, err)

	res, err := db.ExecContext(context.Background(), text)
	noErr(t, err)

	count, err := res.RowsAffected()
	noErr(t, err)
	return count
}

func TestSqlite_roundtrip(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	text, err := Table(`persons`).
		Insert(Person{Name: ptr(`O'Brien`), Active: true, Score: 1.5}).
		Returning(`id`).
		Build()
	noErr(t, err)

	var id int64
	noErr(t, db.QueryRowContext(ctx, text).Scan(&id))
	eq(t, int64(1), id)

	eq(t, int64(1), testExec(t, db, Table(`persons`).Insert(Person{Name: ptr(`John`), Score: 3})))

	eq(t, int64(1), testExec(t, db, Table(`persons`).
		Update(Fields{{`score`, Of(2.5)}}).
		Where(`id`, `=`, Of(id).String()),
	))

	text, err = New().
		Select(`id`, `name`, `active`, `score`).
		From(`persons`).
		WhereAnd(Person{Name: ptr(`O'Brien`), Active: true, Score: 2.5}).
		Build()
	noErr(t, err)

	var out Person
	noErr(t, db.QueryRowContext(ctx, text).Scan(&out.Id, &out.Name, &out.Active, &out.Score))
	eq(t, Person{Id: ptr(id), Name: ptr(`O'Brien`), Active: true, Score: 2.5}, out)

	eq(t, int64(1), testExec(t, db, Table(`persons`).Delete().Where(`name`, `=`, `John`)))

	var count int
	noErr(t, db.QueryRowContext(ctx, `SELECT count(*) FROM persons`).Scan(&count))
	eq(t, 1, count)
}

func TestSqlite_injection(t *testing.T) {
	ctx := context.Background()
	db := testDB(t)

	name := `x'); DROP TABLE persons; --`
	eq(t, int64(1), testExec(t, db, Table(`persons`).Insert(Person{Name: &name})))

	var stored string
	noErr(t, db.QueryRowContext(ctx, `SELECT name FROM persons`).Scan(&stored))
	eq(t, `x') DROP TABLE persons `, stored)
}
