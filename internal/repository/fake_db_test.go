package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	"skill-match/internal/database"
)

type fakeDB struct {
	rows    [][]any
	queries []string
	execs   []string
	args    [][]any
	err     error
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close() error               { return nil }
func (f *fakeDB) SQLDB() *sql.DB             { return nil }

func (f *fakeDB) Exec(_ context.Context, q string, args ...any) (int64, error) {
	f.execs = append(f.execs, q)
	f.args = append(f.args, args)
	return 1, f.err
}

func (f *fakeDB) Query(_ context.Context, q string, _ ...any) (database.Rows, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRows{rows: f.rows, i: -1}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, q string, _ ...any) database.Row {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	if len(f.rows) == 0 {
		return fakeRow{err: sql.ErrNoRows}
	}
	return fakeRow{values: f.rows[0]}
}

func (f *fakeDB) Begin(context.Context) (database.Tx, error) {
	return nil, errors.New("not supported")
}

type fakeRows struct {
	rows [][]any
	i    int
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Next() bool {
	r.i++
	return r.i < len(r.rows)
}
func (r *fakeRows) Scan(dest ...any) error {
	return assign(r.rows[r.i], dest)
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: got %d dest for %d values", len(dest), len(values))
	}
	for i, v := range values {
		dv := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(v))
	}
	return nil
}
