package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
)

type stubDB struct {
	DB
	tx       *stubTx
	beginErr error
}

func (d *stubDB) Begin(context.Context) (Tx, error) {
	if d.beginErr != nil {
		return nil, d.beginErr
	}
	return d.tx, nil
}

func (d *stubDB) SQLDB() *sql.DB { return nil }

type stubTx struct {
	Tx
	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *stubTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *stubTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

func TestWithTx(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name         string
		fnErr        error
		beginErr     error
		commitErr    error
		wantErr      error
		wantCommit   bool
		wantRollback bool
	}{
		{name: "commit", wantCommit: true},
		{name: "fn error rolls back", fnErr: boom, wantErr: boom, wantRollback: true},
		{name: "begin error", beginErr: boom, wantErr: boom},
		{name: "commit error", commitErr: boom, wantErr: boom, wantCommit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &stubTx{commitErr: tt.commitErr}
			db := &stubDB{tx: tx, beginErr: tt.beginErr}

			err := WithTx(context.Background(), db, func(Tx) error { return tt.fnErr })
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tx.committed != tt.wantCommit || tx.rolledBack != tt.wantRollback {
				t.Fatalf("committed=%v rolledBack=%v", tx.committed, tx.rolledBack)
			}
		})
	}
}

func TestWithTx_NilDB(t *testing.T) {
	if err := WithTx(context.Background(), nil, func(Tx) error { return nil }); !errors.Is(err, ErrNilDB) {
		t.Fatalf("expected ErrNilDB, got %v", err)
	}
}
