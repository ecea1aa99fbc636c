package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	errFn := errors.New("save failed")
	errBegin := errors.New("connection reset")
	errCommit := errors.New("serialization failure")
	errRollback := errors.New("rollback failed")

	tests := []struct {
		name    string
		expect  func(mock sqlmock.Sqlmock)
		fn      TxFn
		wantErr []error
		wantMsg string
	}{
		{
			name: "commits when fn succeeds",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec("DELETE FROM sessions").WillReturnResult(sqlmock.NewResult(0, 2))
				mock.ExpectCommit()
			},
			fn: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = $1", "s1")
				return err
			},
		},
		{
			name: "rolls back and returns the fn error unchanged",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			fn:      func(context.Context, *sql.Tx) error { return errFn },
			wantErr: []error{errFn},
		},
		{
			name: "begin failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errBegin)
			},
			fn:      func(context.Context, *sql.Tx) error { return nil },
			wantErr: []error{ErrTransactionFailed, errBegin},
			wantMsg: "failed to begin transaction",
		},
		{
			name: "commit failure",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errCommit)
			},
			fn:      func(context.Context, *sql.Tx) error { return nil },
			wantErr: []error{ErrTransactionFailed, errCommit},
			wantMsg: "failed to commit transaction",
		},
		{
			name: "rollback failure keeps the original error",
			expect: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectRollback().WillReturnError(errRollback)
			},
			fn:      func(context.Context, *sql.Tx) error { return errFn },
			wantErr: []error{errFn},
			wantMsg: "rollback failed (original error: save failed)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			tc.expect(mock)

			err = RunInTransaction(context.Background(), db, tc.fn)

			if len(tc.wantErr) == 0 {
				assert.NoError(t, err)
			}
			for _, want := range tc.wantErr {
				assert.ErrorIs(t, err, want)
			}
			if tc.wantMsg != "" {
				assert.ErrorContains(t, err, tc.wantMsg)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransactionRollsBackOnPanic(t *testing.T) {
	for _, rollbackErr := range []error{nil, errors.New("rollback failed")} {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(rollbackErr)

		assert.PanicsWithValue(t, "cascade broke", func() {
			_ = RunInTransaction(context.Background(), db, func(context.Context, *sql.Tx) error {
				panic("cascade broke")
			})
		})
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	}
}

func TestWithinTransaction_OpensTransactionOnPool(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE training_plans").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithinTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "UPDATE training_plans SET name = $1", "x")
		return err
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_ReusesBoundTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	// exactly one begin and one rollback although WithinTransaction is nested
	mock.ExpectBegin()
	mock.ExpectRollback()

	outerErr := errors.New("outer failed")
	err = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		var inner *sql.Tx
		require.NoError(t, WithinTransaction(ctx, tx, func(ctx context.Context, got *sql.Tx) error {
			inner = got
			return nil
		}))
		assert.Same(t, tx, inner)
		return outerErr
	})

	assert.ErrorIs(t, err, outerErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTransaction_InnerErrorDoesNotFinishOuterTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectRollback()

	innerErr := errors.New("inner failed")
	err = RunInTransaction(context.Background(), db, func(ctx context.Context, tx *sql.Tx) error {
		return WithinTransaction(ctx, tx, func(ctx context.Context, tx *sql.Tx) error {
			return innerErr
		})
	})

	assert.ErrorIs(t, err, innerErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type noTxConn struct{ DBTX }

func TestWithinTransaction_RejectsConnectionWithoutTransactions(t *testing.T) {
	err := WithinTransaction(context.Background(), noTxConn{}, func(ctx context.Context, tx *sql.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrTransactionFailed)
}
