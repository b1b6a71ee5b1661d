package sqlstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/clientops/hub/internal/core/ports"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clients SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL")).
		WithArgs(at, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET deleted_at = ? WHERE client_id = ? AND deleted_at IS NULL")).
		WithArgs(at, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	err := s.WithTx(context.Background(), func(tx ports.Store) error {
		if _, err := tx.Clients().SoftDelete(context.Background(), 7, at); err != nil {
			return err
		}
		n, err := tx.Invoices().SoftDeleteByClient(context.Background(), 7, at)
		require.EqualValues(t, 3, n)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackWhenStatementFails(t *testing.T) {
	s, mock := newMockStore(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dbErr := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clients SET deleted_at")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE invoices SET deleted_at")).
		WillReturnError(dbErr)
	mock.ExpectRollback()

	err := s.WithTx(context.Background(), func(tx ports.Store) error {
		if _, err := tx.Clients().SoftDelete(context.Background(), 7, at); err != nil {
			return err
		}
		_, err := tx.Invoices().SoftDeleteByClient(context.Background(), 7, at)
		return err
	})
	require.ErrorIs(t, err, dbErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginFailure(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	called := false
	err := s.WithTx(context.Background(), func(ports.Store) error {
		called = true
		return nil
	})
	require.Error(t, err)
	require.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}
