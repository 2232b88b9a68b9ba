package simpletxmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Фейковый драйвер, у которого Commit возвращает заданную ошибку.
// Позволяет проверить обработку serialization failure без живой базы.

type commitFailDriver struct {
	commitErr error
	begins    int
}

func (d *commitFailDriver) Open(string) (driver.Conn, error) {
	return &commitFailConn{d: d}, nil
}

type commitFailConn struct {
	d *commitFailDriver
}

func (c *commitFailConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}

func (c *commitFailConn) Close() error { return nil }

func (c *commitFailConn) Begin() (driver.Tx, error) {
	c.d.begins++
	return commitFailTx{err: c.d.commitErr}, nil
}

func (c *commitFailConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	return c.Begin()
}

type commitFailTx struct {
	err error
}

func (t commitFailTx) Commit() error   { return t.err }
func (t commitFailTx) Rollback() error { return nil }

func openFakeDB(t *testing.T, name string, d driver.Driver) *sql.DB {
	t.Helper()
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDoSerializable_RetriesOnSerializationFailure(t *testing.T) {
	drv := &commitFailDriver{commitErr: &pq.Error{Code: "40001"}}
	db := openFakeDB(t, "simpletxmanager-serialization-failure", drv)

	m := NewTransactionManager(db)
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.Equal(t, maxSerializableRetries, drv.begins)
	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.ErrorIs(t, err, ErrCommitTx)

	// Ошибка Postgres должна оставаться в цепочке после всех обёрток
	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, serializationFailure, string(pqErr.Code))
}

func TestDoSerializable_NoRetryOnOtherCommitError(t *testing.T) {
	drv := &commitFailDriver{commitErr: errors.New("connection lost")}
	db := openFakeDB(t, "simpletxmanager-commit-failure", drv)

	m := NewTransactionManager(db)
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.Equal(t, 1, drv.begins)
	assert.ErrorIs(t, err, ErrCommitTx)
	assert.NotErrorIs(t, err, ErrSerializationFailure)
}

func TestDoSerializable_FnErrorPassedThrough(t *testing.T) {
	drv := &commitFailDriver{commitErr: nil}
	db := openFakeDB(t, "simpletxmanager-fn-error", drv)

	m := NewTransactionManager(db)
	fnErr := errors.New("business rule violated")
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return fnErr
	})

	assert.Equal(t, 1, drv.begins)
	assert.ErrorIs(t, err, fnErr)
}
