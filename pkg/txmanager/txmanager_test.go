package txmanager

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowly-app/Nowly-BookingService/pkg/dbmetrics"
	"github.com/nowly-app/Nowly-BookingService/pkg/metrics"
)

// Фейковый драйвер с управляемой ошибкой Commit, см. аналогичный тест
// в simpletxmanager. Здесь проверяется путь через обёртку dbmetrics.

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

// Метрики регистрируются в дефолтном registry, поэтому создаются один раз
var testMetrics = metrics.New("txmanager-test")

func newTestManager(t *testing.T, name string, d driver.Driver) (*TransactionManager, *sql.DB) {
	t.Helper()
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTransactionManager(dbmetrics.Wrap(db, testMetrics)), db
}

func TestDoSerializable_RetriesOnSerializationFailure(t *testing.T) {
	drv := &commitFailDriver{commitErr: &pq.Error{Code: "40001"}}
	m, _ := newTestManager(t, "txmanager-serialization-failure", drv)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.Equal(t, maxSerializableRetries, drv.begins)
	assert.ErrorIs(t, err, ErrSerializationFailure)
	assert.ErrorIs(t, err, ErrCommitTx)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, serializationFailure, string(pqErr.Code))
}

func TestDoSerializable_NoRetryOnOtherCommitError(t *testing.T) {
	drv := &commitFailDriver{commitErr: errors.New("connection lost")}
	m, _ := newTestManager(t, "txmanager-commit-failure", drv)

	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.Equal(t, 1, drv.begins)
	assert.ErrorIs(t, err, ErrCommitTx)
	assert.NotErrorIs(t, err, ErrSerializationFailure)
}
