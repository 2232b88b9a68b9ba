package booking

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	"github.com/nowly-app/Nowly-BookingService/pkg/simpletxmanager"
)

// Фейковый драйвер, у которого любой exec завершается ошибкой Postgres.
// Проверяет, что ошибка драйвера переживает обёртки репозитория
// и доходит до retry-логики менеджера транзакций.

type execFailDriver struct {
	execErr error
	begins  int
}

func (d *execFailDriver) Open(string) (driver.Conn, error) {
	return &execFailConn{d: d}, nil
}

type execFailConn struct {
	d *execFailDriver
}

func (c *execFailConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare is not supported")
}

func (c *execFailConn) Close() error { return nil }

func (c *execFailConn) Begin() (driver.Tx, error) {
	c.d.begins++
	return execFailTx{}, nil
}

func (c *execFailConn) BeginTx(_ context.Context, _ driver.TxOptions) (driver.Tx, error) {
	return c.Begin()
}

func (c *execFailConn) ExecContext(_ context.Context, _ string, _ []driver.NamedValue) (driver.Result, error) {
	return nil, c.d.execErr
}

type execFailTx struct{}

func (execFailTx) Commit() error   { return nil }
func (execFailTx) Rollback() error { return nil }

func openFailingDB(t *testing.T, name string, d driver.Driver) *sql.DB {
	t.Helper()
	sql.Register(name, d)
	db, err := sql.Open(name, "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUpdateStatus_DriverErrorStaysInChain(t *testing.T) {
	drv := &execFailDriver{execErr: &pq.Error{Code: "40001"}}
	db := openFailingDB(t, "booking-exec-failure", drv)
	repo := NewRepository(db)

	err := repo.UpdateStatus(context.Background(), 1, domain.StatusConfirmed)

	assert.ErrorIs(t, err, ErrExecQuery)

	var pqErr *pq.Error
	require.ErrorAs(t, err, &pqErr)
	assert.Equal(t, "40001", string(pqErr.Code))
}

func TestUpdateStatus_SerializationFailureRetriedInTransaction(t *testing.T) {
	drv := &execFailDriver{execErr: &pq.Error{Code: "40001"}}
	db := openFailingDB(t, "booking-serialization-failure", drv)
	repo := NewRepository(db)
	txManager := simpletxmanager.NewTransactionManager(db)

	err := txManager.DoSerializable(context.Background(), func(txCtx context.Context) error {
		return repo.UpdateStatus(txCtx, 1, domain.StatusConfirmed)
	})

	assert.Equal(t, 3, drv.begins)
	assert.ErrorIs(t, err, simpletxmanager.ErrSerializationFailure)
}
