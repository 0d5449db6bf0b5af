package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
)

// fakeTx транзакция, Commit которой возвращает заранее заданную ошибку
type fakeTx struct {
	dbmetrics.TxExecutor
	commitErr  error
	rolledBack bool
}

func (t *fakeTx) Commit() error   { return t.commitErr }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

// fakeBeginner выдает транзакции по очереди: i-я транзакция получает commitErrs[i]
type fakeBeginner struct {
	commitErrs []error
	begins     int
	opts       []*sql.TxOptions
	txs        []*fakeTx
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	tx := &fakeTx{}
	if b.begins < len(b.commitErrs) {
		tx.commitErr = b.commitErrs[b.begins]
	}
	b.begins++
	b.opts = append(b.opts, opts)
	b.txs = append(b.txs, tx)
	return tx, nil
}

func serializationFailure() error {
	return &pq.Error{Code: "40001", Message: "could not serialize access due to read/write dependencies"}
}

func TestDoSerializable_RetriesOnceAfterSerializationFailure(t *testing.T) {
	db := &fakeBeginner{commitErrs: []error{serializationFailure(), nil}}
	calls := 0

	err := NewTransactionManager(db).DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, db.begins)
	assert.Equal(t, 2, calls)
	for _, opts := range db.opts {
		assert.Equal(t, sql.LevelSerializable, opts.Isolation)
	}
}

func TestDoSerializable_PersistentFailureIsSerializationError(t *testing.T) {
	db := &fakeBeginner{commitErrs: []error{serializationFailure(), serializationFailure(), serializationFailure()}}

	err := NewTransactionManager(db).DoSerializable(context.Background(), func(context.Context) error {
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSerialization)
	assert.True(t, IsRetryable(err), "исходная ошибка Postgres остается в цепочке")
	assert.Equal(t, 2, db.begins)
}

func TestDoSerializable_DomainErrorIsNotRetried(t *testing.T) {
	db := &fakeBeginner{}
	errDomain := errors.New("slot is taken")
	calls := 0

	err := NewTransactionManager(db).DoSerializable(context.Background(), func(context.Context) error {
		calls++
		return errDomain
	})

	assert.ErrorIs(t, err, errDomain)
	assert.NotErrorIs(t, err, ErrSerialization)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, db.begins)
	assert.True(t, db.txs[0].rolledBack)
}

func TestDo_RetriesDeadlockAndLockTimeout(t *testing.T) {
	tests := []struct {
		name string
		code pq.ErrorCode
	}{
		{"deadlock detected", "40P01"},
		{"lock not available", "55P03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeBeginner{commitErrs: []error{&pq.Error{Code: tt.code}, nil}}

			err := NewTransactionManager(db).Do(context.Background(), func(context.Context) error { return nil })

			require.NoError(t, err)
			assert.Equal(t, 2, db.begins)
			assert.Equal(t, sql.LevelReadCommitted, db.opts[0].Isolation)
		})
	}
}

func TestDo_PersistentDeadlockIsSerializationError(t *testing.T) {
	db := &fakeBeginner{commitErrs: []error{&pq.Error{Code: "40P01"}, &pq.Error{Code: "40P01"}}}

	err := NewTransactionManager(db).Do(context.Background(), func(context.Context) error { return nil })

	assert.ErrorIs(t, err, ErrSerialization)
	assert.Equal(t, 2, db.begins)
}

func TestDoSerializable_NestedCallReusesOuterTransaction(t *testing.T) {
	db := &fakeBeginner{}
	manager := NewTransactionManager(db)
	innerCalls := 0

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		return manager.Do(ctx, func(context.Context) error {
			innerCalls++
			return serializationFailure()
		})
	})

	// Повторяет только внешний уровень
	assert.ErrorIs(t, err, ErrSerialization)
	assert.Equal(t, 2, db.begins)
	assert.Equal(t, 2, innerCalls)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(serializationFailure()))
	assert.True(t, IsRetryable(errors.Join(errors.New("wrapped"), &pq.Error{Code: "40P01"})))
	assert.False(t, IsRetryable(&pq.Error{Code: "23P01"}))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}
