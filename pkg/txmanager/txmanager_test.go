package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
)

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) Commit() error {
	t.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}

type fakeDB struct {
	tx     *fakeTx
	begins int
}

func (d *fakeDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	d.begins++
	return d.tx, nil
}

// Ошибка уникального индекса так, как её отдают репозитории:
// sentinel пакета + драйверная ошибка в одной цепочке
func wrappedUniqueViolation() error {
	sentinel := errors.New("storage: exec query failed")
	return fmt.Errorf("%w: Create - execute insert: %w", sentinel, &pq.Error{Code: "23505"})
}

func TestDoSerializable_RetriesWrappedUniqueViolation(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	manager := NewTransactionManager(db)

	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return wrappedUniqueViolation()
	})

	require.Error(t, err)
	assert.Equal(t, maxAttempts, attempts)
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.Equal(t, maxAttempts, db.tx.rollbacks)
	assert.Equal(t, 0, db.tx.commits)
}

func TestDoSerializable_SerializationFailureExhaustsToTxFailed(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	manager := NewTransactionManager(db)

	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return &pq.Error{Code: "40001"}
	})

	require.Error(t, err)
	assert.Equal(t, maxAttempts, attempts)
	assert.ErrorIs(t, err, ErrTxFailed)
}

func TestDoSerializable_SucceedsAfterRetry(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	manager := NewTransactionManager(db)

	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return wrappedUniqueViolation()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, 1, db.tx.commits)
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestDoSerializable_NonRetryableReturnsImmediately(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	manager := NewTransactionManager(db)

	bizErr := errors.New("slot taken")
	attempts := 0
	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		return bizErr
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, bizErr)
	assert.NotErrorIs(t, err, ErrTxFailed)
}

func TestDoSerializable_PutsTransactionInContext(t *testing.T) {
	db := &fakeDB{tx: &fakeTx{}}
	manager := NewTransactionManager(db)

	err := manager.DoSerializable(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.begins)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"serialization failure", &pq.Error{Code: "40001"}, true},
		{"deadlock detected", &pq.Error{Code: "40P01"}, true},
		{"unique violation", &pq.Error{Code: "23505"}, true},
		{"foreign key violation", &pq.Error{Code: "23503"}, false},
		{"wrapped unique violation", wrappedUniqueViolation(), true},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
