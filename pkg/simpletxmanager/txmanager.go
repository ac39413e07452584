package simpletxmanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
	"github.com/dpereira25/AgendaBarber/pkg/txmanager"
)

const (
	maxAttempts    = 3
	retryBaseDelay = 100 * time.Millisecond
)

// TransactionManager менеджер сериализуемых транзакций поверх *sql.DB
// Используется, когда метрики выключены и обёртка dbmetrics.DB не создается
type TransactionManager struct {
	db *sql.DB
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db *sql.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри сериализуемой транзакции с повторами
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !txmanager.IsRetryable(err) {
			return err
		}

		lastErr = err
		if attempt == maxAttempts {
			break
		}

		delay := retryBaseDelay << (attempt - 1)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%w: context cancelled during retry: %v", txmanager.ErrTxFailed, ctx.Err())
		}
	}

	return fmt.Errorf("%w: %v", txmanager.ErrTxFailed, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", txmanager.ErrTxFailed, err)
	}

	txCtx := dbmetrics.WithTransaction(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: commit: %v", txmanager.ErrTxFailed, err)
	}

	return nil
}
