package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
)

const (
	// maxAttempts максимальное число попыток выполнить транзакцию
	maxAttempts = 3

	// retryBaseDelay базовая задержка перед повтором, удваивается на каждой попытке
	retryBaseDelay = 100 * time.Millisecond
)

// Ошибки кодов PostgreSQL, при которых транзакцию имеет смысл повторить:
// 40001 - serialization_failure (конфликт сериализуемых транзакций)
// 40P01 - deadlock_detected
// 23505 - unique_violation (гонка на уникальном индексе)
var retryableCodes = map[pq.ErrorCode]bool{
	"40001": true,
	"40P01": true,
	"23505": true,
}

// ErrTxFailed возвращается, когда транзакция не выполнилась после всех попыток
var ErrTxFailed = errors.New("txmanager: transaction failed")

// TxBeginner интерфейс для начала транзакций
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager менеджер сериализуемых транзакций с повторами
// Повторяет транзакцию при конфликтах сериализации и гонках на уникальных индексах
type TransactionManager struct {
	db TxBeginner
}

// NewTransactionManager создает новый менеджер транзакций
func NewTransactionManager(db TxBeginner) *TransactionManager {
	return &TransactionManager{db: db}
}

// DoSerializable выполняет fn внутри сериализуемой транзакции
// Транзакция передается через контекст (dbmetrics.WithTransaction),
// репозитории автоматически используют её через dbmetrics.GetExecutor.
// При конфликте сериализации повторяет до maxAttempts раз с экспоненциальным backoff.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := m.runOnce(ctx, fn)
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
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
			return fmt.Errorf("%w: context cancelled during retry: %v", ErrTxFailed, ctx.Err())
		}
	}

	return fmt.Errorf("%w: %v", ErrTxFailed, lastErr)
}

func (m *TransactionManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("%w: begin: %v", ErrTxFailed, err)
	}

	txCtx := dbmetrics.WithTransaction(ctx, tx)

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: commit: %v", ErrTxFailed, err)
	}

	return nil
}

// IsRetryable возвращает true, если ошибка вызвана конфликтом,
// который может разрешиться при повторе транзакции
func IsRetryable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return retryableCodes[pqErr.Code]
	}
	return false
}
