package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
	"github.com/dpereira25/AgendaBarber/pkg/psqlbuilder"
)

var transactionColumns = []string{
	"id",
	"external_payment_id",
	"external_preference_id",
	"hold_id",
	"booking_id",
	"amount",
	"currency",
	"status",
	"status_detail",
	"external_reference",
	"created_at",
	"updated_at",
}

// Repository репозиторий платежных транзакций
// Одна строка на платеж провайдера: external_payment_id уникален,
// повторные уведомления обновляют существующую строку
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория платежей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую платежную транзакцию
func (r *Repository) Create(ctx context.Context, tx *domain.PaymentTransaction) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("payment_transactions").
		Columns(
			"external_payment_id",
			"external_preference_id",
			"hold_id",
			"booking_id",
			"amount",
			"currency",
			"status",
			"status_detail",
			"external_reference",
		).
		Values(
			tx.ExternalPaymentID,
			tx.ExternalPreferenceID,
			tx.HoldID,
			tx.BookingID,
			tx.Amount,
			tx.Currency,
			string(tx.Status),
			tx.StatusDetail,
			tx.ExternalReference,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return tx, nil
}

// GetByExternalPaymentID получает транзакцию по ID платежа провайдера
// Внутри транзакции строка блокируется FOR UPDATE:
// параллельные уведомления об одном платеже сериализуются здесь
func (r *Repository) GetByExternalPaymentID(ctx context.Context, externalPaymentID string) (*domain.PaymentTransaction, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(transactionColumns...).
		From("payment_transactions").
		Where(squirrel.Eq{"external_payment_id": externalPaymentID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalPaymentID - build select query: %w", ErrBuildQuery, err)
	}

	tx, err := scanTransaction(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByExternalPaymentID - scan transaction: %w", ErrScanRow, err)
	}

	return tx, nil
}

// UpdateStatus обновляет статус и детали транзакции
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.PaymentStatus, statusDetail string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var detailValue interface{}
	if statusDetail != "" {
		detailValue = statusDetail
	}

	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("status", string(status)).
		Set("status_detail", detailValue).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "UpdateStatus")
}

// LinkBooking привязывает транзакцию к созданной записи
// Ссылка на удержание обнуляется: удержание после конвертации удаляется
func (r *Repository) LinkBooking(ctx context.Context, id int64, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("booking_id", bookingID).
		Set("hold_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: LinkBooking - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "LinkBooking")
}

// DetachHold обнуляет ссылку на удержание (платеж отклонен, слот освобожден)
func (r *Repository) DetachHold(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("payment_transactions").
		Set("hold_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DetachHold - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "DetachHold")
}

func (r *Repository) execExpectingRow(ctx context.Context, executor DBExecutor, query string, args []interface{}, method string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute: %w", ErrExecQuery, method, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, method, err)
	}

	if rowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return nil
}

func scanTransaction(row *sql.Row) (*domain.PaymentTransaction, error) {
	var tx domain.PaymentTransaction
	var status string

	err := row.Scan(
		&tx.ID,
		&tx.ExternalPaymentID,
		&tx.ExternalPreferenceID,
		&tx.HoldID,
		&tx.BookingID,
		&tx.Amount,
		&tx.Currency,
		&status,
		&tx.StatusDetail,
		&tx.ExternalReference,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Status = domain.PaymentStatus(status)
	return &tx, nil
}
