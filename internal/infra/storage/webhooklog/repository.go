package webhooklog

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
	"github.com/dpereira25/AgendaBarber/pkg/psqlbuilder"
)

// Repository репозиторий журнала входящих вебхуков
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала вебхуков
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает запись журнала в статусе received
func (r *Repository) Create(ctx context.Context, log *domain.WebhookLog) (*domain.WebhookLog, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("webhook_logs").
		Columns("topic", "resource_id", "raw_body", "source_ip", "status").
		Values(log.Topic, log.ResourceID, log.RawBody, log.SourceIP, string(log.Status)).
		Suffix("RETURNING id, received_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&log.ID, &log.ReceivedAt, &log.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return log, nil
}

// MarkStatus переводит запись журнала в новый статус
// Текст ошибки заполняется только для статуса failed
func (r *Repository) MarkStatus(ctx context.Context, id int64, status domain.WebhookStatus, errText string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var errValue interface{}
	if errText != "" {
		errValue = errText
	}

	query, args, err := psqlbuilder.Update("webhook_logs").
		Set("status", string(status)).
		Set("error", errValue).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkStatus - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkStatus - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkStatus - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLogNotFound
	}

	return nil
}

// CountRecentProcessed считает успешно обработанные уведомления
// по той же паре (topic, resource_id), полученные после since
// Используется для детекции дубликатов
func (r *Repository) CountRecentProcessed(ctx context.Context, topic, resourceID string, since time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("webhook_logs").
		Where(squirrel.Eq{"topic": topic}).
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"status": string(domain.WebhookStatusProcessed)}).
		Where(squirrel.GtOrEq{"received_at": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountRecentProcessed - build select query: %w", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountRecentProcessed - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// DeleteOlderThan удаляет записи журнала старше cutoff и возвращает их количество
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("webhook_logs").
		Where(squirrel.Lt{"received_at": cutoff}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteOlderThan - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
}
