package hold

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
	"github.com/dpereira25/AgendaBarber/pkg/psqlbuilder"
)

var holdColumns = []string{
	"id",
	"session_key",
	"client_id",
	"barber_id",
	"service_id",
	"start_time",
	"end_time",
	"client_email",
	"client_name",
	"preference_id",
	"created_at",
	"expires_at",
}

// Repository репозиторий временных удержаний слотов
// Истекшие удержания исключаются из всех выборок по условию expires_at,
// физическое удаление выполняет DeleteExpired
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория удержаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое удержание
// Уникальный индекс на (barber_id, start_time) - страховка от гонки;
// нарушение конвертируется выше в "слот недоступен"
func (r *Repository) Create(ctx context.Context, hold *domain.TemporaryHold) (*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("temporary_holds").
		Columns(
			"id",
			"session_key",
			"client_id",
			"barber_id",
			"service_id",
			"start_time",
			"end_time",
			"client_email",
			"client_name",
			"expires_at",
		).
		Values(
			hold.ID,
			hold.SessionKey,
			hold.ClientID,
			hold.BarberID,
			hold.ServiceID,
			hold.StartTime,
			hold.EndTime,
			hold.ClientEmail,
			hold.ClientName,
			hold.ExpiresAt,
		).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	hold.CreatedAt = createdAt.Time

	return hold, nil
}

// GetByID получает удержание по ID, только если оно не истекло на момент now
func (r *Repository) GetByID(ctx context.Context, id string, now time.Time) (*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holdColumns...).
		From("temporary_holds").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	hold, err := scanHoldRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan hold: %w", ErrScanRow, err)
	}

	return hold, nil
}

// GetByIDAny получает удержание по ID независимо от истечения
// Используется бриджем платежей: истекшее, но еще не удаленное удержание
// все еще может быть сконвертировано в запись при подтвержденной оплате
func (r *Repository) GetByIDAny(ctx context.Context, id string) (*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holdColumns...).
		From("temporary_holds").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDAny - build select query: %w", ErrBuildQuery, err)
	}

	hold, err := scanHoldRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDAny - scan hold: %w", ErrScanRow, err)
	}

	return hold, nil
}

// GetActiveBySession получает активные удержания сессии
func (r *Repository) GetActiveBySession(ctx context.Context, sessionKey string, now time.Time) ([]*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holdColumns...).
		From("temporary_holds").
		Where(squirrel.Eq{"session_key": sessionKey}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		OrderBy("created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySession - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySession - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// GetActiveBySessionSlot ищет активное удержание той же сессии на тот же слот
// Используется для идемпотентной повторной отправки формы
func (r *Repository) GetActiveBySessionSlot(ctx context.Context, sessionKey string, barberID int64, start time.Time, now time.Time) (*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(holdColumns...).
		From("temporary_holds").
		Where(squirrel.Eq{"session_key": sessionKey}).
		Where(squirrel.Eq{"barber_id": barberID}).
		Where(squirrel.Eq{"start_time": start}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySessionSlot - build select query: %w", ErrBuildQuery, err)
	}

	hold, err := scanHoldRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveBySessionSlot - scan hold: %w", ErrScanRow, err)
	}

	return hold, nil
}

// GetActiveByBarberAndRange получает активные удержания барбера,
// пересекающиеся с интервалом [start, end), кроме excludeID (если задан)
// Внутри транзакции строки блокируются FOR UPDATE
func (r *Repository) GetActiveByBarberAndRange(ctx context.Context, barberID int64, start, end time.Time, excludeID string, now time.Time) ([]*domain.TemporaryHold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(holdColumns...).
		From("temporary_holds").
		Where(squirrel.Eq{"barber_id": barberID}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		OrderBy("start_time ASC")

	if excludeID != "" {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"id": excludeID})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBarberAndRange - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByBarberAndRange - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// Refresh обновляет контактные данные и срок жизни существующего удержания
func (r *Repository) Refresh(ctx context.Context, id string, clientEmail, clientName string, expiresAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("temporary_holds").
		Set("client_email", clientEmail).
		Set("client_name", clientName).
		Set("expires_at", expiresAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Refresh - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Refresh")
}

// Extend продлевает срок жизни удержания
// Проверка "не истекло" выполняется по expires_at в условии WHERE
func (r *Repository) Extend(ctx context.Context, id string, expiresAt time.Time, now time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("temporary_holds").
		Set("expires_at", expiresAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Extend - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Extend")
}

// AttachPreference привязывает checkout-преференцию платежного провайдера
func (r *Repository) AttachPreference(ctx context.Context, id string, preferenceID string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("temporary_holds").
		Set("preference_id", preferenceID).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachPreference - build update query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "AttachPreference")
}

// Delete удаляет удержание (конвертация в запись или отмена платежа)
func (r *Repository) Delete(ctx context.Context, id string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("temporary_holds").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	return r.execExpectingRow(ctx, executor, query, args, "Delete")
}

// DeleteExpired удаляет все истекшие удержания и возвращает их количество
// Идемпотентна: повторный вызов вернет 0
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("temporary_holds").
		Where(squirrel.Lt{"expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpired - get rows affected: %w", ErrExecQuery, err)
	}

	return rowsAffected, nil
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
		return ErrHoldNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHoldFields(scanner rowScanner) (*domain.TemporaryHold, error) {
	var hold domain.TemporaryHold
	var createdAt sql.NullTime

	err := scanner.Scan(
		&hold.ID,
		&hold.SessionKey,
		&hold.ClientID,
		&hold.BarberID,
		&hold.ServiceID,
		&hold.StartTime,
		&hold.EndTime,
		&hold.ClientEmail,
		&hold.ClientName,
		&hold.PreferenceID,
		&createdAt,
		&hold.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}

	hold.CreatedAt = createdAt.Time
	return &hold, nil
}

func scanHoldRow(row *sql.Row) (*domain.TemporaryHold, error) {
	return scanHoldFields(row)
}

func scanHolds(rows *sql.Rows) ([]*domain.TemporaryHold, error) {
	holds := make([]*domain.TemporaryHold, 0)

	for rows.Next() {
		hold, err := scanHoldFields(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHolds - scan row: %w", ErrScanRow, err)
		}
		holds = append(holds, hold)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolds - rows error: %w", ErrScanRow, err)
	}

	return holds, nil
}
