package schedule

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
	"github.com/dpereira25/AgendaBarber/pkg/psqlbuilder"
	"github.com/dpereira25/AgendaBarber/pkg/types"
)

var ruleColumns = []string{
	"id",
	"barber_id",
	"weekday",
	"is_open",
	"start_time",
	"end_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий переопределений рабочего расписания барберов
// Отсутствие строки означает расписание по умолчанию для этого дня недели
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBarberAndWeekday получает правило для барбера на день недели (ISO 1..7)
func (r *Repository) GetByBarberAndWeekday(ctx context.Context, barberID int64, weekday int) (*domain.ScheduleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("schedule_rules").
		Where(squirrel.Eq{"barber_id": barberID}).
		Where(squirrel.Eq{"weekday": weekday}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarberAndWeekday - build select query: %w", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarberAndWeekday - scan rule: %w", ErrScanRow, err)
	}

	return rule, nil
}

// ListByBarber получает все правила барбера, отсортированные по дню недели
func (r *Repository) ListByBarber(ctx context.Context, barberID int64) ([]*domain.ScheduleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("schedule_rules").
		Where(squirrel.Eq{"barber_id": barberID}).
		OrderBy("weekday ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBarber - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBarber - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.ScheduleRule, 0)
	for rows.Next() {
		rule, err := scanRuleFields(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBarber - scan row: %w", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBarber - rows error: %w", ErrScanRow, err)
	}

	return rules, nil
}

// Upsert создает или обновляет правило для пары (barber_id, weekday)
func (r *Repository) Upsert(ctx context.Context, rule *domain.ScheduleRule) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedule_rules").
		Columns("barber_id", "weekday", "is_open", "start_time", "end_time").
		Values(rule.BarberID, rule.Weekday, rule.IsOpen, rule.StartTime.String(), rule.EndTime.String()).
		Suffix(`ON CONFLICT (barber_id, weekday) DO UPDATE
			SET is_open = EXCLUDED.is_open,
			    start_time = EXCLUDED.start_time,
			    end_time = EXCLUDED.end_time,
			    updated_at = NOW()`).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRuleFields(scanner rowScanner) (*domain.ScheduleRule, error) {
	var rule domain.ScheduleRule
	var start, end sql.NullString

	err := scanner.Scan(
		&rule.ID,
		&rule.BarberID,
		&rule.Weekday,
		&rule.IsOpen,
		&start,
		&end,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.StartTime = types.TimeString(start.String)
	rule.EndTime = types.TimeString(end.String)
	return &rule, nil
}

func scanRule(row *sql.Row) (*domain.ScheduleRule, error) {
	return scanRuleFields(row)
}
