package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/dpereira25/AgendaBarber/internal/domain"
	"github.com/dpereira25/AgendaBarber/pkg/dbmetrics"
	"github.com/dpereira25/AgendaBarber/pkg/psqlbuilder"
)

// Repository репозиторий справочника барберов и услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочника
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBarber получает активного барбера по ID
func (r *Repository) GetBarber(ctx context.Context, id int64) (*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "experience_years", "active").
		From("barbers").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBarber - build select query: %w", ErrBuildQuery, err)
	}

	var barber domain.Barber
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&barber.ID, &barber.Name, &barber.ExperienceYears, &barber.Active)
	if err == sql.ErrNoRows {
		return nil, ErrBarberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBarber - scan barber: %w", ErrScanRow, err)
	}

	return &barber, nil
}

// GetService получает активную услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "price", "duration_minutes", "active").
		From("services").
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %w", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&service.ID, &service.Name, &service.Description, &service.Price, &service.DurationMinutes, &service.Active)
	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %w", ErrScanRow, err)
	}

	return &service, nil
}

// ListBarbers получает список активных барберов
func (r *Repository) ListBarbers(ctx context.Context) ([]*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "experience_years", "active").
		From("barbers").
		Where(squirrel.Eq{"active": true}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBarbers - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBarbers - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	barbers := make([]*domain.Barber, 0)
	for rows.Next() {
		var barber domain.Barber
		if err := rows.Scan(&barber.ID, &barber.Name, &barber.ExperienceYears, &barber.Active); err != nil {
			return nil, fmt.Errorf("%w: ListBarbers - scan row: %w", ErrScanRow, err)
		}
		barbers = append(barbers, &barber)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListBarbers - rows error: %w", ErrScanRow, err)
	}

	return barbers, nil
}

// ListServices получает список активных услуг
func (r *Repository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "description", "price", "duration_minutes", "active").
		From("services").
		Where(squirrel.Eq{"active": true}).
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		err := rows.Scan(&service.ID, &service.Name, &service.Description, &service.Price, &service.DurationMinutes, &service.Active)
		if err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %w", ErrScanRow, err)
		}
		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %w", ErrScanRow, err)
	}

	return services, nil
}
