package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/core/port"
	"github.com/proGsa/travel-booking/internal/repository"
)

const citiesTable = "travel.city"

// CityRepository implements port.CityRepository using PostgreSQL.
type CityRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCityRepository constructs a PostgreSQL-backed city repository.
func NewCityRepository(exec pgExecutor) *CityRepository {
	return &CityRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts a city and returns the generated identifier.
func (r *CityRepository) Add(ctx context.Context, city domain.City) (int64, error) {
	stmt, args, err := r.builder.Insert(citiesTable).
		Columns("name").
		Values(city.Name).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert city sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert city: %w", err)
	}

	return id, nil
}

// GetByID retrieves a city by identifier.
func (r *CityRepository) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	stmt, args, err := r.builder.
		Select("id", "name").
		From(citiesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select city sql: %w", err)
	}

	var city domain.City
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&city.ID, &city.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan city: %w", err)
	}

	return &city, nil
}

// GetList returns all cities ordered by name.
func (r *CityRepository) GetList(ctx context.Context) ([]domain.City, error) {
	stmt, args, err := r.builder.
		Select("id", "name").
		From(citiesTable).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select cities sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select cities: %w", err)
	}
	defer rows.Close()

	var cities []domain.City
	for rows.Next() {
		var city domain.City
		if err := rows.Scan(&city.ID, &city.Name); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		cities = append(cities, city)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cities: %w", err)
	}

	return cities, nil
}

// Update rewrites a city name.
func (r *CityRepository) Update(ctx context.Context, city domain.City) error {
	stmt, args, err := r.builder.Update(citiesTable).
		Set("name", city.Name).
		Where(squirrel.Eq{"id": city.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update city sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update city: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a city row.
func (r *CityRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete(citiesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete city sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete city: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.CityRepository = (*CityRepository)(nil)
