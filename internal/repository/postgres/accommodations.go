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

const accommodationsTable = "travel.accommodations"

var accommodationColumns = []string{"id", "name", "type", "address", "price", "rating", "city_id"}

// AccommodationRepository implements port.AccommodationRepository using PostgreSQL.
type AccommodationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccommodationRepository constructs a PostgreSQL-backed accommodation repository.
func NewAccommodationRepository(exec pgExecutor) *AccommodationRepository {
	return &AccommodationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts an accommodation and returns the generated identifier.
func (r *AccommodationRepository) Add(ctx context.Context, acc domain.Accommodation) (int64, error) {
	stmt, args, err := r.builder.Insert(accommodationsTable).
		Columns("name", "type", "address", "price", "rating", "city_id").
		Values(acc.Name, acc.Type, acc.Address, acc.Price, acc.Rating, acc.CityID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert accommodation sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert accommodation: %w", err)
	}

	return id, nil
}

// GetByID retrieves an accommodation by identifier.
func (r *AccommodationRepository) GetByID(ctx context.Context, id int64) (*domain.Accommodation, error) {
	stmt, args, err := r.builder.
		Select(accommodationColumns...).
		From(accommodationsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select accommodation sql: %w", err)
	}

	var acc domain.Accommodation
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&acc.ID, &acc.Name, &acc.Type, &acc.Address, &acc.Price, &acc.Rating, &acc.CityID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan accommodation: %w", err)
	}

	return &acc, nil
}

// GetList returns all accommodations ordered by identifier.
func (r *AccommodationRepository) GetList(ctx context.Context) ([]domain.Accommodation, error) {
	stmt, args, err := r.builder.
		Select(accommodationColumns...).
		From(accommodationsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select accommodations sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select accommodations: %w", err)
	}
	defer rows.Close()

	var list []domain.Accommodation
	for rows.Next() {
		var acc domain.Accommodation
		if err := rows.Scan(
			&acc.ID, &acc.Name, &acc.Type, &acc.Address, &acc.Price, &acc.Rating, &acc.CityID,
		); err != nil {
			return nil, fmt.Errorf("scan accommodation: %w", err)
		}
		list = append(list, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accommodations: %w", err)
	}

	return list, nil
}

// Update rewrites the accommodation fields.
func (r *AccommodationRepository) Update(ctx context.Context, acc domain.Accommodation) error {
	stmt, args, err := r.builder.Update(accommodationsTable).
		Set("name", acc.Name).
		Set("type", acc.Type).
		Set("address", acc.Address).
		Set("price", acc.Price).
		Set("rating", acc.Rating).
		Set("city_id", acc.CityID).
		Where(squirrel.Eq{"id": acc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update accommodation sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update accommodation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an accommodation row.
func (r *AccommodationRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete(accommodationsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete accommodation sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete accommodation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.AccommodationRepository = (*AccommodationRepository)(nil)
