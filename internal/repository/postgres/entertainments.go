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

const entertainmentsTable = "travel.entertainment"

var entertainmentColumns = []string{"id", "name", "address", "price", "duration", "city_id"}

// EntertainmentRepository implements port.EntertainmentRepository using PostgreSQL.
type EntertainmentRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewEntertainmentRepository constructs a PostgreSQL-backed entertainment repository.
func NewEntertainmentRepository(exec pgExecutor) *EntertainmentRepository {
	return &EntertainmentRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts an entertainment and returns the generated identifier.
func (r *EntertainmentRepository) Add(ctx context.Context, ent domain.Entertainment) (int64, error) {
	stmt, args, err := r.builder.Insert(entertainmentsTable).
		Columns("name", "address", "price", "duration", "city_id").
		Values(ent.Name, ent.Address, ent.Price, ent.Duration, ent.CityID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert entertainment sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert entertainment: %w", err)
	}

	return id, nil
}

// GetByID retrieves an entertainment by identifier.
func (r *EntertainmentRepository) GetByID(ctx context.Context, id int64) (*domain.Entertainment, error) {
	stmt, args, err := r.builder.
		Select(entertainmentColumns...).
		From(entertainmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select entertainment sql: %w", err)
	}

	var ent domain.Entertainment
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&ent.ID, &ent.Name, &ent.Address, &ent.Price, &ent.Duration, &ent.CityID,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan entertainment: %w", err)
	}

	return &ent, nil
}

// GetList returns all entertainments ordered by identifier.
func (r *EntertainmentRepository) GetList(ctx context.Context) ([]domain.Entertainment, error) {
	stmt, args, err := r.builder.
		Select(entertainmentColumns...).
		From(entertainmentsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select entertainments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select entertainments: %w", err)
	}
	defer rows.Close()

	var list []domain.Entertainment
	for rows.Next() {
		var ent domain.Entertainment
		if err := rows.Scan(
			&ent.ID, &ent.Name, &ent.Address, &ent.Price, &ent.Duration, &ent.CityID,
		); err != nil {
			return nil, fmt.Errorf("scan entertainment: %w", err)
		}
		list = append(list, ent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entertainments: %w", err)
	}

	return list, nil
}

// Update rewrites the entertainment fields.
func (r *EntertainmentRepository) Update(ctx context.Context, ent domain.Entertainment) error {
	stmt, args, err := r.builder.Update(entertainmentsTable).
		Set("name", ent.Name).
		Set("address", ent.Address).
		Set("price", ent.Price).
		Set("duration", ent.Duration).
		Set("city_id", ent.CityID).
		Where(squirrel.Eq{"id": ent.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update entertainment sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update entertainment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes an entertainment row.
func (r *EntertainmentRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete(entertainmentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete entertainment sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete entertainment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.EntertainmentRepository = (*EntertainmentRepository)(nil)
