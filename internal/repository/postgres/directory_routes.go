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

const directoryRoutesTable = "travel.directory_route"

var directoryRouteColumns = []string{"id", "type_transport", "city_from_id", "city_to_id", "distance", "price"}

// DirectoryRouteRepository implements port.DirectoryRouteRepository using PostgreSQL.
type DirectoryRouteRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDirectoryRouteRepository constructs a PostgreSQL-backed directory route repository.
func NewDirectoryRouteRepository(exec pgExecutor) *DirectoryRouteRepository {
	return &DirectoryRouteRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts a directory route and returns the generated identifier.
func (r *DirectoryRouteRepository) Add(ctx context.Context, route domain.DirectoryRoute) (int64, error) {
	stmt, args, err := r.builder.Insert(directoryRoutesTable).
		Columns("type_transport", "city_from_id", "city_to_id", "distance", "price").
		Values(route.TypeTransport, route.CityFromID, route.CityToID, route.Distance, route.Price).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert directory route sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert directory route: %w", err)
	}

	return id, nil
}

// GetByID retrieves a directory route by identifier.
func (r *DirectoryRouteRepository) GetByID(ctx context.Context, id int64) (*domain.DirectoryRoute, error) {
	stmt, args, err := r.builder.
		Select(directoryRouteColumns...).
		From(directoryRoutesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select directory route sql: %w", err)
	}

	var route domain.DirectoryRoute
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&route.ID, &route.TypeTransport, &route.CityFromID, &route.CityToID, &route.Distance, &route.Price,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan directory route: %w", err)
	}

	return &route, nil
}

// GetList returns all directory routes ordered by identifier.
func (r *DirectoryRouteRepository) GetList(ctx context.Context) ([]domain.DirectoryRoute, error) {
	stmt, args, err := r.builder.
		Select(directoryRouteColumns...).
		From(directoryRoutesTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select directory routes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select directory routes: %w", err)
	}
	defer rows.Close()

	var list []domain.DirectoryRoute
	for rows.Next() {
		var route domain.DirectoryRoute
		if err := rows.Scan(
			&route.ID, &route.TypeTransport, &route.CityFromID, &route.CityToID, &route.Distance, &route.Price,
		); err != nil {
			return nil, fmt.Errorf("scan directory route: %w", err)
		}
		list = append(list, route)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate directory routes: %w", err)
	}

	return list, nil
}

// Update rewrites the directory route fields.
func (r *DirectoryRouteRepository) Update(ctx context.Context, route domain.DirectoryRoute) error {
	stmt, args, err := r.builder.Update(directoryRoutesTable).
		Set("type_transport", route.TypeTransport).
		Set("city_from_id", route.CityFromID).
		Set("city_to_id", route.CityToID).
		Set("distance", route.Distance).
		Set("price", route.Price).
		Where(squirrel.Eq{"id": route.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update directory route sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update directory route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a directory route row.
func (r *DirectoryRouteRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete(directoryRoutesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete directory route sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete directory route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.DirectoryRouteRepository = (*DirectoryRouteRepository)(nil)
