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

const routesTable = "travel.route"

var routeColumns = []string{"id", "d_route_id", "travel_id", "start_time", "end_time", "cost"}

// RouteRepository implements port.RouteRepository using PostgreSQL.
type RouteRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewRouteRepository constructs a PostgreSQL-backed route repository.
func NewRouteRepository(exec pgExecutor) *RouteRepository {
	return &RouteRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts a route and returns the generated identifier.
func (r *RouteRepository) Add(ctx context.Context, route domain.Route) (int64, error) {
	stmt, args, err := r.builder.Insert(routesTable).
		Columns("d_route_id", "travel_id", "start_time", "end_time", "cost").
		Values(route.DRouteID, route.TravelID, route.StartTime, route.EndTime, route.Cost).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert route sql: %w", err)
	}

	var id int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert route: %w", err)
	}

	return id, nil
}

// GetByID retrieves a route by identifier.
func (r *RouteRepository) GetByID(ctx context.Context, id int64) (*domain.Route, error) {
	stmt, args, err := r.builder.
		Select(routeColumns...).
		From(routesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select route sql: %w", err)
	}

	var route domain.Route
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&route.ID, &route.DRouteID, &route.TravelID, &route.StartTime, &route.EndTime, &route.Cost,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan route: %w", err)
	}

	return &route, nil
}

// GetList returns all routes ordered by start time.
func (r *RouteRepository) GetList(ctx context.Context) ([]domain.Route, error) {
	stmt, args, err := r.builder.
		Select(routeColumns...).
		From(routesTable).
		OrderBy("start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select routes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select routes: %w", err)
	}
	defer rows.Close()

	var list []domain.Route
	for rows.Next() {
		var route domain.Route
		if err := rows.Scan(
			&route.ID, &route.DRouteID, &route.TravelID, &route.StartTime, &route.EndTime, &route.Cost,
		); err != nil {
			return nil, fmt.Errorf("scan route: %w", err)
		}
		list = append(list, route)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate routes: %w", err)
	}

	return list, nil
}

// Update rewrites the route fields.
func (r *RouteRepository) Update(ctx context.Context, route domain.Route) error {
	stmt, args, err := r.builder.Update(routesTable).
		Set("d_route_id", route.DRouteID).
		Set("travel_id", route.TravelID).
		Set("start_time", route.StartTime).
		Set("end_time", route.EndTime).
		Set("cost", route.Cost).
		Where(squirrel.Eq{"id": route.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update route sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a route row.
func (r *RouteRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete(routesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete route sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.RouteRepository = (*RouteRepository)(nil)
