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

const (
	travelsTable             = "travel.travels"
	travelAccommodationTable = "travel.travel_accommodations"
	travelEntertainmentTable = "travel.travel_entertainment"
)

// TravelRepository implements port.TravelRepository using PostgreSQL.
// Accommodation and entertainment links live in join tables and are
// rewritten wholesale on update.
type TravelRepository struct {
	pool    pgPool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTravelRepository constructs a PostgreSQL-backed travel repository.
func NewTravelRepository(pool pgPool) *TravelRepository {
	return &TravelRepository{
		pool:    pool,
		exec:    pool,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add inserts a travel with its links and returns the generated identifier.
func (r *TravelRepository) Add(ctx context.Context, travel domain.Travel) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin travel tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmt, args, err := r.builder.Insert(travelsTable).
		Columns("status", "user_id").
		Values(string(travel.Status), travel.UserID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert travel sql: %w", err)
	}

	var id int64
	if err := tx.QueryRow(ctx, stmt, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert travel: %w", err)
	}

	if err := r.insertLinks(ctx, tx, id, travel); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit travel tx: %w", err)
	}

	return id, nil
}

// GetByID retrieves a travel with its accommodation and entertainment links.
func (r *TravelRepository) GetByID(ctx context.Context, id int64) (*domain.Travel, error) {
	stmt, args, err := r.builder.
		Select("id", "status", "user_id").
		From(travelsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select travel sql: %w", err)
	}

	var travel domain.Travel
	var status string
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&travel.ID, &status, &travel.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan travel: %w", err)
	}
	travel.Status = domain.TravelStatus(status)

	if travel.AccommodationIDs, err = r.linkedIDs(ctx, travelAccommodationTable, "accommodation_id", id); err != nil {
		return nil, err
	}
	if travel.EntertainmentIDs, err = r.linkedIDs(ctx, travelEntertainmentTable, "entertainment_id", id); err != nil {
		return nil, err
	}

	return &travel, nil
}

// GetList returns all travels with their links.
func (r *TravelRepository) GetList(ctx context.Context) ([]domain.Travel, error) {
	stmt, args, err := r.builder.
		Select("id", "status", "user_id").
		From(travelsTable).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select travels sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select travels: %w", err)
	}

	var list []domain.Travel
	for rows.Next() {
		var travel domain.Travel
		var status string
		if err := rows.Scan(&travel.ID, &status, &travel.UserID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan travel: %w", err)
		}
		travel.Status = domain.TravelStatus(status)
		list = append(list, travel)
	}
	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate travels: %w", err)
	}

	for i := range list {
		if list[i].AccommodationIDs, err = r.linkedIDs(ctx, travelAccommodationTable, "accommodation_id", list[i].ID); err != nil {
			return nil, err
		}
		if list[i].EntertainmentIDs, err = r.linkedIDs(ctx, travelEntertainmentTable, "entertainment_id", list[i].ID); err != nil {
			return nil, err
		}
	}

	return list, nil
}

// Update rewrites the travel status, owner, and link tables.
func (r *TravelRepository) Update(ctx context.Context, travel domain.Travel) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin travel tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	stmt, args, err := r.builder.Update(travelsTable).
		Set("status", string(travel.Status)).
		Set("user_id", travel.UserID).
		Where(squirrel.Eq{"id": travel.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update travel sql: %w", err)
	}

	tag, err := tx.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update travel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	for _, table := range []string{travelAccommodationTable, travelEntertainmentTable} {
		delStmt, delArgs, err := r.builder.Delete(table).
			Where(squirrel.Eq{"travel_id": travel.ID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete links sql: %w", err)
		}
		if _, err := tx.Exec(ctx, delStmt, delArgs...); err != nil {
			return fmt.Errorf("delete travel links: %w", err)
		}
	}

	if err := r.insertLinks(ctx, tx, travel.ID, travel); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit travel tx: %w", err)
	}

	return nil
}

// Delete removes a travel row; link rows cascade via foreign keys.
func (r *TravelRepository) Delete(ctx context.Context, id int64) error {
	stmt, args, err := r.builder.Delete(travelsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete travel sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete travel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteByUser removes all travels owned by the user.
func (r *TravelRepository) DeleteByUser(ctx context.Context, userID int64) error {
	stmt, args, err := r.builder.Delete(travelsTable).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete travels sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete travels by user: %w", err)
	}

	return nil
}

// SearchByCity returns travels whose routes start or end in the named city.
func (r *TravelRepository) SearchByCity(ctx context.Context, cityName string) ([]domain.Travel, error) {
	stmt, args, err := r.builder.
		Select("DISTINCT t.id", "t.status", "t.user_id").
		From(travelsTable + " t").
		Join("travel.route rt ON rt.travel_id = t.id").
		Join("travel.directory_route dr ON dr.id = rt.d_route_id").
		Join("travel.city cf ON cf.id = dr.city_from_id").
		Join("travel.city ct ON ct.id = dr.city_to_id").
		Where(squirrel.Or{
			squirrel.Eq{"cf.name": cityName},
			squirrel.Eq{"ct.name": cityName},
		}).
		OrderBy("t.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search travels sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("search travels: %w", err)
	}
	defer rows.Close()

	var list []domain.Travel
	for rows.Next() {
		var travel domain.Travel
		var status string
		if err := rows.Scan(&travel.ID, &status, &travel.UserID); err != nil {
			return nil, fmt.Errorf("scan travel: %w", err)
		}
		travel.Status = domain.TravelStatus(status)
		list = append(list, travel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate travels: %w", err)
	}

	return list, nil
}

func (r *TravelRepository) insertLinks(ctx context.Context, tx pgx.Tx, travelID int64, travel domain.Travel) error {
	if len(travel.AccommodationIDs) > 0 {
		insert := r.builder.Insert(travelAccommodationTable).Columns("travel_id", "accommodation_id")
		for _, accID := range travel.AccommodationIDs {
			insert = insert.Values(travelID, accID)
		}
		stmt, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert accommodation links sql: %w", err)
		}
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert accommodation links: %w", err)
		}
	}

	if len(travel.EntertainmentIDs) > 0 {
		insert := r.builder.Insert(travelEntertainmentTable).Columns("travel_id", "entertainment_id")
		for _, entID := range travel.EntertainmentIDs {
			insert = insert.Values(travelID, entID)
		}
		stmt, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert entertainment links sql: %w", err)
		}
		if _, err := tx.Exec(ctx, stmt, args...); err != nil {
			return fmt.Errorf("insert entertainment links: %w", err)
		}
	}

	return nil
}

func (r *TravelRepository) linkedIDs(ctx context.Context, table, column string, travelID int64) ([]int64, error) {
	stmt, args, err := r.builder.
		Select(column).
		From(table).
		Where(squirrel.Eq{"travel_id": travelID}).
		OrderBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select links sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select links: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}

	return ids, nil
}

var _ port.TravelRepository = (*TravelRepository)(nil)
