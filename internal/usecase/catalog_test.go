package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/proGsa/travel-booking/internal/core/domain"
	"github.com/proGsa/travel-booking/internal/repository"
)

type memCityRepo struct {
	mu     sync.Mutex
	nextID int64
	cities map[int64]domain.City
}

func newMemCityRepo() *memCityRepo {
	return &memCityRepo{nextID: 1, cities: map[int64]domain.City{}}
}

func (r *memCityRepo) Add(_ context.Context, city domain.City) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	city.ID = r.nextID
	r.nextID++
	r.cities[city.ID] = city
	return city.ID, nil
}

func (r *memCityRepo) GetByID(_ context.Context, id int64) (*domain.City, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if city, ok := r.cities[id]; ok {
		copied := city
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memCityRepo) GetList(_ context.Context) ([]domain.City, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.City
	for _, city := range r.cities {
		list = append(list, city)
	}
	return list, nil
}

func (r *memCityRepo) Update(_ context.Context, city domain.City) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cities[city.ID]; !ok {
		return repository.ErrNotFound
	}
	r.cities[city.ID] = city
	return nil
}

func (r *memCityRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.cities, id)
	return nil
}

type memAccommodationRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.Accommodation
}

func newMemAccommodationRepo() *memAccommodationRepo {
	return &memAccommodationRepo{nextID: 1, items: map[int64]domain.Accommodation{}}
}

func (r *memAccommodationRepo) Add(_ context.Context, acc domain.Accommodation) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc.ID = r.nextID
	r.nextID++
	r.items[acc.ID] = acc
	return acc.ID, nil
}

func (r *memAccommodationRepo) GetByID(_ context.Context, id int64) (*domain.Accommodation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if acc, ok := r.items[id]; ok {
		copied := acc
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memAccommodationRepo) GetList(_ context.Context) ([]domain.Accommodation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.Accommodation
	for _, acc := range r.items {
		list = append(list, acc)
	}
	return list, nil
}

func (r *memAccommodationRepo) Update(_ context.Context, acc domain.Accommodation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[acc.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[acc.ID] = acc
	return nil
}

func (r *memAccommodationRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memEntertainmentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.Entertainment
}

func newMemEntertainmentRepo() *memEntertainmentRepo {
	return &memEntertainmentRepo{nextID: 1, items: map[int64]domain.Entertainment{}}
}

func (r *memEntertainmentRepo) Add(_ context.Context, ent domain.Entertainment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ent.ID = r.nextID
	r.nextID++
	r.items[ent.ID] = ent
	return ent.ID, nil
}

func (r *memEntertainmentRepo) GetByID(_ context.Context, id int64) (*domain.Entertainment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ent, ok := r.items[id]; ok {
		copied := ent
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memEntertainmentRepo) GetList(_ context.Context) ([]domain.Entertainment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.Entertainment
	for _, ent := range r.items {
		list = append(list, ent)
	}
	return list, nil
}

func (r *memEntertainmentRepo) Update(_ context.Context, ent domain.Entertainment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[ent.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[ent.ID] = ent
	return nil
}

func (r *memEntertainmentRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memDirectoryRouteRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.DirectoryRoute
}

func newMemDirectoryRouteRepo() *memDirectoryRouteRepo {
	return &memDirectoryRouteRepo{nextID: 1, items: map[int64]domain.DirectoryRoute{}}
}

func (r *memDirectoryRouteRepo) Add(_ context.Context, route domain.DirectoryRoute) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	route.ID = r.nextID
	r.nextID++
	r.items[route.ID] = route
	return route.ID, nil
}

func (r *memDirectoryRouteRepo) GetByID(_ context.Context, id int64) (*domain.DirectoryRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if route, ok := r.items[id]; ok {
		copied := route
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memDirectoryRouteRepo) GetList(_ context.Context) ([]domain.DirectoryRoute, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.DirectoryRoute
	for _, route := range r.items {
		list = append(list, route)
	}
	return list, nil
}

func (r *memDirectoryRouteRepo) Update(_ context.Context, route domain.DirectoryRoute) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[route.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[route.ID] = route
	return nil
}

func (r *memDirectoryRouteRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

type memRouteRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]domain.Route
}

func newMemRouteRepo() *memRouteRepo {
	return &memRouteRepo{nextID: 1, items: map[int64]domain.Route{}}
}

func (r *memRouteRepo) Add(_ context.Context, route domain.Route) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	route.ID = r.nextID
	r.nextID++
	r.items[route.ID] = route
	return route.ID, nil
}

func (r *memRouteRepo) GetByID(_ context.Context, id int64) (*domain.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if route, ok := r.items[id]; ok {
		copied := route
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memRouteRepo) GetList(_ context.Context) ([]domain.Route, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []domain.Route
	for _, route := range r.items {
		list = append(list, route)
	}
	return list, nil
}

func (r *memRouteRepo) Update(_ context.Context, route domain.Route) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[route.ID]; !ok {
		return repository.ErrNotFound
	}
	r.items[route.ID] = route
	return nil
}

func (r *memRouteRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func newCatalogFixture() *CatalogService {
	return NewCatalogService(newMemCityRepo(), newMemAccommodationRepo(), newMemEntertainmentRepo(), newMemDirectoryRouteRepo(), nil)
}

func TestCatalogCityLifecycle(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	id, err := svc.AddCity(ctx, domain.City{Name: "Lisbon"})
	if err != nil {
		t.Fatalf("AddCity returned error: %v", err)
	}

	city, err := svc.GetCity(ctx, id)
	if err != nil {
		t.Fatalf("GetCity returned error: %v", err)
	}
	if city.Name != "Lisbon" {
		t.Fatalf("unexpected city name: %s", city.Name)
	}

	if err := svc.UpdateCity(ctx, domain.City{ID: id, Name: "Porto"}); err != nil {
		t.Fatalf("UpdateCity returned error: %v", err)
	}
	city, err = svc.GetCity(ctx, id)
	if err != nil {
		t.Fatalf("GetCity after update returned error: %v", err)
	}
	if city.Name != "Porto" {
		t.Fatalf("expected updated name, got %s", city.Name)
	}

	if err := svc.DeleteCity(ctx, id); err != nil {
		t.Fatalf("DeleteCity returned error: %v", err)
	}
	if _, err := svc.GetCity(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCatalogCityValidation(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	if _, err := svc.AddCity(ctx, domain.City{Name: "   "}); err == nil {
		t.Fatalf("expected error for blank city name")
	}
	if err := svc.UpdateCity(ctx, domain.City{ID: 0, Name: "Lisbon"}); err == nil {
		t.Fatalf("expected error for missing city id")
	}
}

func TestCatalogAccommodationLifecycle(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	if _, err := svc.AddAccommodation(ctx, domain.Accommodation{Name: "Grand Hotel"}); err == nil {
		t.Fatalf("expected error for missing city id")
	}
	if _, err := svc.AddAccommodation(ctx, domain.Accommodation{Name: "Grand Hotel", CityID: 1, Price: -10}); err == nil {
		t.Fatalf("expected error for negative price")
	}

	id, err := svc.AddAccommodation(ctx, domain.Accommodation{
		Name:    "Grand Hotel",
		Type:    "hotel",
		Address: "Main Square 1",
		Price:   12000,
		Rating:  4.5,
		CityID:  1,
	})
	if err != nil {
		t.Fatalf("AddAccommodation returned error: %v", err)
	}

	acc, err := svc.GetAccommodation(ctx, id)
	if err != nil {
		t.Fatalf("GetAccommodation returned error: %v", err)
	}
	if acc.Type != "hotel" || acc.Rating != 4.5 {
		t.Fatalf("unexpected accommodation: %+v", acc)
	}

	acc.Price = 13000
	if err := svc.UpdateAccommodation(ctx, *acc); err != nil {
		t.Fatalf("UpdateAccommodation returned error: %v", err)
	}

	list, err := svc.ListAccommodations(ctx)
	if err != nil {
		t.Fatalf("ListAccommodations returned error: %v", err)
	}
	if len(list) != 1 || list[0].Price != 13000 {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := svc.DeleteAccommodation(ctx, id); err != nil {
		t.Fatalf("DeleteAccommodation returned error: %v", err)
	}
}

func TestCatalogEntertainmentLifecycle(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	if _, err := svc.AddEntertainment(ctx, domain.Entertainment{Name: "Museum"}); err == nil {
		t.Fatalf("expected error for missing city id")
	}

	id, err := svc.AddEntertainment(ctx, domain.Entertainment{
		Name:     "Museum",
		Address:  "History Lane 3",
		Price:    500,
		Duration: "2h",
		CityID:   1,
	})
	if err != nil {
		t.Fatalf("AddEntertainment returned error: %v", err)
	}

	ent, err := svc.GetEntertainment(ctx, id)
	if err != nil {
		t.Fatalf("GetEntertainment returned error: %v", err)
	}
	if ent.Duration != "2h" {
		t.Fatalf("unexpected entertainment: %+v", ent)
	}

	if err := svc.DeleteEntertainment(ctx, id); err != nil {
		t.Fatalf("DeleteEntertainment returned error: %v", err)
	}
	if _, err := svc.GetEntertainment(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestCatalogDirectoryRouteValidation(t *testing.T) {
	svc := newCatalogFixture()
	ctx := context.Background()

	if _, err := svc.AddDirectoryRoute(ctx, domain.DirectoryRoute{CityFromID: 1, CityToID: 2}); err == nil {
		t.Fatalf("expected error for missing transport type")
	}
	if _, err := svc.AddDirectoryRoute(ctx, domain.DirectoryRoute{TypeTransport: "train", CityFromID: 1, CityToID: 1}); err == nil {
		t.Fatalf("expected error for identical endpoints")
	}

	id, err := svc.AddDirectoryRoute(ctx, domain.DirectoryRoute{
		TypeTransport: "train",
		CityFromID:    1,
		CityToID:      2,
		Distance:      300,
		Price:         4500,
	})
	if err != nil {
		t.Fatalf("AddDirectoryRoute returned error: %v", err)
	}

	route, err := svc.GetDirectoryRoute(ctx, id)
	if err != nil {
		t.Fatalf("GetDirectoryRoute returned error: %v", err)
	}
	if route.TypeTransport != "train" || route.Distance != 300 {
		t.Fatalf("unexpected directory route: %+v", route)
	}
}

func TestTravelServiceRouteValidation(t *testing.T) {
	svc := NewTravelService(newMemTravelRepo(), newMemRouteRepo(), nil)
	ctx := context.Background()

	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	if _, err := svc.AddRoute(ctx, domain.Route{DRouteID: 1, TravelID: 1, StartTime: start, EndTime: start}); err == nil {
		t.Fatalf("expected error for non-positive duration")
	}

	id, err := svc.AddRoute(ctx, domain.Route{
		DRouteID:  1,
		TravelID:  1,
		StartTime: start,
		EndTime:   start.Add(3 * time.Hour),
		Cost:      4500,
	})
	if err != nil {
		t.Fatalf("AddRoute returned error: %v", err)
	}

	stored, err := svc.GetRoute(ctx, id)
	if err != nil {
		t.Fatalf("GetRoute returned error: %v", err)
	}
	if stored.Cost != 4500 {
		t.Fatalf("unexpected route: %+v", stored)
	}

	stored.EndTime = stored.StartTime
	if err := svc.UpdateRoute(ctx, *stored); err == nil {
		t.Fatalf("expected error for collapsed schedule")
	}
}

func TestTravelServiceSearchRequiresCity(t *testing.T) {
	svc := NewTravelService(newMemTravelRepo(), newMemRouteRepo(), nil)

	if _, err := svc.SearchTravelsByCity(context.Background(), "  "); err == nil {
		t.Fatalf("expected error for blank city name")
	}
}
