package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/salescast/backend-go/internal/domain"
	"github.com/andresuchdata/salescast/backend-go/internal/forecast"
	"github.com/google/uuid"
)

// memStore backs the in-memory repositories used by service tests.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	products  map[int64]domain.Product
	sales     []domain.Sale
	forecasts []domain.Forecast
	alerts    []domain.Alert
}

func newMemStore() *memStore {
	return &memStore{products: make(map[int64]domain.Product)}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

type memProducts struct{ *memStore }
type memSales struct{ *memStore }
type memForecasts struct{ *memStore }
type memAlerts struct{ *memStore }

func (r memProducts) List(ctx context.Context, userID int64) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Product{}
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memProducts) ListAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Product{}
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProducts) Get(ctx context.Context, userID, id int64) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r memProducts) Create(ctx context.Context, userID int64, in domain.ProductInput) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stock := 0
	if in.CurrentStock != nil {
		stock = *in.CurrentStock
	}
	p := domain.Product{ID: r.id(), UserID: userID, Name: *in.Name, Price: *in.Price, CurrentStock: &stock}
	r.products[p.ID] = p
	return &p, nil
}

func (r memProducts) Update(ctx context.Context, userID, id int64, in domain.ProductInput) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.CurrentStock != nil {
		stock := *in.CurrentStock
		p.CurrentStock = &stock
	}
	r.products[id] = p
	return &p, nil
}

func (r memProducts) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r memProducts) Count(ctx context.Context, userID int64) (int, error) {
	list, _ := r.List(ctx, userID)
	return len(list), nil
}

func (r memSales) List(ctx context.Context, userID int64) ([]domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Sale{}
	for _, s := range r.sales {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SaleDate.After(out[j].SaleDate) })
	return out, nil
}

func (r memSales) ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Sale, error) {
	all, _ := r.List(ctx, userID)
	out := []domain.Sale{}
	for _, s := range all {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memSales) Create(ctx context.Context, userID int64, in domain.SaleInput) (*domain.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := domain.Sale{ID: r.id(), ProductID: in.ProductID, UserID: userID, Quantity: in.Quantity, Revenue: in.Revenue, SaleDate: in.SaleDate}
	r.sales = append(r.sales, s)
	return &s, nil
}

func (r memSales) BulkCreate(ctx context.Context, userID int64, in []domain.SaleInput) (int, error) {
	for _, s := range in {
		if _, err := r.Create(ctx, userID, s); err != nil {
			return 0, err
		}
	}
	return len(in), nil
}

func (r memSales) Totals(ctx context.Context, userID int64) (domain.SalesTotals, error) {
	all, _ := r.List(ctx, userID)
	var t domain.SalesTotals
	for _, s := range all {
		t.Revenue += s.Revenue
		t.Quantity += int64(s.Quantity)
	}
	return t, nil
}

func (r memSales) Recent(ctx context.Context, userID int64, limit int) ([]domain.Sale, error) {
	all, _ := r.List(ctx, userID)
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (r memForecasts) ReplaceForProduct(ctx context.Context, userID, productID int64, runID uuid.UUID, points []forecast.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.forecasts[:0]
	for _, f := range r.forecasts {
		if !(f.UserID == userID && f.ProductID == productID) {
			kept = append(kept, f)
		}
	}
	r.forecasts = kept
	for _, p := range points {
		r.forecasts = append(r.forecasts, domain.Forecast{
			ID:                r.id(),
			ProductID:         productID,
			UserID:            userID,
			RunID:             runID,
			ForecastDate:      p.ForecastDate,
			PredictedQuantity: p.PredictedQuantity,
			PredictedRevenue:  p.PredictedRevenue,
			Confidence:        p.Confidence,
			Trend:             string(p.Trend),
			SeasonalityFactor: p.SeasonalityFactor,
		})
	}
	return nil
}

func (r memForecasts) List(ctx context.Context, userID int64) ([]domain.Forecast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Forecast{}
	for _, f := range r.forecasts {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r memForecasts) ListByProduct(ctx context.Context, userID, productID int64) ([]domain.Forecast, error) {
	all, _ := r.List(ctx, userID)
	out := []domain.Forecast{}
	for _, f := range all {
		if f.ProductID == productID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ForecastDate.Before(out[j].ForecastDate) })
	return out, nil
}

func (r memForecasts) PredictedRevenue(ctx context.Context, userID int64, from, to time.Time) (int64, error) {
	all, _ := r.List(ctx, userID)
	var total int64
	for _, f := range all {
		if !f.ForecastDate.Before(from) && !f.ForecastDate.After(to) {
			total += f.PredictedRevenue
		}
	}
	return total, nil
}

func (r memAlerts) List(ctx context.Context, userID int64) ([]domain.Alert, error) {
	return r.Recent(ctx, userID, 0)
}

func (r memAlerts) Recent(ctx context.Context, userID int64, limit int) ([]domain.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Alert{}
	for i := len(r.alerts) - 1; i >= 0; i-- {
		if r.alerts[i].UserID == userID {
			out = append(out, r.alerts[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memAlerts) CreateBatch(ctx context.Context, userID, productID int64, events []forecast.AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range events {
		r.alerts = append(r.alerts, domain.Alert{
			ID:        r.id(),
			ProductID: productID,
			UserID:    userID,
			AlertType: string(e.AlertType),
			Severity:  string(e.Severity),
			Message:   e.Message,
		})
	}
	return nil
}

func (r memAlerts) MarkRead(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id && r.alerts[i].UserID == userID {
			r.alerts[i].IsRead = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memAlerts) Delete(ctx context.Context, userID, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.alerts {
		if r.alerts[i].ID == id && r.alerts[i].UserID == userID {
			r.alerts = append(r.alerts[:i], r.alerts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r memAlerts) CountUnread(ctx context.Context, userID int64) (int, error) {
	all, _ := r.List(ctx, userID)
	n := 0
	for _, a := range all {
		if !a.IsRead {
			n++
		}
	}
	return n, nil
}

// memDashboardCache keeps overviews in a map and counts invalidations.
type memDashboardCache struct {
	mu          sync.Mutex
	entries     map[int64]domain.DashboardOverview
	invalidated int
}

func newMemDashboardCache() *memDashboardCache {
	return &memDashboardCache{entries: make(map[int64]domain.DashboardOverview)}
}

func (c *memDashboardCache) GetOverview(ctx context.Context, userID int64) (*domain.DashboardOverview, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	o, ok := c.entries[userID]
	if !ok {
		return nil, false, nil
	}
	return &o, true, nil
}

func (c *memDashboardCache) SetOverview(ctx context.Context, userID int64, overview *domain.DashboardOverview) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = *overview
	return nil
}

func (c *memDashboardCache) Invalidate(ctx context.Context, userID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
	c.invalidated++
	return nil
}

type fixture struct {
	store     *memStore
	products  memProducts
	sales     memSales
	forecasts memForecasts
	alerts    memAlerts
	dashboard *memDashboardCache
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:     store,
		products:  memProducts{store},
		sales:     memSales{store},
		forecasts: memForecasts{store},
		alerts:    memAlerts{store},
		dashboard: newMemDashboardCache(),
	}
}

func (f *fixture) addProduct(userID int64, name string, stock int) domain.Product {
	price := int64(1000)
	p, _ := f.products.Create(context.Background(), userID, domain.ProductInput{Name: &name, Price: &price, CurrentStock: &stock})
	return *p
}

func (f *fixture) addDailySales(userID, productID int64, start time.Time, quantities ...int) {
	for i, q := range quantities {
		_, _ = f.sales.Create(context.Background(), userID, domain.SaleInput{
			ProductID: productID,
			Quantity:  q,
			Revenue:   int64(q) * 100,
			SaleDate:  start.AddDate(0, 0, i),
		})
	}
}
