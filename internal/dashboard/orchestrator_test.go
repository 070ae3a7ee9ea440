package dashboard

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltmart/storefront-gateway/internal/analytics"
	"github.com/voltmart/storefront-gateway/internal/backend"
)

type fakeAPI struct {
	analyticsFn    func() (*backend.DashboardAnalytics, error)
	ordersFn       func() (*backend.Page[backend.Order], error)
	productsFn     func() (*backend.Page[backend.Product], error)
	analyticsCalls int
	orderCalls     int
}

func (f *fakeAPI) DashboardAnalytics(ctx context.Context, period string) (*backend.DashboardAnalytics, error) {
	f.analyticsCalls++
	return f.analyticsFn()
}

func (f *fakeAPI) ListOrders(ctx context.Context, page int) (*backend.Page[backend.Order], error) {
	f.orderCalls++
	return f.ordersFn()
}

func (f *fakeAPI) ListProducts(ctx context.Context, query url.Values) (*backend.Page[backend.Product], error) {
	if f.productsFn == nil {
		return &backend.Page[backend.Product]{Results: []backend.Product{}}, nil
	}
	return f.productsFn()
}

type fixedRand struct{}

func (fixedRand) Intn(n int) int { return n / 2 }

func newTestOrch(t *testing.T, api API, withCache bool) (*Orchestrator, *redis.Client) {
	t.Helper()
	var cache *Cache
	var rdb *redis.Client
	if withCache {
		mr := miniredis.RunT(t)
		rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cache = NewCache(rdb, time.Minute)
	}
	o := New(api, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
	o.now = func() time.Time { return time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC) }
	o.rng = fixedRand{}
	return o, rdb
}

func goodAnalytics() (*backend.DashboardAnalytics, error) {
	p := &backend.DashboardAnalytics{
		MonthlyRevenue: make([]backend.Numeric, 12),
		TotalRevenue:   "5000",
		TotalOrders:    12,
	}
	p.MonthlyRevenue[4] = "5000"
	return p, nil
}

func orderPage() (*backend.Page[backend.Order], error) {
	placed := time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC)
	return &backend.Page[backend.Order]{
		Count: 1,
		Results: []backend.Order{
			{ID: "o1", Total: "250", CreatedAt: &placed, Items: []backend.OrderItem{
				{ProductName: "SSD", Quantity: 2, Price: "125"},
			}},
		},
	}, nil
}

func TestLoad_AuthoritativeTier(t *testing.T) {
	api := &fakeAPI{analyticsFn: goodAnalytics}
	o, _ := newTestOrch(t, api, false)

	snap := o.Load(context.Background(), Options{Period: "month"})
	assert.Equal(t, analytics.SourceAuthoritative, snap.Metrics.Source)
	assert.Equal(t, 0, api.orderCalls, "tier 2 must not run when tier 1 succeeds")
	assert.Equal(t, StateReady, o.State())
}

func TestLoad_FallsBackToDerivedOn404(t *testing.T) {
	api := &fakeAPI{
		analyticsFn: func() (*backend.DashboardAnalytics, error) { return nil, backend.ErrNotFound },
		ordersFn:    orderPage,
	}
	o, _ := newTestOrch(t, api, false)

	snap := o.Load(context.Background(), Options{Period: "month"})
	assert.Equal(t, analytics.SourceDerived, snap.Metrics.Source)
	assert.Equal(t, 1, api.analyticsCalls, "analytics attempt precedes the fallback")
	assert.Equal(t, 1, api.orderCalls)
	require.Len(t, snap.Metrics.TopProducts, 1)
	assert.Equal(t, "SSD", snap.Metrics.TopProducts[0].Name)
}

func TestLoad_PlaceholderWhenEverythingFails(t *testing.T) {
	api := &fakeAPI{
		analyticsFn: func() (*backend.DashboardAnalytics, error) { return nil, backend.ErrBadGateway },
		ordersFn:    func() (*backend.Page[backend.Order], error) { return nil, backend.ErrBadGateway },
		productsFn:  func() (*backend.Page[backend.Product], error) { return nil, backend.ErrBadGateway },
	}
	o, _ := newTestOrch(t, api, false)

	snap := o.Load(context.Background(), Options{Period: "month", TopN: 3})
	assert.Equal(t, analytics.SourcePlaceholder, snap.Metrics.Source)
	assert.Len(t, snap.Metrics.TopProducts, 3)
	assert.Equal(t, StateReady, o.State(), "a dashboard always ends Ready")
}

func TestLoad_SnapshotCache(t *testing.T) {
	api := &fakeAPI{analyticsFn: goodAnalytics}
	o, _ := newTestOrch(t, api, true)

	first := o.Load(context.Background(), Options{Period: "month"})
	assert.Equal(t, 1, api.analyticsCalls)

	second := o.Load(context.Background(), Options{Period: "month"})
	assert.Equal(t, 1, api.analyticsCalls, "warm load comes from the snapshot cache")
	assert.Equal(t, first.Metrics.TotalOrders, second.Metrics.TotalOrders)

	o.Load(context.Background(), Options{Period: "month", Force: true})
	assert.Equal(t, 2, api.analyticsCalls, "forced refresh bypasses the cache")
}

func TestLoad_PlaceholderNeverCached(t *testing.T) {
	api := &fakeAPI{
		analyticsFn: func() (*backend.DashboardAnalytics, error) { return nil, backend.ErrBadGateway },
		ordersFn:    func() (*backend.Page[backend.Order], error) { return nil, backend.ErrBadGateway },
	}
	o, rdb := newTestOrch(t, api, true)

	snap := o.Load(context.Background(), Options{Period: "month"})
	assert.Equal(t, analytics.SourcePlaceholder, snap.Metrics.Source)

	keys, err := rdb.Keys(context.Background(), "dashboard:snapshot:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys, "synthetic numbers must not poison the cache")

	o.Load(context.Background(), Options{Period: "month"})
	assert.Equal(t, 2, api.analyticsCalls, "next load retries the real tiers")
}

// tokenAPI answers per bearer token, the way the real backend scopes the
// order list to its caller.
type tokenAPI struct {
	orders map[string]*backend.Page[backend.Order]
}

func (f *tokenAPI) DashboardAnalytics(ctx context.Context, period string) (*backend.DashboardAnalytics, error) {
	return nil, backend.ErrNotFound
}

func (f *tokenAPI) ListOrders(ctx context.Context, page int) (*backend.Page[backend.Order], error) {
	if p, ok := f.orders[backend.TokenFrom(ctx)]; ok {
		return p, nil
	}
	return nil, backend.ErrUnauthorized
}

func (f *tokenAPI) ListProducts(ctx context.Context, query url.Values) (*backend.Page[backend.Product], error) {
	return &backend.Page[backend.Product]{Results: []backend.Product{}}, nil
}

func vendorOrders(product, total string) *backend.Page[backend.Order] {
	placed := time.Date(2025, time.May, 3, 0, 0, 0, 0, time.UTC)
	return &backend.Page[backend.Order]{
		Count: 1,
		Results: []backend.Order{
			{ID: "o1", Total: backend.Numeric(total), CreatedAt: &placed, Items: []backend.OrderItem{
				{ProductName: product, Quantity: 1, Price: backend.Numeric(total)},
			}},
		},
	}
}

func TestLoad_SnapshotCacheIsScopedPerCaller(t *testing.T) {
	api := &tokenAPI{orders: map[string]*backend.Page[backend.Order]{
		"tok-a": vendorOrders("Alpha Widget", "100"),
		"tok-b": vendorOrders("Beta Widget", "999"),
	}}
	o, _ := newTestOrch(t, api, true)

	ctxA := backend.WithToken(context.Background(), "tok-a")
	snapA := o.Load(ctxA, Options{Scope: "vendor-a", Period: "month"})
	require.Equal(t, analytics.SourceDerived, snapA.Metrics.Source)
	assert.True(t, snapA.Metrics.TotalRevenue.Equal(decimal.NewFromInt(100)))

	// Vendor B's warm load for the same period must aggregate B's own
	// orders, not replay A's snapshot.
	ctxB := backend.WithToken(context.Background(), "tok-b")
	snapB := o.Load(ctxB, Options{Scope: "vendor-b", Period: "month"})
	assert.True(t, snapB.Metrics.TotalRevenue.Equal(decimal.NewFromInt(999)),
		"vendor B got vendor A's revenue: %s", snapB.Metrics.TotalRevenue)
	require.NotEmpty(t, snapB.Metrics.TopProducts)
	assert.Equal(t, "Beta Widget", snapB.Metrics.TopProducts[0].Name)

	// Each vendor's second load is served from their own cache entry.
	again := o.Load(ctxA, Options{Scope: "vendor-a", Period: "month"})
	assert.True(t, again.Metrics.TotalRevenue.Equal(decimal.NewFromInt(100)))
}

func TestWarmupHandler(t *testing.T) {
	api := &tokenAPI{orders: map[string]*backend.Page[backend.Order]{
		"tok-a": vendorOrders("Alpha Widget", "100"),
		"tok-b": vendorOrders("Beta Widget", "999"),
	}}
	o, rdb := newTestOrch(t, api, true)

	scopes := []WarmupScope{
		{UserID: "vendor-a", Token: "tok-a"},
		{UserID: "vendor-b", Token: "tok-b"},
	}
	task, err := NewWarmupTask(scopes, []string{"week", "month"})
	require.NoError(t, err)

	h := &WarmupHandler{Orch: o, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	require.NoError(t, h.ProcessTask(context.Background(), task))

	keys, err := rdb.Keys(context.Background(), "dashboard:snapshot:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 4, "one entry per scope and period")

	// Warmed entries must answer each vendor with their own numbers.
	snap := o.Load(context.Background(), Options{Scope: "vendor-b", Period: "month"})
	assert.True(t, snap.Metrics.TotalRevenue.Equal(decimal.NewFromInt(999)))
}

func TestWarmupHandler_NoScopesIsANoOp(t *testing.T) {
	api := &fakeAPI{analyticsFn: goodAnalytics}
	o, rdb := newTestOrch(t, api, true)

	task, err := NewWarmupTask(nil, []string{"month"})
	require.NoError(t, err)

	h := &WarmupHandler{Orch: o, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	require.NoError(t, h.ProcessTask(context.Background(), task))

	keys, err := rdb.Keys(context.Background(), "dashboard:snapshot:*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
