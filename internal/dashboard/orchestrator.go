// Package dashboard sequences metric loading for the admin views with a
// three-tier fallback: precomputed backend analytics, local aggregation over
// raw orders, then randomized placeholder data. A dashboard always reaches
// Ready; there is no user-facing error state for metrics.
package dashboard

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/voltmart/storefront-gateway/internal/analytics"
	"github.com/voltmart/storefront-gateway/internal/backend"
	"github.com/voltmart/storefront-gateway/internal/catalog"
)

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// API is the slice of the backend client the orchestrator needs.
type API interface {
	DashboardAnalytics(ctx context.Context, period string) (*backend.DashboardAnalytics, error)
	ListOrders(ctx context.Context, page int) (*backend.Page[backend.Order], error)
	ListProducts(ctx context.Context, query url.Values) (*backend.Page[backend.Product], error)
}

type Snapshot struct {
	Period      string            `json:"period"`
	Metrics     analytics.Metrics `json:"metrics"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type Options struct {
	Scope  string // caller identity (user id); partitions the snapshot cache
	Period string
	TopN   int  // ranked product count: 5 for the dashboard, 3 for the analytics view
	Force  bool // skip the snapshot cache (user-triggered refresh)
}

type Orchestrator struct {
	api    API
	cache  *Cache // nil disables snapshot caching
	logger *slog.Logger
	now    func() time.Time
	rng    analytics.Rand

	mu    sync.Mutex
	state State
}

func New(api API, cache *Cache, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		api:    api,
		cache:  cache,
		logger: logger,
		now:    time.Now,
		rng:    analytics.NewRand(),
		state:  StateReady,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Load resolves a snapshot for the requested period. The tiers run strictly
// in sequence: the fallback aggregation only starts after the dedicated
// analytics attempt has failed, and the placeholder tier only after the raw
// order fetch has failed too. Load never returns an error; the worst case is
// placeholder data tagged as such. Re-entrant: every call walks
// Loading → Ready again.
func (o *Orchestrator) Load(ctx context.Context, opts Options) Snapshot {
	if opts.TopN <= 0 {
		opts.TopN = 5
	}
	o.setState(StateLoading)
	defer o.setState(StateReady)

	if o.cache != nil && !opts.Force {
		if snap, err := o.cache.Get(ctx, opts.Scope, opts.Period, opts.TopN); err != nil {
			o.logger.Warn("snapshot cache read", slog.Any("error", err))
		} else if snap != nil {
			return *snap
		}
	}

	if payload, err := o.api.DashboardAnalytics(ctx, opts.Period); err == nil {
		return o.finish(ctx, opts, analytics.FromBackend(payload, opts.TopN))
	} else {
		// Expected whenever the backend has no analytics endpoint for this
		// scope; fall through without surfacing anything to the user.
		o.logger.Warn("dashboard analytics endpoint", slog.String("period", opts.Period), slog.Any("error", err))
	}

	products := o.fetchProducts(ctx)
	if orders, err := o.fetchOrders(ctx); err == nil {
		return o.finish(ctx, opts, analytics.Aggregate(orders, products, opts.TopN, o.now(), o.rng))
	} else {
		o.logger.Warn("dashboard raw aggregation", slog.Any("error", err))
	}

	return Snapshot{
		Period:      opts.Period,
		Metrics:     analytics.Placeholder(products, opts.TopN, o.rng),
		GeneratedAt: o.now(),
	}
}

func (o *Orchestrator) finish(ctx context.Context, opts Options, m analytics.Metrics) Snapshot {
	snap := Snapshot{Period: opts.Period, Metrics: m, GeneratedAt: o.now()}
	if o.cache != nil {
		// Placeholder data never reaches the cache; the next load should
		// retry the real tiers instead of replaying synthetic numbers.
		if err := o.cache.Put(ctx, opts.Scope, opts.Period, opts.TopN, snap); err != nil {
			o.logger.Warn("snapshot cache write", slog.Any("error", err))
		}
	}
	return snap
}

func (o *Orchestrator) fetchOrders(ctx context.Context) ([]backend.Order, error) {
	page, err := o.api.ListOrders(ctx, 1)
	if err != nil {
		return nil, err
	}
	return page.Results, nil
}

func (o *Orchestrator) fetchProducts(ctx context.Context) []backend.Product {
	page, err := o.api.ListProducts(ctx, catalog.ListQuery{}.Values())
	if err != nil {
		// Only costs placeholder names; not worth failing the tier over.
		o.logger.Warn("dashboard product catalog", slog.Any("error", err))
		return nil
	}
	return page.Results
}
