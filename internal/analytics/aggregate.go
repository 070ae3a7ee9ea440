// Package analytics derives dashboard metrics from raw order lists when the
// backend's precomputed analytics payload is unavailable.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

// Source tags where a metrics payload came from, so consumers can tell real
// numbers from synthetic ones instead of silently mixing them.
type Source string

const (
	SourceAuthoritative Source = "authoritative" // backend analytics endpoint
	SourceDerived       Source = "derived"       // aggregated here from raw orders
	SourcePlaceholder   Source = "placeholder"   // randomized last-resort data
)

type TopProduct struct {
	Name          string          `json:"name"`
	Units         int             `json:"units"`
	Revenue       decimal.Decimal `json:"revenue"`
	GrowthPercent float64         `json:"growth_percent"`
}

type Metrics struct {
	Source               Source              `json:"source"`
	MonthlyRevenue       [12]decimal.Decimal `json:"monthly_revenue"`
	TopProducts          []TopProduct        `json:"top_products"`
	TotalRevenue         decimal.Decimal     `json:"total_revenue"`
	TotalOrders          int                 `json:"total_orders"`
	RevenueGrowthPercent float64             `json:"revenue_growth_percent"`
}

// MonthlyRevenue buckets order totals by calendar month. Orders without a
// resolvable date are skipped; unparsable totals count as zero, so the slot
// sum always equals the sum of all dated orders' totals.
func MonthlyRevenue(orders []backend.Order) [12]decimal.Decimal {
	var buckets [12]decimal.Decimal
	for _, o := range orders {
		placed, ok := o.PlacedAt()
		if !ok {
			continue
		}
		m := int(placed.Month()) - 1
		buckets[m] = buckets[m].Add(o.Total.Decimal())
	}
	return buckets
}

// Growth is month-over-month growth in percent. Zero previous revenue yields
// exactly 0 for any current value; that is a division-by-zero policy, not an
// identity.
func Growth(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		return 0
	}
	f, _ := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Float64()
	return f
}

// TopProducts ranks line items by revenue descending and keeps the top n.
// Quantity defaults to 1 when missing; a missing price makes the line
// contribute zero revenue. Per-product growth compares the month containing
// now against the month before it.
func TopProducts(orders []backend.Order, n int, now time.Time) []TopProduct {
	type acc struct {
		units    int
		revenue  decimal.Decimal
		curMonth decimal.Decimal
		prvMonth decimal.Decimal
	}
	cur := int(now.Month()) - 1
	prv := (cur + 11) % 12

	totals := map[string]*acc{}
	for _, o := range orders {
		placed, dated := o.PlacedAt()
		for _, it := range o.Items {
			if it.ProductName == "" {
				continue
			}
			a := totals[it.ProductName]
			if a == nil {
				a = &acc{}
				totals[it.ProductName] = a
			}
			qty := it.Quantity
			if qty <= 0 {
				qty = 1
			}
			rev := it.Price.Decimal().Mul(decimal.NewFromInt(int64(qty)))
			a.units += qty
			a.revenue = a.revenue.Add(rev)
			if dated {
				switch int(placed.Month()) - 1 {
				case cur:
					a.curMonth = a.curMonth.Add(rev)
				case prv:
					a.prvMonth = a.prvMonth.Add(rev)
				}
			}
		}
	}

	out := make([]TopProduct, 0, len(totals))
	for name, a := range totals {
		out = append(out, TopProduct{
			Name:          name,
			Units:         a.units,
			Revenue:       a.revenue,
			GrowthPercent: Growth(a.curMonth, a.prvMonth),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Aggregate runs the full derived-metrics pass over a raw order list. When
// fewer than topN ranked products exist and a catalog is available, the list
// is padded with low-confidence placeholder entries drawn from catalog names.
func Aggregate(orders []backend.Order, products []backend.Product, topN int, now time.Time, rng Rand) Metrics {
	buckets := MonthlyRevenue(orders)
	top := TopProducts(orders, topN, now)
	top = padTopProducts(top, topN, products, rng)

	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(b)
	}
	cur := int(now.Month()) - 1
	prv := (cur + 11) % 12

	return Metrics{
		Source:               SourceDerived,
		MonthlyRevenue:       buckets,
		TopProducts:          top,
		TotalRevenue:         total,
		TotalOrders:          len(orders),
		RevenueGrowthPercent: Growth(buckets[cur], buckets[prv]),
	}
}

func padTopProducts(top []TopProduct, n int, products []backend.Product, rng Rand) []TopProduct {
	if len(top) >= n || len(products) == 0 {
		return top
	}
	seen := map[string]bool{}
	for _, t := range top {
		seen[t.Name] = true
	}
	for _, p := range products {
		if len(top) >= n {
			break
		}
		if p.Name == "" || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		units := 1 + rng.Intn(20)
		top = append(top, TopProduct{
			Name:    p.Name,
			Units:   units,
			Revenue: p.Price.Decimal().Mul(decimal.NewFromInt(int64(units))),
		})
	}
	return top
}

// FromBackend converts the precomputed analytics payload into Metrics tagged
// authoritative. The client already validated the 12-slot shape.
func FromBackend(p *backend.DashboardAnalytics, topN int) Metrics {
	m := Metrics{
		Source:               SourceAuthoritative,
		TotalRevenue:         p.TotalRevenue.Decimal(),
		TotalOrders:          p.TotalOrders,
		RevenueGrowthPercent: p.RevenueGrowthPercent,
	}
	for i := 0; i < 12 && i < len(p.MonthlyRevenue); i++ {
		m.MonthlyRevenue[i] = p.MonthlyRevenue[i].Decimal()
	}
	for i, tp := range p.TopProducts {
		if i >= topN {
			break
		}
		m.TopProducts = append(m.TopProducts, TopProduct{
			Name:          tp.Name,
			Units:         tp.Units,
			Revenue:       tp.Revenue.Decimal(),
			GrowthPercent: tp.GrowthPercent,
		})
	}
	return m
}
