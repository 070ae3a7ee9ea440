package analytics

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/voltmart/storefront-gateway/internal/backend"
)

// Rand is the subset of *rand.Rand the package needs; injected so tests can
// pin the sequence.
type Rand interface {
	Intn(n int) int
}

// NewRand seeds a generator for placeholder metrics.
func NewRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Placeholder fabricates a full metrics payload for the last-resort tier, so
// a dashboard never renders blank. Product names come from the catalog when
// one is available. The Source tag keeps these numbers from masquerading as
// real ones downstream.
func Placeholder(products []backend.Product, topN int, rng Rand) Metrics {
	var m Metrics
	m.Source = SourcePlaceholder
	total := decimal.Zero
	for i := range m.MonthlyRevenue {
		v := decimal.NewFromInt(int64(1000 + rng.Intn(9000)))
		m.MonthlyRevenue[i] = v
		total = total.Add(v)
	}
	m.TotalRevenue = total
	m.TotalOrders = 20 + rng.Intn(180)
	m.RevenueGrowthPercent = float64(rng.Intn(41) - 20)

	for i := 0; i < topN; i++ {
		name := fmt.Sprintf("Product %c", 'A'+i)
		if i < len(products) && products[i].Name != "" {
			name = products[i].Name
		}
		units := 5 + rng.Intn(45)
		m.TopProducts = append(m.TopProducts, TopProduct{
			Name:          name,
			Units:         units,
			Revenue:       decimal.NewFromInt(int64(units * (50 + rng.Intn(450)))),
			GrowthPercent: float64(rng.Intn(61) - 30),
		})
	}
	return m
}
