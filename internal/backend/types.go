package backend

import (
	"bytes"
	"time"

	"github.com/shopspring/decimal"
)

// Numeric holds a backend money/amount field that may arrive either as a JSON
// number or as a numeric string (NUMERIC columns are serialized as strings).
type Numeric string

func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if data[0] == '"' && data[len(data)-1] == '"' && len(data) >= 2 {
		*n = Numeric(data[1 : len(data)-1])
		return nil
	}
	*n = Numeric(data)
	return nil
}

func (n Numeric) MarshalJSON() ([]byte, error) {
	return []byte(`"` + string(n) + `"`), nil
}

// Decimal parses the value, returning zero for empty or unparsable input.
func (n Numeric) Decimal() decimal.Decimal {
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Page is the backend's paginated envelope. Decoding is fail-fast: a payload
// whose results are missing while count is positive is rejected instead of
// being shape-sniffed (see Client.getPage).
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        Numeric   `json:"price"`
	Stock        int       `json:"stock"`
	CategorySlug string    `json:"category_slug,omitempty"`
	BrandSlug    string    `json:"brand_slug,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type OrderItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       Numeric `json:"price"`
	Category    string  `json:"category,omitempty"`
}

type Order struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Total     Numeric     `json:"total"`
	CreatedAt *time.Time  `json:"created_at"`
	Date      *time.Time  `json:"date"` // fallback date field on some order payloads
	Items     []OrderItem `json:"items_details"`
}

// PlacedAt resolves the order's date, preferring created_at.
func (o Order) PlacedAt() (time.Time, bool) {
	if o.CreatedAt != nil {
		return *o.CreatedAt, true
	}
	if o.Date != nil {
		return *o.Date, true
	}
	return time.Time{}, false
}

type TrackingEvent struct {
	Status      string     `json:"status"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Timestamp   *time.Time `json:"timestamp"`
}

type Installment struct {
	Number  int        `json:"number"`
	Status  string     `json:"status"` // pending | paid
	Amount  Numeric    `json:"amount"`
	DueDate *time.Time `json:"due_date"`
}

type EMIRecord struct {
	ID                 string        `json:"id"`
	OrderID            string        `json:"order_id"`
	PrincipalAmount    Numeric       `json:"principal_amount"`
	TenureMonths       int           `json:"tenure_months"`
	MonthlyInstallment Numeric       `json:"monthly_installment"`
	InstallmentsPaid   int           `json:"installments_paid"`
	AmountPaid         Numeric       `json:"amount_paid"`
	RemainingAmount    Numeric       `json:"remaining_amount"`
	Installments       []Installment `json:"installments"`
}

type EMIApplication struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentRedirect is returned by payment-initiation endpoints. A missing
// redirect URL means the backend settled the payment without a gateway hop.
type PaymentRedirect struct {
	RedirectURL string `json:"redirect_url,omitempty"`
}

type Review struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ReviewSummary struct {
	AverageRating      float64        `json:"average_rating"`
	TotalReviews       int            `json:"total_reviews"`
	RatingDistribution map[string]int `json:"rating_distribution"`
}

type ReviewInput struct {
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
}

// DashboardAnalytics is the precomputed payload from the dedicated analytics
// endpoint, when the backend has one for the requested scope.
type DashboardAnalytics struct {
	MonthlyRevenue       []Numeric          `json:"monthly_revenue"`
	TopProducts          []AnalyticsProduct `json:"top_products"`
	TotalRevenue         Numeric            `json:"total_revenue"`
	TotalOrders          int                `json:"total_orders"`
	RevenueGrowthPercent float64            `json:"revenue_growth_percent"`
}

type AnalyticsProduct struct {
	Name          string  `json:"name"`
	Units         int     `json:"units"`
	Revenue       Numeric `json:"revenue"`
	GrowthPercent float64 `json:"growth_percent"`
}

type LoginResponse struct {
	Token string `json:"token"`
}
