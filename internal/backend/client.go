// Package backend is the typed REST client for the commerce backend. All
// authoritative state (inventory, pricing, payments, EMI ledger, reviews)
// lives behind this API; the gateway only derives view state from it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrNotFound     = errors.New("backend: not found")
	ErrUnauthorized = errors.New("backend: unauthorized")
	ErrBadGateway   = errors.New("backend: upstream failure")
)

type tokenKey struct{}

// WithToken attaches a bearer token to the context for outgoing calls.
// An absent token means the request goes out unauthenticated and the backend
// decides whether to reject it.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom returns the bearer token attached to ctx, if any.
func TokenFrom(ctx context.Context) string {
	tok, _ := ctx.Value(tokenKey{}).(string)
	return tok
}

type Client struct {
	HTTP    *http.Client
	BaseURL string

	// OnUnauthorized runs once per 401 response so the session layer can
	// revoke the stale token. Invalidation is idempotent on that side.
	OnUnauthorized func(ctx context.Context)
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var rdr *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(raw)
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := TokenFrom(ctx); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadGateway, method, path, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK || res.StatusCode == http.StatusCreated:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	case res.StatusCode == http.StatusNoContent:
		return nil
	case res.StatusCode == http.StatusUnauthorized:
		if c.OnUnauthorized != nil {
			c.OnUnauthorized(ctx)
		}
		return ErrUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case res.StatusCode >= 500:
		return fmt.Errorf("%w: %s %s: %s", ErrBadGateway, method, path, res.Status)
	default:
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		if apiErr.Error != "" {
			return fmt.Errorf("backend: %s %s: %s", method, path, apiErr.Error)
		}
		return fmt.Errorf("backend: %s %s: %s", method, path, res.Status)
	}
}

// getPage fetches a paginated envelope and validates its shape: an envelope
// claiming results it does not carry is an error, not something to guess
// around.
func getPage[T any](ctx context.Context, c *Client, path string, query url.Values) (*Page[T], error) {
	var page Page[T]
	if err := c.do(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		return nil, err
	}
	if page.Results == nil && page.Count > 0 {
		return nil, fmt.Errorf("backend: %s: malformed page envelope (count=%d, no results)", path, page.Count)
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return &page, nil
}

// ListProducts queries the product listing with the storefront's filters
// already encoded (category_slug / brand__slug are independent AND filters).
func (c *Client) ListProducts(ctx context.Context, query url.Values) (*Page[Product], error) {
	return getPage[Product](ctx, c, "/products/products/", query)
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	if err := c.do(ctx, http.MethodGet, "/products/products/"+id+"/", nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) ListOrders(ctx context.Context, page int) (*Page[Order], error) {
	v := url.Values{}
	if page < 1 {
		page = 1
	}
	v.Set("page", fmt.Sprint(page))
	return getPage[Order](ctx, c, "/api/orders/", v)
}

func (c *Client) OrderTracking(ctx context.Context, orderID string) ([]TrackingEvent, error) {
	var out struct {
		TrackingEvents []TrackingEvent `json:"tracking_events"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+orderID+"/tracking/", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.TrackingEvents, nil
}

func (c *Client) ListEMIApplications(ctx context.Context) (*Page[EMIApplication], error) {
	return getPage[EMIApplication](ctx, c, "/api/emi/applications/", nil)
}

func (c *Client) ListEMIRecords(ctx context.Context) (*Page[EMIRecord], error) {
	return getPage[EMIRecord](ctx, c, "/api/emi/records/", nil)
}

func (c *Client) GetEMIRecord(ctx context.Context, id string) (*EMIRecord, error) {
	var rec EMIRecord
	if err := c.do(ctx, http.MethodGet, "/api/emi/records/"+id+"/", nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// PayInstallment initiates payment of a single installment. A returned
// redirect URL sends the user to the external payment gateway; that
// navigation is terminal once taken.
func (c *Client) PayInstallment(ctx context.Context, recordID string, installment int) (*PaymentRedirect, error) {
	body := map[string]int{"installment_number": installment}
	var out PaymentRedirect
	if err := c.do(ctx, http.MethodPost, "/api/emi/records/"+recordID+"/pay-installment/", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InitiateFullPayment forwards the order id and the record's remaining amount.
// The backend derives the payable sum itself and is authoritative; the amount
// here is a hint it may ignore.
func (c *Client) InitiateFullPayment(ctx context.Context, recordID, orderID string, remaining Numeric) (*PaymentRedirect, error) {
	body := map[string]any{
		"order_id":         orderID,
		"remaining_amount": remaining,
	}
	var out PaymentRedirect
	if err := c.do(ctx, http.MethodPost, "/api/emi/records/"+recordID+"/initiate-full-payment/", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListReviews(ctx context.Context, productID string, page, pageSize int, ordering string) (*Page[Review], error) {
	v := url.Values{}
	v.Set("product", productID)
	if page < 1 {
		page = 1
	}
	v.Set("page", fmt.Sprint(page))
	if pageSize > 0 {
		v.Set("page_size", fmt.Sprint(pageSize))
	}
	if ordering != "" {
		v.Set("ordering", ordering)
	}
	return getPage[Review](ctx, c, "/api/reviews/reviews/", v)
}

func (c *Client) ReviewSummary(ctx context.Context, productID string) (*ReviewSummary, error) {
	v := url.Values{}
	v.Set("product", productID)
	var s ReviewSummary
	if err := c.do(ctx, http.MethodGet, "/api/reviews/reviews/summary/", v, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) SubmitReview(ctx context.Context, in ReviewInput) (*Review, error) {
	var rev Review
	if err := c.do(ctx, http.MethodPost, "/api/reviews/reviews/", nil, in, &rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (c *Client) VoteReview(ctx context.Context, reviewID string, helpful bool) error {
	body := map[string]bool{"helpful": helpful}
	return c.do(ctx, http.MethodPost, "/api/reviews/reviews/"+reviewID+"/vote/", nil, body, nil)
}

// DashboardAnalytics hits the dedicated analytics endpoint. A payload without
// exactly 12 monthly slots counts as malformed, which the orchestrator treats
// the same as a fetch failure.
func (c *Client) DashboardAnalytics(ctx context.Context, period string) (*DashboardAnalytics, error) {
	v := url.Values{}
	if period != "" {
		v.Set("period", period)
	}
	var out DashboardAnalytics
	if err := c.do(ctx, http.MethodGet, "/api/analytics/dashboard/", v, nil, &out); err != nil {
		return nil, err
	}
	if len(out.MonthlyRevenue) != 12 {
		return nil, fmt.Errorf("backend: analytics payload malformed: %d monthly slots", len(out.MonthlyRevenue))
	}
	return &out, nil
}

// Login proxies credentials to the backend and returns the issued token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login/", nil, body, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("backend: login response missing token")
	}
	return out.Token, nil
}
