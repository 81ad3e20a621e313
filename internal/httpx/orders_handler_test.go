package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvendas/go-sales-api/internal/sales"
)

// stubLedger / stubStore are just enough of the workflow's ports to drive
// the handler end to end through the router.
type stubLedger struct {
	price int
	stock int
}

func (s *stubLedger) Reserve(_ context.Context, productID string, qty int) (int, error) {
	if s.stock < qty {
		return 0, &sales.InsufficientStockError{ProductID: productID, Requested: qty, Available: s.stock}
	}
	s.stock -= qty
	return s.price, nil
}

func (s *stubLedger) Release(_ context.Context, _ string, qty int) error {
	s.stock += qty
	return nil
}

type stubStore struct {
	customerID string
	orders     map[string]sales.Order
	lines      map[string][]sales.OrderLine
}

func (s *stubStore) CustomerExists(_ context.Context, id string) (bool, error) {
	return id == s.customerID, nil
}

func (s *stubStore) InsertOrder(_ context.Context, o sales.Order, lines []sales.OrderLine) error {
	s.orders[o.ID] = o
	s.lines[o.ID] = lines
	return nil
}

func (s *stubStore) GetDetail(_ context.Context, orderID string) (*sales.OrderDetail, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return nil, sales.ErrNotFound
	}
	d := sales.OrderDetail{Order: o, Customer: sales.Customer{ID: o.CustomerID, Name: "Test", Email: "t@example.com"}}
	for _, ln := range s.lines[orderID] {
		d.Lines = append(d.Lines, sales.LineDetail{OrderLine: ln})
	}
	return &d, nil
}

func (s *stubStore) ListDetails(ctx context.Context) ([]sales.OrderDetail, error) {
	out := []sales.OrderDetail{}
	for id := range s.orders {
		d, _ := s.GetDetail(ctx, id)
		out = append(out, *d)
	}
	return out, nil
}

func (s *stubStore) TransitionStatus(_ context.Context, orderID string, next sales.Status, releaseStock bool) (sales.Status, error) {
	o, ok := s.orders[orderID]
	if !ok {
		return "", sales.ErrNotFound
	}
	prev := o.Status
	o.Status = next
	o.UpdatedAt = time.Now()
	s.orders[orderID] = o
	return prev, nil
}

func newTestServer() (*stubStore, *stubLedger, *httptest.Server) {
	store := &stubStore{
		customerID: "c1",
		orders:     map[string]sales.Order{},
		lines:      map[string][]sales.OrderLine{},
	}
	ledger := &stubLedger{price: 1500, stock: 10}
	wf := &sales.Workflow{Store: store, Ledger: ledger}

	router := NewRouter()
	(&OrdersHandler{Workflow: wf}).Register(router)
	return store, ledger, httptest.NewServer(router)
}

func TestOrdersHandler_CreateOrder(t *testing.T) {
	_, ledger, srv := newTestServer()
	defer srv.Close()

	body := `{"customer_id":"c1","lines":[{"product_id":"p1","qty":2}]}`
	resp, err := srv.Client().Post(srv.URL+"/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 201, resp.StatusCode)

	var d sales.OrderDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	assert.Equal(t, sales.StatusPending, d.Status)
	assert.Equal(t, 3000, d.TotalCents)
	require.Len(t, d.Lines, 1)
	assert.Equal(t, 1500, d.Lines[0].UnitPriceCents)
	assert.Equal(t, 8, ledger.stock)
}

func TestOrdersHandler_CreateOrderBadRequests(t *testing.T) {
	_, _, srv := newTestServer()
	defer srv.Close()

	cases := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{"customer_id"`, 400},
		{"no lines", `{"customer_id":"c1","lines":[]}`, 400},
		{"zero qty", `{"customer_id":"c1","lines":[{"product_id":"p1","qty":0}]}`, 400},
		{"unknown customer", `{"customer_id":"ghost","lines":[{"product_id":"p1","qty":1}]}`, 404},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := srv.Client().Post(srv.URL+"/orders", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tc.code, resp.StatusCode)
		})
	}
}

func TestOrdersHandler_InsufficientStock(t *testing.T) {
	_, ledger, srv := newTestServer()
	defer srv.Close()
	ledger.stock = 1

	body := `{"customer_id":"c1","lines":[{"product_id":"p1","qty":5}]}`
	resp, err := srv.Client().Post(srv.URL+"/orders", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 400, resp.StatusCode)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "p1", payload["product_id"])
	assert.Equal(t, 1, ledger.stock, "stock unchanged after rejection")
}

func TestOrdersHandler_UpdateStatus(t *testing.T) {
	store, _, srv := newTestServer()
	defer srv.Close()

	createBody := `{"customer_id":"c1","lines":[{"product_id":"p1","qty":1}]}`
	resp, err := srv.Client().Post(srv.URL+"/orders", "application/json", strings.NewReader(createBody))
	require.NoError(t, err)
	var d sales.OrderDetail
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&d))
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/orders/"+d.ID+"/status", strings.NewReader(`{"status":"Paid"}`))
	resp2, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	require.Equal(t, 200, resp2.StatusCode)
	assert.Equal(t, sales.StatusPaid, store.orders[d.ID].Status)

	// invalid enum value
	req3, _ := http.NewRequest(http.MethodPut, srv.URL+"/orders/"+d.ID+"/status", strings.NewReader(`{"status":"Shipped"}`))
	resp3, err := srv.Client().Do(req3)
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, 400, resp3.StatusCode)
	assert.Equal(t, sales.StatusPaid, store.orders[d.ID].Status, "order untouched on invalid status")
}

func TestOrdersHandler_GetMissingOrder(t *testing.T) {
	_, _, srv := newTestServer()
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/orders/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 404, resp.StatusCode)
}
