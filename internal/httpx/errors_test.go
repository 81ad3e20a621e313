package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gvendas/go-sales-api/internal/sales"
)

func TestWriteErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid request", fmt.Errorf("%w: qty must be >= 1", sales.ErrInvalidRequest), 400},
		{"duplicate key", fmt.Errorf("%w: customers_email_key", sales.ErrDuplicateKey), 400},
		{"not found", fmt.Errorf("%w: order x", sales.ErrNotFound), 404},
		{"insufficient stock", &sales.InsufficientStockError{ProductID: "p1", Requested: 3, Available: 1}, 400},
		{"storage failure", fmt.Errorf("%w: broken pipe", sales.ErrStorage), 500},
		{"uncategorized", errors.New("who knows"), 500},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(nil, rec, tc.err)
			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWriteErrorInsufficientStockPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(nil, rec, &sales.InsufficientStockError{ProductID: "p9", Requested: 5, Available: 2})

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "p9", body["product_id"])
	assert.Equal(t, float64(5), body["requested"])
	assert.Equal(t, float64(2), body["available"])
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(nil, rec, errors.New("password=hunter2 dial failed"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal error", body["error"])
}
