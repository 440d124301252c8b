package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vendio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckoutFlow(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)
	shirt := seedProductDirect(t, s, alice, "Shirt", 12.5)
	sticker := seedProductDirect(t, s, alice, "Sticker", 4)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/checkout", map[string]any{
		"items": []map[string]any{
			{"product_id": shirt.ID, "quantity": 2},
			{"product_id": sticker.ID},
		},
		"buyer":        map[string]any{"name": "Guest", "email": "guest@example.com"},
		"payment_hash": "0xabc123",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	decodeBody(t, resp, &order)
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.InDelta(t, 29.0, order.TotalAmount, 1e-9)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.Len(t, order.Items, 2)

	// The seller sees the order on the dashboard list.
	listResp, err := app.Test(authedRequest(t, s, alice, http.MethodGet, "/api/orders", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, listResp.StatusCode)

	var list struct {
		Orders []models.Order `json:"orders"`
		Total  int64          `json:"total"`
	}
	decodeBody(t, listResp, &list)
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, order.OrderNumber, list.Orders[0].OrderNumber)
}

func TestCheckout_Validation(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)
	shirt := seedProductDirect(t, s, alice, "Shirt", 12.5)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"empty cart", map[string]any{
			"items": []map[string]any{},
			"buyer": map[string]any{"name": "G", "email": "g@example.com"},
		}, http.StatusBadRequest},
		{"missing buyer identity", map[string]any{
			"items": []map[string]any{{"product_id": shirt.ID}},
			"buyer": map[string]any{},
		}, http.StatusBadRequest},
		{"unknown product", map[string]any{
			"items": []map[string]any{{"product_id": 9999}},
			"buyer": map[string]any{"name": "G", "email": "g@example.com"},
		}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/checkout", tt.body), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestPaymentLifecycle(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)
	shirt := seedProductDirect(t, s, alice, "Shirt", 12.5)

	// 1. Start a pending payment.
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/payments", map[string]any{
		"product_id": shirt.ID,
		"quantity":   2,
		"buyer":      map[string]any{"wallet_address": walletBob},
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Order     models.Order `json:"order"`
		Recipient string       `json:"recipient"`
		Network   string       `json:"network"`
	}
	decodeBody(t, resp, &created)
	assert.Equal(t, models.OrderStatusPending, created.Order.Status)
	assert.Empty(t, created.Order.PaymentHash)
	assert.True(t, strings.HasPrefix(created.Order.OrderNumber, "PAY-"))
	assert.Equal(t, "base-sepolia", created.Network)
	assert.NotEmpty(t, created.Recipient)

	// 2. Callback confirms the payment.
	cbResp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/payment-callback", map[string]any{
		"order_number": created.Order.OrderNumber,
		"payment_hash": "0xdeadbeef",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, cbResp.StatusCode)

	var confirmed models.Order
	decodeBody(t, cbResp, &confirmed)
	assert.Equal(t, models.OrderStatusCompleted, confirmed.Status)
	assert.Equal(t, "0xdeadbeef", confirmed.PaymentHash)

	// 3. Replay with the same hash is idempotent.
	replayResp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/payment-callback", map[string]any{
		"order_number": created.Order.OrderNumber,
		"payment_hash": "0xdeadbeef",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, replayResp.StatusCode)

	// 4. A different hash for a settled order conflicts.
	conflictResp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/payment-callback", map[string]any{
		"order_number": created.Order.OrderNumber,
		"payment_hash": "0xother",
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, conflictResp.StatusCode)

	// 5. Status lookup by hash.
	getResp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/payments?id=0xdeadbeef", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)

	var fetched models.Order
	decodeBody(t, getResp, &fetched)
	assert.Equal(t, created.Order.OrderNumber, fetched.OrderNumber)

	t.Run("missing hash", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/payments", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown hash", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/payments?id=0xmissing", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateOrderStatus_Ownership(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)
	bob := seedCreator(t, s, "bob", walletBob)
	shirt := seedProductDirect(t, s, alice, "Shirt", 12.5)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/payments", map[string]any{
		"product_id": shirt.ID,
		"buyer":      map[string]any{"name": "G", "email": "g@example.com"},
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		Order models.Order `json:"order"`
	}
	decodeBody(t, resp, &created)
	target := "/api/orders/" + uintString(created.Order.ID) + "/status"

	t.Run("non-owner forbidden", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, bob, http.MethodPut, target, map[string]any{
			"status": models.OrderStatusCancelled,
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner cancels pending order", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, alice, http.MethodPut, target, map[string]any{
			"status": models.OrderStatusCancelled,
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var order models.Order
		decodeBody(t, resp, &order)
		assert.Equal(t, models.OrderStatusCancelled, order.Status)
	})

	t.Run("cancelled order cannot complete", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, alice, http.MethodPut, target, map[string]any{
			"status": models.OrderStatusCompleted,
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}

func TestAdminOrderRefund(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)
	shirt := seedProductDirect(t, s, alice, "Shirt", 12.5)

	admin := seedCreator(t, s, "operator", "0xDE709F2102306220921060314715629080E2FB77")
	require.NoError(t, s.db.Model(&models.User{}).
		Where("id = ?", admin.ID).
		Update("role", models.RoleAdmin).Error)
	admin.Role = models.RoleAdmin

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/checkout", map[string]any{
		"items":        []map[string]any{{"product_id": shirt.ID}},
		"buyer":        map[string]any{"name": "G", "email": "g@example.com"},
		"payment_hash": "0xabc",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var order models.Order
	decodeBody(t, resp, &order)
	target := "/api/admin/orders/" + uintString(order.ID) + "/status"

	refundResp, err := app.Test(authedRequest(t, s, admin, http.MethodPut, target, map[string]any{
		"status": models.OrderStatusRefunded,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, refundResp.StatusCode)

	var refunded models.Order
	decodeBody(t, refundResp, &refunded)
	assert.Equal(t, models.OrderStatusRefunded, refunded.Status)

	// Refunded is terminal.
	againResp, err := app.Test(authedRequest(t, s, admin, http.MethodPut, target, map[string]any{
		"status": models.OrderStatusCompleted,
	}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, againResp.StatusCode)
}
