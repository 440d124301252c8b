package server

import (
	"net/http"
	"testing"

	"vendio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCRUD(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)

	// Create
	resp, err := app.Test(authedRequest(t, s, alice, http.MethodPost, "/api/products", map[string]any{
		"name":        "Design Consultation",
		"description": "One hour call",
		"price":       75.0,
		"type":        models.ProductTypeService,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var product models.Product
	decodeBody(t, resp, &product)
	assert.Equal(t, "design-consultation", product.Slug)
	assert.Equal(t, "USDC", product.Currency)
	assert.True(t, product.Active)

	target := "/api/products/" + uintString(product.ID)

	// List
	listResp, err := app.Test(authedRequest(t, s, alice, http.MethodGet, "/api/products", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	var products []models.Product
	decodeBody(t, listResp, &products)
	assert.Len(t, products, 1)

	// Update
	updResp, err := app.Test(authedRequest(t, s, alice, http.MethodPut, target, map[string]any{
		"price": 90.0,
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, updResp.StatusCode)
	var updated models.Product
	decodeBody(t, updResp, &updated)
	assert.InDelta(t, 90.0, updated.Price, 1e-9)
	assert.Equal(t, "Design Consultation", updated.Name)

	// Delete
	delResp, err := app.Test(authedRequest(t, s, alice, http.MethodDelete, target, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	getResp, err := app.Test(authedRequest(t, s, alice, http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)
}

func TestProduct_Validation(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"price": 10.0, "type": models.ProductTypeProduct}},
		{"zero price", map[string]any{"name": "Thing", "price": 0, "type": models.ProductTypeProduct}},
		{"bad type", map[string]any{"name": "Thing", "price": 10.0, "type": "SUBSCRIPTION"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(authedRequest(t, s, alice, http.MethodPost, "/api/products", tt.body), -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	t.Run("bad id param", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, alice, http.MethodGet, "/api/products/zero", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestProduct_OwnershipEnforced(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)
	bob := seedCreator(t, s, "bob", walletBob)
	product := seedProductDirect(t, s, alice, "Shirt", 12.5)

	target := "/api/products/" + uintString(product.ID)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			var body map[string]any
			if method == http.MethodPut {
				body = map[string]any{"price": 1.0}
			}
			resp, err := app.Test(authedRequest(t, s, bob, method, target, body), -1)
			require.NoError(t, err)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	}

	// The product is untouched.
	var fresh models.Product
	require.NoError(t, s.db.First(&fresh, product.ID).Error)
	assert.InDelta(t, 12.5, fresh.Price, 1e-9)
}
