package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vendio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProfile_Username(t *testing.T) {
	s, app := newTestServer(t)
	alice := seedCreator(t, s, "alice", walletAlice)
	seedCreator(t, s, "bob", walletBob)

	t.Run("rename persists", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, alice, http.MethodPut, "/api/users/me", map[string]any{
			"username": "alice_v2",
		}), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.User
		decodeBody(t, resp, &updated)
		assert.Equal(t, "alice_v2", updated.Username)

		var stored models.User
		require.NoError(t, s.db.First(&stored, alice.ID).Error)
		assert.Equal(t, "alice_v2", stored.Username)
	})

	t.Run("rename keeps the bio slug", func(t *testing.T) {
		var bio models.LinkInBio
		require.NoError(t, s.db.Where("user_id = ?", alice.ID).First(&bio).Error)
		assert.Equal(t, "alice", bio.Slug, "shared /bio links must survive a rename")
	})

	t.Run("malformed username", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, alice, http.MethodPut, "/api/users/me", map[string]any{
			"username": "no spaces!",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
	})

	t.Run("taken username", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, alice, http.MethodPut, "/api/users/me", map[string]any{
			"username": "bob",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "CONFLICT", body.Code)
	})

	t.Run("own username is a no-op", func(t *testing.T) {
		resp, err := app.Test(authedRequest(t, s, alice, http.MethodPut, "/api/users/me", map[string]any{
			"username": "alice_v2",
		}), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestPublicBio_RawUsernameResolves(t *testing.T) {
	s, app := newTestServer(t)
	seedCreator(t, s, "Ada_X", walletAlice)

	// The bio slug is derived from the username at signup.
	var bio models.LinkInBio
	require.NoError(t, s.db.Where("slug = ?", "ada-x").First(&bio).Error)

	// Clients link /bio/<username> verbatim; the lookup must normalize.
	for _, path := range []string{"/api/bio/Ada_X", "/api/bio/ada-x"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)

		var public models.LinkInBio
		decodeBody(t, resp, &public)
		assert.Equal(t, "ada-x", public.Slug)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/bio/nobody-here", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
