package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTokenRoundTrip(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	token, err := CreateToken(42)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/devices", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	id, err := ExtractTokenID(req)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	fromQuery := httptest.NewRequest(http.MethodGet, "/api/v1/devices?token="+token, nil)
	id, err = ExtractTokenID(fromQuery)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestExtractTokenID_Rejects(t *testing.T) {
	t.Setenv("API_SECRET", "test-secret")

	missing := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := ExtractTokenID(missing)
	assert.Error(t, err)

	garbage := httptest.NewRequest(http.MethodGet, "/", nil)
	garbage.Header.Set("Authorization", "Bearer not-a-jwt")
	_, err = ExtractTokenID(garbage)
	assert.Error(t, err)

	token, err := CreateToken(7)
	require.NoError(t, err)
	t.Setenv("API_SECRET", "rotated")
	stale := httptest.NewRequest(http.MethodGet, "/", nil)
	stale.Header.Set("Authorization", "Bearer "+token)
	_, err = ExtractTokenID(stale)
	assert.Error(t, err)
}

func TestCreateToken_RequiresSecret(t *testing.T) {
	t.Setenv("API_SECRET", "")
	_, err := CreateToken(1)
	assert.ErrorIs(t, err, errMissingSecret)
}
