package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mealmind-inc/mealmind-engine/pkg/apperrors"
)

func TestSearchRequiresCredential(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client := NewClient(&Config{Endpoint: server.URL, Region: "AU"}, zap.NewNop())
	_, err := client.Search(context.Background(), "big mac calories")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoSearchCredential))
	assert.False(t, called, "no network call may happen without a credential")
}

func TestSearchSendsTokenAndParams(t *testing.T) {
	var gotToken, gotQuery, gotCountry, gotCount string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Subscription-Token")
		gotQuery = r.URL.Query().Get("q")
		gotCountry = r.URL.Query().Get("country")
		gotCount = r.URL.Query().Get("count")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"web":{"results":[{"title":"Big Mac","url":"https://mcdonalds.com.au/menu/big-mac","description":"563 cal","extra_snippets":["Protein 25g"]}]}}`))
	}))
	defer server.Close()

	client := NewClient(&Config{Endpoint: server.URL, APIKey: "token", Region: "AU", ResultCount: 3}, zap.NewNop())
	results, err := client.Search(context.Background(), "big mac calories")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "token", gotToken)
	assert.Equal(t, "big mac calories", gotQuery)
	assert.Equal(t, "AU", gotCountry)
	assert.Equal(t, "3", gotCount)
	assert.Equal(t, "Big Mac", results[0].Title)
	assert.Equal(t, []string{"Protein 25g"}, results[0].ExtraSnippets)
}

func TestSearchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(&Config{Endpoint: server.URL, APIKey: "token", Region: "AU"}, zap.NewNop())
	_, err := client.Search(context.Background(), "big mac")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSearchUpstream))
}

func TestSearchEmptyResultsIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"web":{"results":[]}}`))
	}))
	defer server.Close()

	client := NewClient(&Config{Endpoint: server.URL, APIKey: "token", Region: "AU"}, zap.NewNop())
	results, err := client.Search(context.Background(), "qzxv")

	require.NoError(t, err)
	assert.Empty(t, results)
}
