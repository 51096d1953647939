package fleetrouting_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"fooddrop/internal/adapters/out/fleetrouting"
	"fooddrop/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCredentials(t *testing.T, tokenURL string) *fleetrouting.Credentials {
	t.Helper()
	credentials, err := fleetrouting.NewCredentials(tokenURL, "client-id", "client-secret")
	require.NoError(t, err)
	return credentials
}

func TestNewCredentials_RequiresArguments(t *testing.T) {
	_, err := fleetrouting.NewCredentials("", "id", "secret")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = fleetrouting.NewCredentials("http://example.com/token", "", "secret")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = fleetrouting.NewCredentials("http://example.com/token", "id", "")
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestToken_FetchesAndCaches(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.FormValue("grant_type"))
		assert.Equal(t, "client-id", r.FormValue("client_id"))
		assert.Equal(t, "client-secret", r.FormValue("client_secret"))

		fmt.Fprint(w, `{"access_token": "abc123", "expires_in": 3600}`)
	}))
	defer server.Close()

	credentials := newCredentials(t, server.URL)

	token, err := credentials.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	token, err = credentials.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	assert.Equal(t, int32(1), calls.Load())
}

func TestToken_RefetchesWhenExpired(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		// expires_in below the refresh skew, so the token is stale immediately
		fmt.Fprintf(w, `{"access_token": "token-%d", "expires_in": 1}`, n)
	}))
	defer server.Close()

	credentials := newCredentials(t, server.URL)

	token, err := credentials.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", token)

	token, err = credentials.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-2", token)
}

func TestToken_SingleFetchAcrossGoroutines(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"access_token": "shared", "expires_in": 3600}`)
	}))
	defer server.Close()

	credentials := newCredentials(t, server.URL)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := credentials.Token(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "shared", token)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
}

func TestToken_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_client", http.StatusUnauthorized)
	}))
	defer server.Close()

	credentials := newCredentials(t, server.URL)

	_, err := credentials.Token(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrExternalService)
	assert.Contains(t, err.Error(), "401")
}

func TestToken_MissingAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"expires_in": 3600}`)
	}))
	defer server.Close()

	credentials := newCredentials(t, server.URL)

	_, err := credentials.Token(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrExternalService)
}
