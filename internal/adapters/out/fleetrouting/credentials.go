package fleetrouting

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"fooddrop/internal/pkg/errs"
)

// expirySkew is how long before the reported expiry a cached token is
// treated as stale, so a token is never used in the last moments of its
// lifetime.
const expirySkew = 30 * time.Second

// TokenSource supplies bearer tokens for the fleet-routing service.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Credentials fetches bearer tokens from a token endpoint using the
// client-credentials grant and caches them until expiry. Safe for
// concurrent use: worker goroutines share one instance.
type Credentials struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewCredentials creates a Credentials source for the given token
// endpoint.
func NewCredentials(tokenURL string, clientID string, clientSecret string) (*Credentials, error) {
	if tokenURL == "" {
		return nil, errs.NewValueIsRequiredError("tokenURL")
	}
	if clientID == "" {
		return nil, errs.NewValueIsRequiredError("clientID")
	}
	if clientSecret == "" {
		return nil, errs.NewValueIsRequiredError("clientSecret")
	}

	return &Credentials{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Token returns a valid bearer token, fetching a fresh one only when the
// cached token is missing or about to expire.
func (c *Credentials) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiresAt.Add(-expirySkew)) {
		return c.token, nil
	}

	token, expiresAt, err := c.fetch(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = expiresAt
	return c.token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Credentials) fetch(ctx context.Context) (string, time.Time, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", time.Time{}, errs.NewExternalServiceErrorWithCause("token endpoint", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", time.Time{}, errs.NewExternalServiceError("token endpoint",
			resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", time.Time{}, errs.NewExternalServiceErrorWithCause("token endpoint",
			fmt.Errorf("decode token response: %w", err))
	}
	if decoded.AccessToken == "" {
		return "", time.Time{}, errs.NewExternalServiceErrorWithCause("token endpoint",
			fmt.Errorf("token response has no access_token"))
	}

	return decoded.AccessToken, time.Now().Add(time.Duration(decoded.ExpiresIn) * time.Second), nil
}
