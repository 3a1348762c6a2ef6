package identity

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/humberto3389/Bodas-sub000/internal/pkg/env"
)

// Client talks to the external auth service that owns couple logins.
// Site purge asks it to drop the login tied to a purged site.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: env.GetEnv("AUTH_SERVICE_URL", ""),
		apiKey:  env.GetEnv("AUTH_SERVICE_API_KEY", ""),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsConfigured reports whether an auth service endpoint is set.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

// DeleteUserByEmail removes the login for the given address. A 404 from
// the auth service counts as success so repeated purges stay idempotent.
func (c *Client) DeleteUserByEmail(ctx context.Context, email string) error {
	if !c.IsConfigured() {
		log.Debugf("[Identity] no auth service configured, skipping login removal for %s", email)
		return nil
	}

	endpoint := fmt.Sprintf("%s/internal/users/%s", c.baseURL, url.PathEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build auth service request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		log.Infof("[Identity] removed login for %s", email)
		return nil
	default:
		return fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}
}
