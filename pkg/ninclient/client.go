/**
 * @description
 * This package provides a client for the national identity number (NIN)
 * lookup API used during account registration. It encapsulates the logic for
 * making authenticated HTTP requests, handling response parsing, and mapping
 * failure modes into typed errors the ledger engine can act on: a NIN the
 * registry does not know is ErrIdentityNotFound, everything else is a
 * transport error.
 *
 * @dependencies
 * - context, encoding/json, errors, fmt, io, net/http, net/url, time: Standard Go libraries.
 */
package ninclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrIdentityNotFound is returned when the registry has no record for the
// requested identity number.
var ErrIdentityNotFound = errors.New("identity number not found")

// VerifiedIdentity is the registrant detail returned by a successful lookup.
type VerifiedIdentity struct {
	NIN  string `json:"NIN"`
	Name string `json:"name"`
}

// Client is a client for the NIN lookup API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new NIN API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Verify looks up a national identity number and returns the verified
// registrant details. The caller's context bounds the request; a timeout here
// must leave no ledger state behind, which holds because account creation only
// happens after Verify returns successfully.
func (c *Client) Verify(ctx context.Context, nin string) (*VerifiedIdentity, error) {
	endpoint := fmt.Sprintf("%s/nimc/%s", c.BaseURL, url.PathEscape(nin))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute verification request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read verification response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrIdentityNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("nin api returned status %d", resp.StatusCode)
	}

	var identity VerifiedIdentity
	if err := json.Unmarshal(body, &identity); err != nil {
		return nil, fmt.Errorf("failed to decode verification response: %w", err)
	}
	if identity.NIN == "" {
		// Some registry deployments omit the NIN field and echo only the
		// registrant details; fall back to the number we looked up.
		identity.NIN = nin
	}
	return &identity, nil
}
