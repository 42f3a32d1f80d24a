package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// Credentials are the access credentials granted for an authorization code.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresAt    time.Time
}

// Profile carries the provider's identity fields for the granting user.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"localizedFirstName"`
	LastName  string `json:"localizedLastName"`
}

// Client exchanges authorization codes and fetches profiles over the
// provider's HTTP API.
type Client struct {
	conf       *oauth2.Config
	httpClient *http.Client
	profileURL string
	timeout    time.Duration
}

// New creates a provider client from config.
func New(cfg Config) *Client {
	endpoint := endpoints.LinkedIn
	if cfg.TokenURL != "" {
		endpoint = oauth2.Endpoint{TokenURL: cfg.TokenURL}
	}
	// LinkedIn expects client credentials form-encoded in the request body.
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	return &Client{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
		},
		httpClient: &http.Client{Timeout: cfg.Timeout},
		profileURL: cfg.ProfileURL,
		timeout:    cfg.Timeout,
	}
}

// ExchangeCode posts the authorization code to the token endpoint and
// returns the granted credentials.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Credentials, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.conf.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return nil, &ProviderError{Status: rerr.Response.StatusCode, Body: string(rerr.Body)}
		}
		return nil, errors.Join(ErrNetwork, err)
	}

	scope, _ := tok.Extra("scope").(string)

	return &Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scope:        scope,
		ExpiresAt:    tok.Expiry,
	}, nil
}

// FetchProfile retrieves the provider profile for the given access token.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return nil, errors.Join(ErrProfileFetch, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrProfileFetch, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", ErrProfileFetch, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, errors.Join(ErrProfileFetch, err)
	}
	return &profile, nil
}
