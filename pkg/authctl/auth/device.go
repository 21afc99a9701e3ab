package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Endpoint paths relative to the auth server base URL.
const (
	deviceCodePath  = "/api/auth/device/code"
	deviceTokenPath = "/api/auth/device/token"
)

const defaultPollInterval = 5 * time.Second

// DeviceAuthorization is the response from the device authorization
// endpoint. The device code is exchanged at the token endpoint and must
// never be shown to the user or logged; only the user code and the
// verification URIs are user-visible.
type DeviceAuthorization struct {
	DeviceCode              string `json:"device_code"`
	UserCode                string `json:"user_code"`
	VerificationURI         string `json:"verification_uri"`
	VerificationURIComplete string `json:"verification_uri_complete,omitempty"`
	ExpiresIn               int    `json:"expires_in"`
	Interval                int    `json:"interval,omitempty"`
}

// PollInterval returns the provider-requested minimum interval between
// token exchanges, defaulting to 5 seconds when the provider omits it.
func (d *DeviceAuthorization) PollInterval() time.Duration {
	if d.Interval <= 0 {
		return defaultPollInterval
	}
	return time.Duration(d.Interval) * time.Second
}

// Deadline returns the absolute time at which the device code becomes
// invalid, or the zero time if the provider reported no lifetime.
func (d *DeviceAuthorization) Deadline(now time.Time) time.Time {
	if d.ExpiresIn <= 0 {
		return time.Time{}
	}
	return now.Add(time.Duration(d.ExpiresIn) * time.Second)
}

// VerificationURL returns the URL to open in a browser, preferring the
// variant that pre-fills the user code.
func (d *DeviceAuthorization) VerificationURL() string {
	if d.VerificationURIComplete != "" {
		return d.VerificationURIComplete
	}
	return d.VerificationURI
}

// EndpointURLs derives the device authorization and token endpoint URLs
// from the auth server base URL.
func EndpointURLs(serverURL string) (codeURL, tokenURL string, err error) {
	parsed, err := url.Parse(serverURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid server URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", "", fmt.Errorf("invalid server URL: %s", serverURL)
	}
	base := strings.TrimRight(parsed.String(), "/")
	return base + deviceCodePath, base + deviceTokenPath, nil
}

// Initiator requests a device authorization from the provider's device
// code endpoint. A failed request fails the login immediately and is
// never retried.
type Initiator struct {
	Client   *http.Client
	Endpoint string
	ClientID string
}

// RequestAuthorization performs the single device code request.
// Provider-reported errors come back as *ProviderError; anything else
// is a transport failure.
func (i *Initiator) RequestAuthorization(ctx context.Context, scope string) (*DeviceAuthorization, error) {
	if i.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	client := i.Client
	if client == nil {
		client = http.DefaultClient
	}

	values := url.Values{}
	values.Set("client_id", i.ClientID)
	if scope != "" {
		values.Set("scope", scope)
	}
	resp, err := postForm(ctx, client, i.Endpoint, values)
	if err != nil {
		return nil, fmt.Errorf("device authorization request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return nil, decodeProviderError(resp)
	}
	var payload DeviceAuthorization
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("malformed device authorization response: %w", err)
	}
	if payload.DeviceCode == "" || payload.UserCode == "" {
		return nil, errors.New("malformed device authorization response: missing device_code or user_code")
	}
	return &payload, nil
}

func postForm(ctx context.Context, client *http.Client, endpoint string, values url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return client.Do(req)
}

func decodeProviderError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &ProviderError{Code: payload.Error, Description: payload.ErrorDescription}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("device authorization failed: %s", msg)
}
