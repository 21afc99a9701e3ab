package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// slowDownIncrement is added to the polling interval every time the
// provider answers slow_down. Increments are cumulative for the
// lifetime of one polling session; the interval never decreases.
const slowDownIncrement = 5 * time.Second

type pollState int

const (
	statePending pollState = iota
	stateSlowDown
	stateSuccess
	stateDenied
	stateExpired
	stateFatal
)

// pollResult is the tagged outcome of a single token exchange attempt.
// The driving loop in Wait makes the sleep/continue/stop decision based
// on the state alone.
type pollResult struct {
	state pollState
	token *TokenResponse
	err   error
}

// Poller exchanges a device code for a token, waiting out the
// authorization grant that completes out-of-band in the user's browser.
// The loop is driven purely by provider signals, never by a client-side
// attempt counter: the protocol defines recoverability per error code.
type Poller struct {
	Client   *http.Client
	TokenURL string
	ClientID string

	// Progress, when set, is called once per exchange attempt before
	// the request is issued. Display only; it must not block.
	Progress func(attempt int)

	Logger *zap.Logger

	// sleep is replaced in tests to observe interval decisions.
	sleep func(ctx context.Context, d time.Duration) error
}

// Wait polls the token endpoint until the grant reaches a terminal
// state. Each iteration sleeps for the current interval first; the
// provider guarantees no grant can exist before one interval has
// elapsed. Returns the raw token response on success, ErrAccessDenied
// or ErrDeviceCodeExpired on the expected negative outcomes, the
// context error on cancellation, and anything else as a fatal failure.
func (p *Poller) Wait(ctx context.Context, deviceCode string, interval time.Duration, deadline time.Time) (*TokenResponse, error) {
	if p.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if deviceCode == "" {
		return nil, errors.New("device code is required")
	}
	if interval <= 0 {
		interval = defaultPollInterval
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for attempt := 1; ; attempt++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return nil, ErrDeviceCodeExpired
		}
		if err := sleep(ctx, interval); err != nil {
			return nil, err
		}
		if p.Progress != nil {
			p.Progress(attempt)
		}
		res := p.exchange(ctx, deviceCode)
		switch res.state {
		case stateSuccess:
			logger.Debug("device grant approved", zap.Int("attempts", attempt))
			return res.token, nil
		case statePending:
			logger.Debug("authorization pending",
				zap.Int("attempt", attempt), zap.Duration("interval", interval))
		case stateSlowDown:
			interval += slowDownIncrement
			logger.Debug("provider requested slow down",
				zap.Int("attempt", attempt), zap.Duration("interval", interval))
		case stateDenied:
			return nil, ErrAccessDenied
		case stateExpired:
			return nil, ErrDeviceCodeExpired
		default:
			return nil, res.err
		}
	}
}

// exchange performs one token endpoint request and classifies the
// response. Transport failures and unrecognized provider errors are
// fatal: retrying an error the protocol does not define as recoverable
// risks an infinite loop against a misbehaving endpoint.
func (p *Poller) exchange(ctx context.Context, deviceCode string) pollResult {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	values := url.Values{}
	values.Set("grant_type", "urn:ietf:params:oauth:grant-type:device_code")
	values.Set("device_code", deviceCode)
	values.Set("client_id", p.ClientID)

	resp, err := postForm(ctx, client, p.TokenURL, values)
	if err != nil {
		return pollResult{state: stateFatal, err: fmt.Errorf("token exchange failed: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var payload TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return pollResult{state: stateFatal, err: fmt.Errorf("malformed token response: %w", err)}
	}
	if payload.Error != "" {
		switch payload.Error {
		case errCodeAuthorizationPending:
			return pollResult{state: statePending}
		case errCodeSlowDown:
			return pollResult{state: stateSlowDown}
		case errCodeAccessDenied:
			return pollResult{state: stateDenied}
		case errCodeExpiredToken:
			return pollResult{state: stateExpired}
		default:
			return pollResult{state: stateFatal, err: &ProviderError{
				Code:        payload.Error,
				Description: payload.ErrorDescription,
			}}
		}
	}
	if payload.AccessToken == "" {
		return pollResult{state: stateFatal, err: errors.New("malformed token response: missing access_token")}
	}
	return pollResult{state: stateSuccess, token: &payload}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
