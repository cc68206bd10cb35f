// Package api is the credentialed transport for the Casier backend. Every
// call carries the shared application token; a 401 triggers exactly one
// token reload and one retry before the failure is surfaced.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is used when the launching shell does not inject one.
const DefaultBaseURL = "https://api-tonnas.synology.me:8443"

var ErrNoToken = errors.New("api: backend returned no token")

// Client talks to the backend with the shared app token attached. The token
// is process-wide: the client is the single writer, everything else only
// sends requests through it.
type Client struct {
	base   string
	http   *http.Client
	log    *zap.Logger
	pcName string

	mu      sync.Mutex
	token   string
	loading chan struct{}
	loadErr error
}

// New builds a Client for the given base URL. An empty base falls back to
// DefaultBaseURL. pcName is attached to writes as X-Client-PC for the
// backend's audit log.
func New(base string, log *zap.Logger, pcName string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: 30 * time.Second},
		log:    log,
		pcName: pcName,
	}
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string { return c.base }

// SetHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

// Token returns the current credential, which may be empty before the first
// load.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// ensureToken returns the current token, loading it first when absent. At
// most one load is in flight; concurrent callers wait for the same load
// instead of issuing duplicate /token requests.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	for {
		if c.token != "" {
			tok := c.token
			c.mu.Unlock()
			return tok, nil
		}
		if c.loading == nil {
			break
		}
		ch := c.loading
		c.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return "", ctx.Err()
		}
		c.mu.Lock()
		if c.token == "" && c.loading == nil {
			// The shared load finished without a token; surface its error.
			err := c.loadErr
			c.mu.Unlock()
			if err == nil {
				err = ErrNoToken
			}
			return "", err
		}
	}

	ch := make(chan struct{})
	c.loading = ch
	c.mu.Unlock()

	tok, err := c.fetchToken(ctx)

	c.mu.Lock()
	c.loading = nil
	c.loadErr = err
	if err == nil {
		c.token = tok
	}
	c.mu.Unlock()
	close(ch)

	return tok, err
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/token", nil)
	if err != nil {
		return "", fmt.Errorf("api: build token request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("api: load token: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("api: decode token: %w", err)
	}
	if payload.Token == "" {
		return "", ErrNoToken
	}
	c.log.Info("token loaded", zap.String("base", c.base))
	return payload.Token, nil
}

// invalidate drops the credential, but only if it is still the one the
// failed request used. A concurrent reload may already have replaced it.
func (c *Client) invalidate(used string) {
	c.mu.Lock()
	if c.token == used {
		c.token = ""
	}
	c.mu.Unlock()
}

// Get issues an authenticated GET and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPut, path, body, out)
}

// call runs one logical API call: one request, and on a 401 exactly one
// token reload followed by one retry. A second 401 propagates to the caller.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	tok, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}
	err = c.request(ctx, method, path, body, out, tok)
	var apiErr *Error
	if !errors.As(err, &apiErr) || !apiErr.Unauthorized() {
		return err
	}

	// Token invalid or backend restarted: reload once and retry once.
	c.log.Warn("token rejected, reloading", zap.String("path", path))
	c.invalidate(tok)
	tok, lerr := c.ensureToken(ctx)
	if lerr != nil {
		return lerr
	}
	return c.request(ctx, method, path, body, out, tok)
}

func (c *Client) request(ctx context.Context, method, path string, body, out any, token string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("X-App-Token", token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.Header.Set("Cache-Control", "no-store")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet && c.pcName != "" {
		req.Header.Set("X-Client-PC", c.pcName)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read response: %w", err)
	}

	// The backend always answers JSON with an ok flag; ok:false is a failure
	// even on a 200.
	var env struct {
		OK  *bool  `json:"ok"`
		Err string `json:"error"`
	}
	_ = json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (env.OK != nil && !*env.OK) {
		apiErr := &Error{Status: resp.StatusCode, Msg: env.Err}
		if apiErr.Msg == "" {
			apiErr.Msg = fmt.Sprintf("%s %s failed", method, path)
		}
		_ = json.Unmarshal(raw, &apiErr.Body)
		c.log.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("error", env.Err))
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}
