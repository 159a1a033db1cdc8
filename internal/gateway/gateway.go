package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"autotag/internal/logging"
	"autotag/internal/services"
)

// Config describes one provider's slot in the gateway.
type Config struct {
	// Name identifies the provider in logs and error messages.
	Name string
	// BaseURL is prefixed to every request path.
	BaseURL string
	// Header is sent with every request (auth tokens, user agent).
	Header http.Header
	// MinInterval spaces consecutive requests to the provider.
	MinInterval time.Duration
	// Timeout bounds a single request attempt.
	Timeout time.Duration
	// MaxRetries caps attempts for transient failures (5xx, network).
	MaxRetries int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
	// Cooldown is how long to wait out an explicit rate-limit reply. These
	// retries are unbounded; only context cancellation stops them.
	Cooldown time.Duration
	// PreventivePause is slept after a response whose remaining-quota header
	// dropped below RemainingFloor.
	PreventivePause time.Duration
	// RemainingHeader names the provider's remaining-quota response header.
	// Empty disables preventive pausing.
	RemainingHeader string
	RemainingFloor  int

	Cache      *Cache
	Logger     *slog.Logger
	HTTPClient *http.Client
}

// Gateway serializes, paces, caches, and retries requests for one provider.
// Every provider conversation in the pipeline goes through one of these; no
// client talks HTTP directly.
type Gateway struct {
	name            string
	baseURL         string
	header          http.Header
	client          *http.Client
	limiter         *rate.Limiter
	maxRetries      int
	retryBackoff    time.Duration
	cooldown        time.Duration
	preventivePause time.Duration
	remainingHeader string
	remainingFloor  int
	cache           *Cache
	logger          *slog.Logger

	// mu keeps one request in flight per provider. Providers are independent;
	// a cooldown on one must not stall the others.
	mu sync.Mutex
}

// Request describes one provider call.
type Request struct {
	Method string
	// Path is joined to the provider base URL. An absolute URL overrides it.
	Path   string
	Query  url.Values
	Header http.Header
	Body   io.Reader
	// NoCache bypasses the response cache (token handshakes, mutations).
	NoCache bool
}

// Result is a completed provider call. A missing resource is a first-class
// answer, not an error: Found is false and no error is returned.
type Result struct {
	Found     bool
	Status    int
	Body      []byte
	FromCache bool
}

// New constructs a Gateway. Name and BaseURL are required.
func New(cfg Config) (*Gateway, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gateway", "new", "provider name is required", nil)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gateway", "new", "base URL is required", nil)
	}

	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.MinInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.MinInterval), 1)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = 2 * time.Second
	}
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = 65 * time.Second
	}

	return &Gateway{
		name:            cfg.Name,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		header:          cfg.Header,
		client:          client,
		limiter:         limiter,
		maxRetries:      maxRetries,
		retryBackoff:    retryBackoff,
		cooldown:        cooldown,
		preventivePause: cfg.PreventivePause,
		remainingHeader: cfg.RemainingHeader,
		remainingFloor:  cfg.RemainingFloor,
		cache:           cfg.Cache,
		logger:          logging.NewComponentLogger(cfg.Logger, "gateway"),
	}, nil
}

// GetJSON performs a cached GET against the provider.
func (g *Gateway) GetJSON(ctx context.Context, path string, query url.Values) (Result, error) {
	return g.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// PostForm performs an uncached form POST (token handshakes).
func (g *Gateway) PostForm(ctx context.Context, rawURL string, data url.Values, header http.Header) (Result, error) {
	if header == nil {
		header = http.Header{}
	}
	header.Set("Content-Type", "application/x-www-form-urlencoded")
	return g.Do(ctx, Request{
		Method:  http.MethodPost,
		Path:    rawURL,
		Header:  header,
		Body:    strings.NewReader(data.Encode()),
		NoCache: true,
	})
}

// Do executes req with the provider's pacing, caching, and retry policy.
func (g *Gateway) Do(ctx context.Context, req Request) (Result, error) {
	target, err := g.buildURL(req)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, g.name, "request", "build URL", err)
	}

	cacheable := !req.NoCache && (req.Method == "" || req.Method == http.MethodGet)
	if cacheable && g.cache != nil {
		status, body, ok, cacheErr := g.cache.Get(ctx, target)
		if cacheErr != nil {
			g.logger.Warn("response cache read failed", logging.String(logging.FieldProvider, g.name), logging.Error(cacheErr))
		} else if ok {
			return Result{
				Found:     status != http.StatusNotFound,
				Status:    status,
				Body:      body,
				FromCache: true,
			}, nil
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	attempt := 0
	for {
		if err := g.limiter.Wait(ctx); err != nil {
			return Result{}, services.Wrap(services.ErrTimeout, g.name, "request", "canceled while pacing", err)
		}

		result, retry, err := g.attempt(ctx, req, target, cacheable)
		if err == nil && !retry {
			return result, nil
		}
		if err != nil && !retry {
			return Result{}, err
		}

		// Rate-limit cooldowns loop forever; transient failures get a
		// bounded number of attempts with linear backoff.
		if errors.Is(err, services.ErrRateLimited) {
			if sleepErr := SleepWithContext(ctx, g.cooldown); sleepErr != nil {
				return Result{}, services.Wrap(services.ErrTimeout, g.name, "request", "canceled during cooldown", sleepErr)
			}
			continue
		}

		attempt++
		if attempt >= g.maxRetries {
			return Result{}, services.Wrap(services.ErrTransient, g.name, "request",
				fmt.Sprintf("gave up after %d attempts", attempt), err)
		}
		backoff := g.retryBackoff * time.Duration(attempt)
		g.logger.Warn("provider request failed, retrying",
			logging.String(logging.FieldProvider, g.name),
			logging.Int("attempt", attempt),
			logging.Duration("backoff", backoff),
			logging.Error(err))
		if sleepErr := SleepWithContext(ctx, backoff); sleepErr != nil {
			return Result{}, services.Wrap(services.ErrTimeout, g.name, "request", "canceled during backoff", sleepErr)
		}
	}
}

// attempt runs a single HTTP exchange. retry=true with a non-nil error asks
// the caller to try again; retry=false finalizes with whatever came back.
func (g *Gateway) attempt(ctx context.Context, req Request, target string, cacheable bool) (Result, bool, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, req.Body)
	if err != nil {
		return Result{}, false, services.Wrap(services.ErrValidation, g.name, "request", "build request", err)
	}
	for key, values := range g.header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Set(key, v)
		}
	}

	started := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		return Result{}, true, services.Wrap(services.ErrTransient, g.name, "request", "transport failure", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return Result{}, true, services.Wrap(services.ErrTransient, g.name, "request", "read response body", err)
	}

	g.logger.Debug("provider request",
		logging.String(logging.FieldProvider, g.name),
		logging.String("method", method),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", time.Since(started)))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		// Whatever was cached for this URL may have fed the burst that got
		// us limited; drop it so the retry refetches.
		if cacheable && g.cache != nil {
			if delErr := g.cache.Delete(ctx, target); delErr != nil {
				g.logger.Warn("cache invalidation failed", logging.Error(delErr))
			}
		}
		g.logger.Warn("provider rate limited, entering cooldown",
			logging.String(logging.FieldProvider, g.name),
			logging.Duration("cooldown", g.cooldown))
		return Result{}, true, services.Wrap(services.ErrRateLimited, g.name, "request", "429 received", nil)

	case resp.StatusCode == http.StatusNotFound:
		if cacheable && g.cache != nil {
			if putErr := g.cache.Put(ctx, target, resp.StatusCode, nil); putErr != nil {
				g.logger.Warn("cache write failed", logging.Error(putErr))
			}
		}
		return Result{Found: false, Status: resp.StatusCode}, false, nil

	case resp.StatusCode >= 500:
		return Result{}, true, services.Wrap(services.ErrTransient, g.name, "request",
			fmt.Sprintf("server error %d", resp.StatusCode), nil)

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Result{}, false, services.Wrap(services.ErrConfiguration, g.name, "request",
			fmt.Sprintf("credentials rejected with status %d", resp.StatusCode), nil)

	case resp.StatusCode >= 400:
		return Result{}, false, services.Wrap(services.ErrValidation, g.name, "request",
			fmt.Sprintf("request rejected with status %d", resp.StatusCode), nil)
	}

	g.observeQuota(ctx, resp)

	if cacheable && g.cache != nil {
		if putErr := g.cache.Put(ctx, target, resp.StatusCode, body); putErr != nil {
			g.logger.Warn("cache write failed", logging.Error(putErr))
		}
	}
	return Result{Found: true, Status: resp.StatusCode, Body: body}, false, nil
}

// observeQuota applies the preventive pause when the provider reports its
// remaining request quota is nearly exhausted.
func (g *Gateway) observeQuota(ctx context.Context, resp *http.Response) {
	if g.remainingHeader == "" || g.preventivePause <= 0 {
		return
	}
	raw := resp.Header.Get(g.remainingHeader)
	if raw == "" {
		return
	}
	remaining, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return
	}
	if remaining < g.remainingFloor {
		g.logger.Debug("provider quota low, pausing",
			logging.String(logging.FieldProvider, g.name),
			logging.Int("remaining", remaining),
			logging.Duration("pause", g.preventivePause))
		_ = SleepWithContext(ctx, g.preventivePause)
	}
}

func (g *Gateway) buildURL(req Request) (string, error) {
	raw := req.Path
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = g.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if len(req.Query) > 0 {
		merged := parsed.Query()
		for key, values := range req.Query {
			for _, v := range values {
				merged.Set(key, v)
			}
		}
		parsed.RawQuery = merged.Encode()
	}
	return parsed.String(), nil
}

// SleepWithContext pauses for d unless the context is canceled first.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
