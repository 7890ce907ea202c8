// Package llmrouter implements the provider router: it
// dispatches Stage-C adjudication calls to a local or remote llm.Backend,
// bounds concurrent in-flight calls with a counted semaphore, wraps each
// backend with a circuit breaker, and retries failed calls per a
// timeout/5xx/4xx policy.
//
// Mode selection is static: "auto" mode logs a warning when the active
// backend looks unhealthy but never silently switches backends mid-run.
// Silent failover belongs to a human decision (re-running with
// --force-remote), not the router.
package llmrouter

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MrWong99/semanticchunker/internal/resilience"
	"github.com/MrWong99/semanticchunker/pkg/llm"
)

// Mode selects which backend the router dispatches calls to.
type Mode string

const (
	// ModeLocal sends every call to the local backend.
	ModeLocal Mode = "local"

	// ModeRemote sends every call to the remote backend.
	ModeRemote Mode = "remote"

	// ModeAuto sends every call to the local backend and logs a warning
	// when the local backend's circuit breaker opens, instead of
	// switching to remote automatically (see package doc).
	ModeAuto Mode = "auto"
)

// DefaultMaxConcurrent bounds in-flight backend calls when Config.MaxConcurrent
// is zero.
const DefaultMaxConcurrent = 8

// DefaultMaxRetries is the number of additional attempts after the first for
// retriable failures, when Config.MaxRetries is zero.
const DefaultMaxRetries = 3

// DefaultPerCallTimeout bounds a single backend call when Config.PerCallTimeout
// is zero.
const DefaultPerCallTimeout = 30 * time.Second

// Config tunes the router's dispatch, concurrency, and retry behaviour.
type Config struct {
	Mode Mode

	// MaxConcurrent caps simultaneously in-flight backend calls across both
	// local and remote backends. Default: DefaultMaxConcurrent.
	MaxConcurrent int64

	// PerCallTimeout bounds a single backend attempt, including the
	// initial attempt and every retry. Default: DefaultPerCallTimeout.
	PerCallTimeout time.Duration

	// MaxRetries bounds additional attempts for retriable failures (5xx,
	// malformed responses). A single jittered retry always applies to
	// timeouts regardless of this value. Default:
	// DefaultMaxRetries.
	MaxRetries int

	// BaseBackoff is the base delay for the exponential-backoff-with-full-
	// jitter schedule used for retriable, non-timeout failures.
	// Default: 200ms.
	BaseBackoff time.Duration
}

// Router dispatches adjudication calls to a local and/or remote llm.Backend.
type Router struct {
	local  llm.Backend
	remote llm.Backend
	mode   Mode

	sem *semaphore.Weighted

	localBreaker  *resilience.CircuitBreaker
	remoteBreaker *resilience.CircuitBreaker

	maxRetries     int
	perCallTimeout time.Duration
	baseBackoff    time.Duration

	logger *slog.Logger
}

// New constructs a Router. local and/or remote may be nil depending on
// cfg.Mode (ModeLocal needs only local, ModeRemote needs only remote,
// ModeAuto needs local). A nil logger falls back to slog.Default().
func New(local, remote llm.Backend, cfg Config, logger *slog.Logger) *Router {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if cfg.PerCallTimeout <= 0 {
		cfg.PerCallTimeout = DefaultPerCallTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 200 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Router{
		local:          local,
		remote:         remote,
		mode:           cfg.Mode,
		sem:            semaphore.NewWeighted(cfg.MaxConcurrent),
		localBreaker:   resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "llm-local"}),
		remoteBreaker:  resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "llm-remote"}),
		maxRetries:     cfg.MaxRetries,
		perCallTimeout: cfg.PerCallTimeout,
		baseBackoff:    cfg.BaseBackoff,
		logger:         logger,
	}
}

// Generate dispatches req to the active backend, bounded by the router's
// concurrency semaphore, guarded by a circuit breaker, and retried per its
// classification policy. It returns an error wrapping *CallError on failure.
func (r *Router) Generate(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	backend, breaker, name := r.activeBackend()
	if backend == nil {
		return nil, &CallError{Kind: KindServerError, Backend: name, Cause: errors.New("no backend configured for mode")}
	}

	var resp *llm.CompletionResponse
	err := breaker.ExecuteClassified(func() error {
		var callErr error
		resp, callErr = r.callWithRetry(ctx, backend, name, req)
		return callErr
	}, isBackendHealthFailure)

	if err != nil {
		if errors.Is(err, resilience.ErrCircuitOpen) {
			if r.mode == ModeAuto {
				r.logger.Warn("llm router: active backend circuit is open; auto mode does not fail over automatically",
					"backend", name)
			}
			return nil, &CallError{Kind: KindServerError, Backend: name, Cause: err}
		}
		return nil, err
	}
	return resp, nil
}

// isBackendHealthFailure reports whether err, already retried and
// classified by callWithRetry, should count toward tripping the backend's
// circuit breaker. Only the Kinds callWithRetry itself treats as retriable
// (timeout, server error, malformed response) indicate the backend is
// actually unwell; a bad request or auth failure is a caller/config
// problem the breaker can't fix by resting, so it's exempted.
func isBackendHealthFailure(err error) bool {
	var callErr *CallError
	if errors.As(err, &callErr) {
		return callErr.Kind.Retriable()
	}
	return true
}

// activeBackend resolves which backend and breaker to use for the router's
// configured mode.
func (r *Router) activeBackend() (llm.Backend, *resilience.CircuitBreaker, string) {
	switch r.mode {
	case ModeRemote:
		return r.remote, r.remoteBreaker, "remote"
	default: // ModeLocal and ModeAuto both default to the local backend.
		return r.local, r.localBreaker, "local"
	}
}

// callWithRetry issues one call to backend and retries by classification:
// a single jittered retry on timeout, up to r.maxRetries exponential-
// backoff-with-full-jitter retries on server error or malformed response,
// and no retry on bad request or auth failure.
func (r *Router) callWithRetry(ctx context.Context, backend llm.Backend, name string, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, r.perCallTimeout)
		resp, err := backend.Generate(callCtx, req)
		cancel()

		if err == nil {
			return resp, nil
		}

		kind := classify(callCtx, err)
		lastErr = &CallError{Kind: kind, Backend: name, Cause: err}

		if !kind.Retriable() {
			return nil, lastErr
		}

		limit := r.maxRetries
		if kind == KindTimeout {
			limit = 1
		}
		if attempt >= limit {
			return nil, lastErr
		}

		delay := r.backoffDelay(kind, attempt)
		r.logger.Warn("llm router: retrying call", "backend", name, "attempt", attempt+1, "kind", kind.String(), "delay", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, &CallError{Kind: KindTimeout, Backend: name, Cause: ctx.Err()}
		}
	}
}

// backoffDelay returns the delay before the next retry attempt (0-indexed).
// Timeouts get a small fixed jitter; server errors and malformed responses
// use exponential backoff with full jitter.
func (r *Router) backoffDelay(kind Kind, attempt int) time.Duration {
	if kind == KindTimeout {
		return time.Duration(rand.Int63n(int64(r.baseBackoff)))
	}
	max := r.baseBackoff * time.Duration(1<<uint(attempt))
	return time.Duration(rand.Int63n(int64(max) + 1))
}

// classifiable is implemented by backend errors that can report an HTTP
// status code and whether the failure was an undecodable 2xx body.
type classifiable interface {
	StatusCode() int
	Malformed() bool
}

// classify maps a backend error to a retry Kind.
func classify(ctx context.Context, err error) Kind {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return KindTimeout
	}

	var c classifiable
	if errors.As(err, &c) {
		if c.Malformed() {
			return KindMalformed
		}
		switch {
		case c.StatusCode() == 401 || c.StatusCode() == 403:
			return KindAuthFailed
		case c.StatusCode() >= 500:
			return KindServerError
		case c.StatusCode() >= 400:
			return KindBadRequest
		}
	}

	// Unclassified errors (e.g. connection refused) are treated as
	// retriable server errors rather than silently dropped.
	return KindServerError
}
