package fetcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/wordlist3r/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

const (
	// DefaultGlobalConcurrency is the number of requests allowed in flight at once.
	DefaultGlobalConcurrency = 100

	// DefaultPerHostConcurrency is the number of requests allowed in flight to one host.
	DefaultPerHostConcurrency = 20

	// DefaultBatchSize is the number of Targets admitted to the scheduler at a time.
	DefaultBatchSize = 50

	// DefaultMaxBodySize is the largest response body that is kept.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024

	// DefaultUserAgent mimics a desktop browser. Many sites serve reduced
	// or blocked content to obvious tool user agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher retrieves Targets concurrently under a global cap and a per-host cap.
// Every Target passed to Stream yields exactly one FetchResult unless the
// run is cancelled first.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger

	globalLimit  int64
	perHostLimit int64
	batchSize    int
	maxBodySize  int64
	userAgent    string
	rateLimit    rate.Limit

	mu    sync.Mutex
	hosts map[string]*hostSlot
}

// hostSlot gates requests to a single host.
type hostSlot struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithGlobalConcurrency sets the system-wide in-flight request cap.
func WithGlobalConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.globalLimit = int64(n)
		}
	}
}

// WithPerHostConcurrency sets the in-flight request cap for each host.
func WithPerHostConcurrency(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.perHostLimit = int64(n)
		}
	}
}

// WithBatchSize sets how many Targets are admitted to the scheduler at a time.
func WithBatchSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.batchSize = n
		}
	}
}

// WithMaxBodySize sets the largest response body that is kept.
// Larger responses fail with the too_large reason.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.maxBodySize = n
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithRateLimit limits requests per second to each host.
// Zero or a negative value disables rate limiting.
func WithRateLimit(perSecond float64) Option {
	return func(f *Fetcher) {
		if perSecond > 0 {
			f.rateLimit = rate.Limit(perSecond)
		}
	}
}

// New creates a Fetcher. A nil client gets NewHTTPClient defaults with a 15s timeout.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       client,
		globalLimit:  DefaultGlobalConcurrency,
		perHostLimit: DefaultPerHostConcurrency,
		batchSize:    DefaultBatchSize,
		maxBodySize:  DefaultMaxBodySize,
		userAgent:    DefaultUserAgent,
		hosts:        make(map[string]*hostSlot),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.client == nil {
		// Without a proxy NewHTTPClient cannot fail.
		f.client, _ = NewHTTPClient(ClientOptions{Timeout: 15 * time.Second}) //nolint:errcheck
	}

	return f
}

// Stream fetches targets and sends one FetchResult per Target on the
// returned channel, in completion order. The channel is closed once every
// admitted Target has completed. When ctx is cancelled no further Targets
// are admitted, in-flight requests are abandoned and no result is sent for
// them.
//
// A Target waits for its host slot before it takes a global slot, so
// Targets queued behind a busy host never hold global capacity that other
// hosts could use. At most globalLimit+batchSize Targets are outstanding.
func (f *Fetcher) Stream(ctx context.Context, targets []model.Target) <-chan model.FetchResult {
	out := make(chan model.FetchResult, f.batchSize)

	go func() {
		defer close(out)

		global := semaphore.NewWeighted(f.globalLimit)
		pending := semaphore.NewWeighted(f.globalLimit + int64(f.batchSize))
		var g errgroup.Group

		f.logger.Debug("starting fetch",
			"targets", len(targets),
			"global_concurrency", f.globalLimit,
			"per_host_concurrency", f.perHostLimit,
			"batch_size", f.batchSize,
		)

	admit:
		for start := 0; start < len(targets); start += f.batchSize {
			end := min(start+f.batchSize, len(targets))
			f.logger.Debug("admitting batch", "from", start+1, "to", end, "total", len(targets))

			for _, target := range targets[start:end] {
				if err := pending.Acquire(ctx, 1); err != nil {
					break admit
				}

				g.Go(func() error {
					defer pending.Release(1)

					result, ok := f.fetchTarget(ctx, global, target)
					if !ok || ctx.Err() != nil {
						return nil
					}
					select {
					case out <- result:
					case <-ctx.Done():
					}
					return nil
				})
			}
		}

		_ = g.Wait() //nolint:errcheck // Goroutines never return errors
	}()

	return out
}

// fetchTarget waits for the host slot, the host rate limit and a global
// slot, then performs the request. It reports false when ctx ended before
// the request could be issued.
func (f *Fetcher) fetchTarget(ctx context.Context, global *semaphore.Weighted, target model.Target) (model.FetchResult, bool) {
	started := time.Now()
	slot := f.hostSlot(target.Host())

	if err := slot.sem.Acquire(ctx, 1); err != nil {
		return model.FetchResult{}, false
	}
	defer slot.sem.Release(1)

	if slot.limiter != nil {
		if err := slot.limiter.Wait(ctx); err != nil {
			return model.FetchResult{}, false
		}
	}

	if err := global.Acquire(ctx, 1); err != nil {
		return model.FetchResult{}, false
	}
	defer global.Release(1)

	outcome := f.Fetch(ctx, target)
	if outcome.OK() {
		f.logger.Debug("fetched", "url", target.URL(), "status", outcome.StatusCode, "bytes", len(outcome.Content))
	} else {
		f.logger.Debug("fetch failed", "url", target.URL(), "reason", outcome.Reason, "error", outcome.Err)
	}

	return model.FetchResult{
		Target:  target,
		Outcome: outcome,
		Elapsed: time.Since(started),
	}, true
}

// hostSlot returns the gate for host, creating it on first use.
func (f *Fetcher) hostSlot(host string) *hostSlot {
	host = strings.ToLower(host)

	f.mu.Lock()
	defer f.mu.Unlock()

	slot, ok := f.hosts[host]
	if !ok {
		slot = &hostSlot{sem: semaphore.NewWeighted(f.perHostLimit)}
		if f.rateLimit > 0 {
			slot.limiter = rate.NewLimiter(f.rateLimit, 1)
		}
		f.hosts[host] = slot
	}
	return slot
}

// Fetch performs a single GET for target without any scheduling.
func (f *Fetcher) Fetch(ctx context.Context, target model.Target) model.FetchOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.URL(), nil)
	if err != nil {
		return model.Failure(model.ReasonConnectionError, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return model.Failure(classifyError(err), err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // Drain for connection reuse
		return model.FetchOutcome{
			StatusCode:  resp.StatusCode,
			ContentType: contentType,
			Reason:      model.ReasonHTTPError,
			Err:         fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode),
		}
	}

	if resp.ContentLength > f.maxBodySize {
		return f.tooLarge(resp.StatusCode, contentType, resp.ContentLength)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		outcome := model.Failure(classifyError(err), fmt.Errorf("failed to read body: %w", err))
		outcome.StatusCode = resp.StatusCode
		return outcome
	}
	if int64(len(body)) > f.maxBodySize {
		return f.tooLarge(resp.StatusCode, contentType, int64(len(body)))
	}

	return model.Success(resp.StatusCode, body, contentType)
}

func (f *Fetcher) tooLarge(status int, contentType string, size int64) model.FetchOutcome {
	return model.FetchOutcome{
		StatusCode:  status,
		ContentType: contentType,
		Reason:      model.ReasonTooLarge,
		Err:         fmt.Errorf("%w: %d bytes (limit %d)", ErrBodyTooLarge, size, f.maxBodySize),
	}
}
