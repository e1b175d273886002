package fetcher

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/wordlist3r/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, opts ClientOptions) *http.Client {
	t.Helper()

	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	client, err := NewHTTPClient(opts)
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	return client
}

func collect(ch <-chan model.FetchResult) []model.FetchResult {
	var results []model.FetchResult
	for r := range ch {
		results = append(results, r)
	}
	return results
}

func targetsFor(t *testing.T, base string, n int) []model.Target {
	t.Helper()

	targets := make([]model.Target, 0, n)
	for i := range n {
		target, err := model.NewTarget(fmt.Sprintf("%s/page/%d", base, i))
		if err != nil {
			t.Fatalf("NewTarget() error = %v", err)
		}
		targets = append(targets, target)
	}
	return targets
}

// concurrencyTracker records the peak number of simultaneous requests.
type concurrencyTracker struct {
	current atomic.Int64
	peak    atomic.Int64
}

func (c *concurrencyTracker) handler(delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		n := c.current.Add(1)
		for {
			p := c.peak.Load()
			if n <= p || c.peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(delay)
		c.current.Add(-1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><title>ok</title></html>")) //nolint:errcheck
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	t.Run("yields exactly one result per target", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("hello")) //nolint:errcheck
		})
		mux.HandleFunc("/missing", http.NotFound)
		server := httptest.NewServer(mux)
		defer server.Close()

		closed := httptest.NewServer(http.NotFoundHandler())
		closedURL := closed.URL
		closed.Close()

		targets := []model.Target{
			model.MustNewTarget(server.URL + "/ok"),
			model.MustNewTarget(server.URL + "/missing"),
			model.MustNewTarget(closedURL + "/gone"),
		}

		f := New(newTestClient(t, ClientOptions{}), WithLogger(quietLogger()), WithBatchSize(2))
		results := collect(f.Stream(context.Background(), targets))

		if len(results) != len(targets) {
			t.Fatalf("expected %d results, got %d", len(targets), len(results))
		}

		byURL := make(map[string]model.FetchOutcome)
		for _, r := range results {
			if _, dup := byURL[r.Target.URL()]; dup {
				t.Errorf("duplicate result for %s", r.Target.URL())
			}
			byURL[r.Target.URL()] = r.Outcome
		}

		if got := byURL[server.URL+"/ok"]; !got.OK() || string(got.Content) != "hello" {
			t.Errorf("expected success with body, got %+v", got)
		}
		if got := byURL[server.URL+"/missing"]; got.Reason != model.ReasonHTTPError || got.StatusCode != http.StatusNotFound {
			t.Errorf("expected http_error 404, got reason=%s status=%d", got.Reason, got.StatusCode)
		}
		if got := byURL[closedURL+"/gone"]; got.Reason != model.ReasonConnectionError {
			t.Errorf("expected connection_error, got %s", got.Reason)
		}
	})

	t.Run("per-host cap bounds concurrent requests", func(t *testing.T) {
		t.Parallel()

		tracker := &concurrencyTracker{}
		server := httptest.NewServer(tracker.handler(30 * time.Millisecond))
		defer server.Close()

		f := New(newTestClient(t, ClientOptions{}),
			WithLogger(quietLogger()),
			WithGlobalConcurrency(10),
			WithPerHostConcurrency(2),
		)
		results := collect(f.Stream(context.Background(), targetsFor(t, server.URL, 12)))

		if len(results) != 12 {
			t.Fatalf("expected 12 results, got %d", len(results))
		}
		if peak := tracker.peak.Load(); peak > 2 {
			t.Errorf("per-host cap exceeded: peak %d", peak)
		}
	})

	t.Run("global cap bounds concurrent requests", func(t *testing.T) {
		t.Parallel()

		tracker := &concurrencyTracker{}
		server := httptest.NewServer(tracker.handler(30 * time.Millisecond))
		defer server.Close()

		f := New(newTestClient(t, ClientOptions{}),
			WithLogger(quietLogger()),
			WithGlobalConcurrency(3),
			WithPerHostConcurrency(10),
			WithBatchSize(4),
		)
		results := collect(f.Stream(context.Background(), targetsFor(t, server.URL, 15)))

		if len(results) != 15 {
			t.Fatalf("expected 15 results, got %d", len(results))
		}
		if peak := tracker.peak.Load(); peak > 3 {
			t.Errorf("global cap exceeded: peak %d", peak)
		}
	})

	t.Run("busy host does not hold global slots", func(t *testing.T) {
		t.Parallel()

		var completed, completedAtOther atomic.Int64
		completedAtOther.Store(-1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.Host, "localhost") {
				completedAtOther.CompareAndSwap(-1, completed.Load())
			}
			time.Sleep(30 * time.Millisecond)
			if strings.HasPrefix(r.Host, "127.0.0.1") {
				completed.Add(1)
			}
		}))
		defer server.Close()

		other := strings.Replace(server.URL, "127.0.0.1", "localhost", 1)
		targets := append(targetsFor(t, server.URL, 10), targetsFor(t, other, 10)...)

		f := New(newTestClient(t, ClientOptions{}),
			WithLogger(quietLogger()),
			WithGlobalConcurrency(4),
			WithPerHostConcurrency(2),
		)
		results := collect(f.Stream(context.Background(), targets))

		if len(results) != 20 {
			t.Fatalf("expected 20 results, got %d", len(results))
		}
		if n := completedAtOther.Load(); n < 0 || n >= 4 {
			t.Errorf("second host started after %d first-host requests completed, want fewer than 4", n)
		}
	})

	t.Run("cancelled context closes the stream without results", func(t *testing.T) {
		t.Parallel()

		started := make(chan struct{}, 10)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started <- struct{}{}
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		f := New(newTestClient(t, ClientOptions{}), WithLogger(quietLogger()), WithGlobalConcurrency(2))
		ch := f.Stream(ctx, targetsFor(t, server.URL, 10))
		<-started
		cancel()

		done := make(chan []model.FetchResult)
		go func() { done <- collect(ch) }()

		select {
		case results := <-done:
			for _, r := range results {
				t.Errorf("unexpected result after cancellation: %s %s", r.Target.URL(), r.Outcome.Reason)
			}
		case <-time.After(3 * time.Second):
			t.Fatal("stream was not closed after cancellation")
		}
	})

	t.Run("empty input closes immediately", func(t *testing.T) {
		t.Parallel()

		f := New(nil, WithLogger(quietLogger()))
		if results := collect(f.Stream(context.Background(), nil)); len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("self-signed certificate is accepted by default", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("secure")) //nolint:errcheck
		}))
		defer server.Close()

		f := New(newTestClient(t, ClientOptions{}), WithLogger(quietLogger()))
		outcome := f.Fetch(context.Background(), model.MustNewTarget(server.URL))
		if !outcome.OK() {
			t.Fatalf("expected success, got %s: %v", outcome.Reason, outcome.Err)
		}
	})

	t.Run("certificate verification failure is tls_error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("secure")) //nolint:errcheck
		}))
		defer server.Close()

		f := New(newTestClient(t, ClientOptions{TLSVerify: true}), WithLogger(quietLogger()))
		outcome := f.Fetch(context.Background(), model.MustNewTarget(server.URL))
		if outcome.Reason != model.ReasonTLSError {
			t.Errorf("expected tls_error, got %s: %v", outcome.Reason, outcome.Err)
		}
	})

	t.Run("slow server is a timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		f := New(newTestClient(t, ClientOptions{Timeout: 100 * time.Millisecond}), WithLogger(quietLogger()))
		outcome := f.Fetch(context.Background(), model.MustNewTarget(server.URL))
		if outcome.Reason != model.ReasonTimeout {
			t.Errorf("expected timeout, got %s: %v", outcome.Reason, outcome.Err)
		}
	})

	t.Run("oversized body is too_large", func(t *testing.T) {
		t.Parallel()

		body := strings.Repeat("a", 64)
		mux := http.NewServeMux()
		mux.HandleFunc("/sized", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body)) //nolint:errcheck
		})
		mux.HandleFunc("/chunked", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body[:8])) //nolint:errcheck
			if fl, ok := w.(http.Flusher); ok {
				fl.Flush()
			}
			_, _ = w.Write([]byte(body[8:])) //nolint:errcheck
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		f := New(newTestClient(t, ClientOptions{}), WithLogger(quietLogger()), WithMaxBodySize(16))
		for _, path := range []string{"/sized", "/chunked"} {
			outcome := f.Fetch(context.Background(), model.MustNewTarget(server.URL+path))
			if outcome.Reason != model.ReasonTooLarge {
				t.Errorf("%s: expected too_large, got %s", path, outcome.Reason)
			}
			if !errors.Is(outcome.Err, ErrBodyTooLarge) {
				t.Errorf("%s: expected ErrBodyTooLarge, got %v", path, outcome.Err)
			}
			if outcome.Content != nil {
				t.Errorf("%s: expected content to be discarded", path)
			}
		}
	})

	t.Run("sends browser headers and configured extras", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotCookie, gotCustom atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA.Store(r.Header.Get("User-Agent"))
			gotCookie.Store(r.Header.Get("Cookie"))
			gotCustom.Store(r.Header.Get("X-Recon"))
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{
			Cookie:  "session=abc",
			Headers: map[string]string{"X-Recon": "yes"},
		})
		f := New(client, WithLogger(quietLogger()))
		outcome := f.Fetch(context.Background(), model.MustNewTarget(server.URL))
		if !outcome.OK() {
			t.Fatalf("expected success, got %s", outcome.Reason)
		}

		if gotUA.Load() != DefaultUserAgent {
			t.Errorf("expected browser user agent, got %v", gotUA.Load())
		}
		if gotCookie.Load() != "session=abc" {
			t.Errorf("expected cookie, got %v", gotCookie.Load())
		}
		if gotCustom.Load() != "yes" {
			t.Errorf("expected custom header, got %v", gotCustom.Load())
		}
	})
}

func TestHostOverride(t *testing.T) {
	t.Parallel()

	var gotCookie, gotHeader atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie.Store(r.Header.Get("Cookie"))
		gotHeader.Store(r.Header.Get("X-Env"))
	}))
	defer server.Close()

	client := newTestClient(t, ClientOptions{
		Cookie:  "global=1",
		Headers: map[string]string{"X-Env": "global"},
		HostConfig: func(host string) HostOverride {
			if host == "127.0.0.1" {
				return HostOverride{Cookie: "site=2", Headers: map[string]string{"X-Env": "site"}}
			}
			return HostOverride{Cookie: "global=1", Headers: map[string]string{"X-Env": "global"}}
		},
	})
	f := New(client, WithLogger(quietLogger()))
	if outcome := f.Fetch(context.Background(), model.MustNewTarget(server.URL)); !outcome.OK() {
		t.Fatalf("expected success, got %s", outcome.Reason)
	}

	if gotCookie.Load() != "site=2" {
		t.Errorf("expected host cookie, got %v", gotCookie.Load())
	}
	if gotHeader.Load() != "site" {
		t.Errorf("expected host header, got %v", gotHeader.Load())
	}
}

func TestNewHTTPClientProxy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		proxy   string
		wantErr bool
	}{
		{name: "socks5 URL", proxy: "socks5://127.0.0.1:9050"},
		{name: "bare host and port is socks5", proxy: "127.0.0.1:9050"},
		{name: "http proxy", proxy: "http://proxy.example.com:8080"},
		{name: "unsupported scheme", proxy: "ftp://proxy.example.com:21", wantErr: true},
		{name: "missing host", proxy: "socks5://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewHTTPClient(ClientOptions{Timeout: time.Second, Proxy: tt.proxy})
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidProxy) {
					t.Errorf("expected ErrInvalidProxy, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want model.FailureReason
	}{
		{name: "nil", err: nil, want: model.ReasonNone},
		{name: "deadline", err: fmt.Errorf("get: %w", context.DeadlineExceeded), want: model.ReasonTimeout},
		{name: "net timeout", err: &net.OpError{Op: "dial", Err: timeoutError{}}, want: model.ReasonTimeout},
		{name: "unknown authority", err: fmt.Errorf("get: %w", x509.UnknownAuthorityError{}), want: model.ReasonTLSError},
		{name: "handshake message", err: errors.New("remote error: tls: handshake failure"), want: model.ReasonTLSError},
		{name: "refused", err: errors.New("connect: connection refused"), want: model.ReasonConnectionError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %s, want %s", got, tt.want)
			}
		})
	}
}
