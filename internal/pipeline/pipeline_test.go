package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/wordlist3r/internal/fetcher"
	"github.com/nao1215/wordlist3r/internal/frequency"
	"github.com/nao1215/wordlist3r/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// staticSource replays fixed outcomes keyed by URL.
type staticSource struct {
	outcomes map[string]model.FetchOutcome
}

func (s *staticSource) Stream(ctx context.Context, targets []model.Target) <-chan model.FetchResult {
	out := make(chan model.FetchResult)
	go func() {
		defer close(out)
		for _, target := range targets {
			outcome, ok := s.outcomes[target.URL()]
			if !ok {
				outcome = model.Failure(model.ReasonConnectionError, errors.New("no route"))
			}
			select {
			case out <- model.FetchResult{Target: target, Outcome: outcome}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// blockingSource sends its first result and then waits for cancellation.
type blockingSource struct {
	first model.FetchResult
}

func (s *blockingSource) Stream(ctx context.Context, _ []model.Target) <-chan model.FetchResult {
	out := make(chan model.FetchResult)
	go func() {
		defer close(out)
		select {
		case out <- s.first:
		case <-ctx.Done():
			return
		}
		<-ctx.Done()
	}()
	return out
}

const dashboardPage = `<html><head><title>Admin Dashboard</title></head>
<body><p>dashboard dashboard dashboard portal</p></body></html>`

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("builds wordlist from fetched pages", func(t *testing.T) {
		t.Parallel()

		source := &staticSource{outcomes: map[string]model.FetchOutcome{
			"https://admin.example.com": model.Success(200, []byte(dashboardPage), "text/html"),
		}}
		p := New(source, WithLogger(quietLogger()))

		result, err := p.Run(context.Background(), []model.Target{model.MustNewTarget("https://admin.example.com")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"admin", "example", "dashboard"}
		if got := result.Wordlist.Words(); !slices.Equal(got, want) {
			t.Errorf("Words() = %v, want %v", got, want)
		}
		if result.Summary.Succeeded != 1 || result.Summary.Completed != 1 {
			t.Errorf("unexpected summary: %+v", result.Summary)
		}
		if result.Summary.Interrupted {
			t.Error("run should not be marked interrupted")
		}
	})

	t.Run("failed fetch still contributes host labels", func(t *testing.T) {
		t.Parallel()

		p := New(&staticSource{}, WithLogger(quietLogger()))
		result, err := p.Run(context.Background(), []model.Target{model.MustNewTarget("https://staging.acme.com")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"staging", "acme"}
		if got := result.Wordlist.Words(); !slices.Equal(got, want) {
			t.Errorf("Words() = %v, want %v", got, want)
		}
		if result.Summary.Failures[model.ReasonConnectionError] != 1 {
			t.Errorf("expected one connection_error, got %v", result.Summary.Failures)
		}
	})

	t.Run("ip filter off keeps octets", func(t *testing.T) {
		t.Parallel()

		opts := frequency.DefaultOptions()
		opts.MinLength = 1
		opts.IPFilter = false
		p := New(&staticSource{}, WithLogger(quietLogger()), WithFilterOptions(opts))

		result, err := p.Run(context.Background(), []model.Target{model.MustNewTarget("http://10.0.0.5")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"10", "0", "5"}
		if got := result.Wordlist.Words(); !slices.Equal(got, want) {
			t.Errorf("Words() = %v, want %v", got, want)
		}
	})

	t.Run("ipv6 hosts contribute no words", func(t *testing.T) {
		t.Parallel()

		targets := []model.Target{
			model.MustNewTarget("https://[2001:db8::1]/"),
			model.MustNewTarget("https://[fe80::abcd:1]/"),
		}
		for _, ipFilter := range []bool{true, false} {
			opts := frequency.DefaultOptions()
			opts.IPFilter = ipFilter
			p := New(&staticSource{}, WithLogger(quietLogger()), WithFilterOptions(opts))

			result, err := p.Run(context.Background(), targets)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Wordlist.IsEmpty() {
				t.Errorf("ip_filter=%v: expected empty wordlist, got %v", ipFilter, result.Wordlist.Words())
			}
			if result.Summary.Failed() != 2 {
				t.Errorf("ip_filter=%v: expected 2 failed targets, got %d", ipFilter, result.Summary.Failed())
			}
		}
	})

	t.Run("empty input is an error", func(t *testing.T) {
		t.Parallel()

		p := New(&staticSource{}, WithLogger(quietLogger()))
		_, err := p.Run(context.Background(), nil)
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("empty wordlist is a success", func(t *testing.T) {
		t.Parallel()

		opts := frequency.DefaultOptions()
		opts.MinLength = 40
		p := New(&staticSource{}, WithLogger(quietLogger()), WithFilterOptions(opts))

		result, err := p.Run(context.Background(), []model.Target{model.MustNewTarget("https://example.com")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Wordlist.IsEmpty() {
			t.Errorf("expected empty wordlist, got %v", result.Wordlist.Words())
		}
	})

	t.Run("observer sees every result", func(t *testing.T) {
		t.Parallel()

		var events []Event
		p := New(&staticSource{},
			WithLogger(quietLogger()),
			WithObserver(func(e Event) { events = append(events, e) }),
		)

		targets := []model.Target{
			model.MustNewTarget("https://a.example.com"),
			model.MustNewTarget("https://b.example.com"),
		}
		if _, err := p.Run(context.Background(), targets); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(events) != 2 {
			t.Fatalf("expected 2 events, got %d", len(events))
		}
		if events[1].Completed != 2 || events[1].Total != 2 {
			t.Errorf("unexpected final event: %+v", events[1])
		}
		if events[0].Tokens != 2 {
			t.Errorf("expected 2 domain tokens for a.example.com, got %d", events[0].Tokens)
		}
	})

	t.Run("cancellation returns partial result", func(t *testing.T) {
		t.Parallel()

		first := model.FetchResult{
			Target:  model.MustNewTarget("https://first.example.com"),
			Outcome: model.Failure(model.ReasonTimeout, context.DeadlineExceeded),
		}

		ctx, cancel := context.WithCancel(context.Background())
		p := New(&blockingSource{first: first},
			WithLogger(quietLogger()),
			WithObserver(func(Event) { cancel() }),
		)

		targets := []model.Target{first.Target, model.MustNewTarget("https://second.example.com")}
		result, err := p.Run(ctx, targets)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if result == nil {
			t.Fatal("expected partial result")
		}
		if !result.Summary.Interrupted {
			t.Error("expected run to be marked interrupted")
		}
		if result.Summary.Completed != 1 {
			t.Errorf("expected 1 completed target, got %d", result.Summary.Completed)
		}
		if !result.Wordlist.Contains("first") {
			t.Errorf("expected partial wordlist to contain first, got %v", result.Wordlist.Words())
		}
	})
}

func TestRunIsDeterministic(t *testing.T) {
	t.Parallel()

	source := &staticSource{outcomes: map[string]model.FetchOutcome{
		"https://shop.example.com": model.Success(200, []byte(`<html><title>Checkout Cart</title>
<body>checkout cart checkout</body></html>`), "text/html"),
		"https://blog.example.com": model.Success(200, []byte(`<html><body>cart posts posts</body></html>`), "text/html"),
	}}
	targets := []model.Target{
		model.MustNewTarget("https://shop.example.com"),
		model.MustNewTarget("https://blog.example.com"),
	}

	opts := frequency.DefaultOptions()
	opts.Sort = true

	first, err := New(source, WithLogger(quietLogger()), WithFilterOptions(opts)).Run(context.Background(), targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := New(source, WithLogger(quietLogger()), WithFilterOptions(opts)).Run(context.Background(), targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !slices.Equal(first.Wordlist.Words(), second.Wordlist.Words()) {
		t.Errorf("runs differ: %v vs %v", first.Wordlist.Words(), second.Wordlist.Words())
	}
	want := []string{"blog", "cart", "checkout", "example", "posts", "shop"}
	if !slices.Equal(first.Wordlist.Words(), want) {
		t.Errorf("Words() = %v, want %v", first.Wordlist.Words(), want)
	}
}

func TestRunWithFetcher(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Inventory Inventory</title></head>
<body><a href="/warehouse/stockLevels">stock</a><a href="/warehouse/orders">orders</a></body></html>`)) //nolint:errcheck
	})
	mux.HandleFunc("/slow", func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := fetcher.NewHTTPClient(fetcher.ClientOptions{Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewHTTPClient() error = %v", err)
	}
	f := fetcher.New(client, fetcher.WithLogger(quietLogger()))
	p := New(f, WithLogger(quietLogger()))

	targets := []model.Target{
		model.MustNewTarget(server.URL + "/"),
		model.MustNewTarget(server.URL + "/slow"),
	}
	result, err := p.Run(context.Background(), targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Summary.Completed != 2 {
		t.Errorf("expected 2 completed, got %d", result.Summary.Completed)
	}
	if result.Summary.Failures[model.ReasonTimeout] != 1 {
		t.Errorf("expected one timeout, got %v", result.Summary.Failures)
	}
	for _, w := range []string{"inventory", "warehouse"} {
		if !result.Wordlist.Contains(w) {
			t.Errorf("expected %q in %v", w, result.Wordlist.Words())
		}
	}
	if strings.Contains(strings.Join(result.Wordlist.Words(), " "), "127") {
		t.Errorf("ip octets should be filtered: %v", result.Wordlist.Words())
	}
}
