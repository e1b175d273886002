package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the number of redirects followed before the last response is used.
const maxRedirects = 10

// ClientOptions configures the HTTP client used for fetching.
type ClientOptions struct {
	// Timeout bounds each request including reading the body.
	Timeout time.Duration

	// TLSVerify enables certificate verification. Recon targets frequently
	// serve self-signed or mismatched certificates, so the default is off.
	TLSVerify bool

	// Proxy is an optional proxy URL. socks5:// and socks5h:// go through
	// golang.org/x/net/proxy; http:// and https:// use the transport proxy.
	// A bare "host:port" is treated as a SOCKS5 proxy.
	Proxy string

	// Headers are added to every request.
	Headers map[string]string

	// Cookie is a raw cookie string added to every request.
	Cookie string

	// HostConfig, when set, resolves the cookie and headers for each request
	// host and replaces Cookie and Headers.
	HostConfig func(host string) HostOverride

	// MaxConnsPerHost caps open connections per host at the transport level.
	// Zero means no transport-level cap.
	MaxConnsPerHost int
}

// HostOverride holds the cookie and headers sent to a single host.
type HostOverride struct {
	Cookie  string
	Headers map[string]string
}

// NewHTTPClient creates the HTTP client used by the Fetcher.
func NewHTTPClient(opts ClientOptions) (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   opts.Timeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:       nil,
		DialContext: dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !opts.TLSVerify, //nolint:gosec // Recon targets often use invalid certificates
		},
		TLSHandshakeTimeout: opts.Timeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     opts.MaxConnsPerHost,
		IdleConnTimeout:     30 * time.Second,
		ForceAttemptHTTP2:   true,
	}

	if opts.Proxy != "" {
		if err := configureProxy(transport, opts.Proxy); err != nil {
			return nil, err
		}
	}

	var rt http.RoundTripper = transport
	if opts.Cookie != "" || len(opts.Headers) > 0 || opts.HostConfig != nil {
		rt = &headerInjectingTransport{
			base:       transport,
			cookie:     opts.Cookie,
			headers:    opts.Headers,
			hostConfig: opts.HostConfig,
		}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   opts.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// configureProxy wires the proxy described by raw into transport.
func configureProxy(transport *http.Transport, raw string) error {
	if !strings.Contains(raw, "://") {
		raw = "socks5://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProxy, err)
	}
	if u.Host == "" {
		return ErrInvalidProxy
	}

	switch u.Scheme {
	case "http", "https":
		transport.Proxy = http.ProxyURL(u)
		return nil
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidProxy, err)
		}
		if cd, ok := d.(proxy.ContextDialer); ok {
			transport.DialContext = cd.DialContext
		} else {
			transport.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return d.Dial(network, addr)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxy, u.Scheme)
	}
}

// headerInjectingTransport adds configured headers and cookies to every request.
type headerInjectingTransport struct {
	base       http.RoundTripper
	cookie     string
	headers    map[string]string
	hostConfig func(host string) HostOverride
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	cookie, headers := t.cookie, t.headers
	if t.hostConfig != nil {
		override := t.hostConfig(strings.ToLower(req.URL.Hostname()))
		cookie, headers = override.Cookie, override.Headers
	}

	if cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+cookie)
		} else {
			clone.Header.Set("Cookie", cookie)
		}
	}

	for key, value := range headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
