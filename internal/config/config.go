package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMinLength is the shortest word kept in the wordlist.
	DefaultMinLength = 3

	// DefaultMaxLength is the longest word kept in the wordlist.
	DefaultMaxLength = 50

	// DefaultMinFreq is the number of occurrences a word needs across all
	// pages. Host labels are exempt.
	DefaultMinFreq = 2

	// DefaultGlobalConcurrency caps requests in flight across all hosts.
	DefaultGlobalConcurrency = 100

	// DefaultPerHostConcurrency caps requests in flight to a single host so
	// that a large list on one domain does not hammer that server.
	DefaultPerHostConcurrency = 20

	// DefaultTimeout applies to each request independently.
	DefaultTimeout = 15 * time.Second

	// DefaultBatchSize is the number of Targets admitted to the scheduler at once.
	DefaultBatchSize = 50

	// DefaultMaxBodySize limits the response body size to read.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent mimics a desktop browser. Sites commonly serve
	// reduced pages to obvious tool user agents.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// AppName is the application name used for XDG directory paths.
	AppName = "wordlist3r"
)

// Config holds all configuration options for a wordlist extraction run.
// It is populated from built-in defaults, then the config file, then CLI
// flags, and passed down explicitly rather than kept in global state.
type Config struct {
	// URLs are target URLs given directly on the command line.
	URLs []string

	// Files are paths of URL list files, one URL per line.
	Files []string

	// OutputFile is where the wordlist is written. Empty means stdout.
	OutputFile string

	// ReportFile is where the Markdown run report is written. Empty disables it.
	ReportFile string

	// Verbose enables debug logging and per-target progress output.
	Verbose bool

	// ConfigFilePath is an explicit config file path. When empty the
	// default locations are searched.
	ConfigFilePath string

	// MinLength and MaxLength bound word length in characters, inclusive.
	MinLength int
	MaxLength int

	// MinFreq is the occurrence count a non-host word needs to be kept.
	MinFreq int

	// IPFilter drops IPv4 octets, IP literals and infrastructure terms.
	IPFilter bool

	// SortOutput emits words in lexicographic order instead of first-seen order.
	SortOutput bool

	// ExtraStopWords are dropped in addition to the built-in noise lists.
	ExtraStopWords []string

	// GlobalConcurrency caps requests in flight system-wide.
	GlobalConcurrency int

	// PerHostConcurrency caps requests in flight to one host.
	PerHostConcurrency int

	// Timeout bounds each request including reading the body.
	Timeout time.Duration

	// BatchSize is the number of Targets admitted to the scheduler at once.
	BatchSize int

	// TLSVerify enables certificate verification. Off by default because
	// recon targets frequently present invalid certificates.
	TLSVerify bool

	// MaxBodySize is the largest response body that is tokenized.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// RateLimit limits requests per second to each host. Zero disables it.
	RateLimit float64

	// Proxy is an optional socks5:// or http:// proxy URL.
	Proxy string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// Cookie is a raw cookie string sent with every request.
	Cookie string

	// Sites holds per-host cookie and header overrides from the config file.
	Sites map[string]SiteConfig
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MinLength:          DefaultMinLength,
		MaxLength:          DefaultMaxLength,
		MinFreq:            DefaultMinFreq,
		IPFilter:           true,
		GlobalConcurrency:  DefaultGlobalConcurrency,
		PerHostConcurrency: DefaultPerHostConcurrency,
		Timeout:            DefaultTimeout,
		BatchSize:          DefaultBatchSize,
		MaxBodySize:        DefaultMaxBodySize,
		UserAgent:          DefaultUserAgent,
	}
}

// XDGConfigDir returns the XDG config directory for wordlist3r.
// On Linux: ~/.config/wordlist3r
// On macOS: ~/Library/Application Support/wordlist3r
// On Windows: %APPDATA%\wordlist3r
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the path of the config file inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.URLs) == 0 && len(c.Files) == 0 {
		return ErrNoInput
	}

	if c.MinLength < 1 || c.MaxLength < c.MinLength {
		return ErrInvalidLengthRange
	}

	if c.MinFreq < 1 {
		return ErrInvalidMinFreq
	}

	if c.GlobalConcurrency <= 0 || c.PerHostConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}

	return nil
}
