package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nao1215/wordlist3r/internal/config"
	"github.com/nao1215/wordlist3r/internal/fetcher"
	"github.com/nao1215/wordlist3r/internal/frequency"
	wlog "github.com/nao1215/wordlist3r/internal/log"
	"github.com/nao1215/wordlist3r/internal/pipeline"
	"github.com/nao1215/wordlist3r/internal/report"
	"github.com/nao1215/wordlist3r/internal/urlset"
	"github.com/spf13/cobra"
)

// errInvalidHeader is returned for -H values that are not "Name: Value".
var errInvalidHeader = errors.New("invalid header (expected \"Name: Value\")")

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [url...]",
		Short: "Extract a fuzzing wordlist from a set of URLs",
		Long: `Extract fetches every target URL concurrently and builds a wordlist from:
- Host labels (subdomain, domain and non-generic suffix labels)
- Page title, meta description/keywords, OpenGraph and Twitter tags
- Visible body text
- Path segments of links, scripts, images and stylesheets
- Form actions and field names

Words that appear fewer than --min-freq times are dropped, except host labels.
The wordlist is written to stdout unless --output is given; the run summary
goes to stderr.

Examples:
  # Extract from two URLs
  wordlist3r extract https://admin.example.com https://shop.example.com

  # Read URLs from files (globs and ~ are expanded)
  wordlist3r extract -f urls.txt -f '~/recon/*.txt' -o words.txt

  # Keep rare words and sort the output
  wordlist3r extract --min-freq 1 --sort -f urls.txt

  # Route through Tor and write a Markdown run report
  wordlist3r extract --proxy socks5://127.0.0.1:9050 -r report.md -f urls.txt

  # Authenticated pages
  wordlist3r extract -H "Authorization: Bearer token" --cookie "sid=abc" https://app.example.com

Configuration file (.wordlist3r) example:
  min_freq: 1
  proxy: socks5://127.0.0.1:9050
  sites:
    app.example.com:
      cookie: "sid=abc123"
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ArbitraryArgs,
		RunE: runExtractCmd,
	}

	// Input
	cmd.Flags().StringArrayP("url", "u", nil,
		"Target URL (repeatable)")
	cmd.Flags().StringArrayP("file", "f", nil,
		"File with one URL per line (repeatable, globs and ~ expanded)")
	cmd.Flags().StringSlice("files", nil,
		"Comma-separated list of URL files")

	// Output
	cmd.Flags().StringP("output", "o", "",
		"Write the wordlist to this file instead of stdout")
	cmd.Flags().StringP("report", "r", "",
		"Write a run report to this file (.json for JSON, otherwise Markdown)")
	cmd.Flags().Bool("sort", false,
		"Sort words alphabetically instead of first-seen order")

	// Word filter
	cmd.Flags().Int("min-length", config.DefaultMinLength,
		"Shortest word kept")
	cmd.Flags().Int("max-length", config.DefaultMaxLength,
		"Longest word kept")
	cmd.Flags().Int("min-freq", config.DefaultMinFreq,
		"Occurrences a word needs across all pages (host labels are exempt)")
	cmd.Flags().Bool("no-ip-filter", false,
		"Keep IP octets, IP literals and network terms")
	cmd.Flags().StringArray("stop-word", nil,
		"Additional word to drop (repeatable)")

	// Fetching
	cmd.Flags().IntP("concurrency", "c", config.DefaultGlobalConcurrency,
		"Maximum requests in flight across all hosts")
	cmd.Flags().Int("per-host", config.DefaultPerHostConcurrency,
		"Maximum requests in flight to a single host")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each request")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of targets admitted to the scheduler at once")
	cmd.Flags().Bool("tls-verify", false,
		"Verify TLS certificates")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Largest response body in bytes that is processed")
	cmd.Flags().Float64("rate-limit", 0,
		"Requests per second per host (0 disables)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header")
	cmd.Flags().String("proxy", "",
		"Proxy URL (socks5://, socks5h://, http://, https:// or host:port for SOCKS5)")
	cmd.Flags().StringArrayP("header", "H", nil,
		"Extra request header \"Name: Value\" (repeatable)")
	cmd.Flags().String("cookie", "",
		"Cookie header sent with every request")

	// Configuration file
	cmd.Flags().String("config", "",
		"Configuration file path (default: .wordlist3r in current dir, XDG config dir or home)")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := wlog.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runExtract(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the config file and cobra flags,
// in increasing order of precedence. Only flags given on the command line
// override values from the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}
	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	if err := errors.Join(
		overrideFlag(cmd, "min-length", &cfg.MinLength, flags.GetInt),
		overrideFlag(cmd, "max-length", &cfg.MaxLength, flags.GetInt),
		overrideFlag(cmd, "min-freq", &cfg.MinFreq, flags.GetInt),
		overrideFlag(cmd, "sort", &cfg.SortOutput, flags.GetBool),
		overrideFlag(cmd, "concurrency", &cfg.GlobalConcurrency, flags.GetInt),
		overrideFlag(cmd, "per-host", &cfg.PerHostConcurrency, flags.GetInt),
		overrideFlag(cmd, "timeout", &cfg.Timeout, flags.GetDuration),
		overrideFlag(cmd, "batch", &cfg.BatchSize, flags.GetInt),
		overrideFlag(cmd, "tls-verify", &cfg.TLSVerify, flags.GetBool),
		overrideFlag(cmd, "max-body-size", &cfg.MaxBodySize, flags.GetInt64),
		overrideFlag(cmd, "rate-limit", &cfg.RateLimit, flags.GetFloat64),
		overrideFlag(cmd, "user-agent", &cfg.UserAgent, flags.GetString),
		overrideFlag(cmd, "proxy", &cfg.Proxy, flags.GetString),
		overrideFlag(cmd, "cookie", &cfg.Cookie, flags.GetString),
	); err != nil {
		return nil, err
	}

	if flags.Changed("no-ip-filter") {
		noIPFilter, err := flags.GetBool("no-ip-filter")
		if err != nil {
			return nil, err
		}
		cfg.IPFilter = !noIPFilter
	}

	stopWords, err := flags.GetStringArray("stop-word")
	if err != nil {
		return nil, err
	}
	cfg.ExtraStopWords = append(cfg.ExtraStopWords, stopWords...)

	rawHeaders, err := flags.GetStringArray("header")
	if err != nil {
		return nil, err
	}
	for _, raw := range rawHeaders {
		name, value, err := parseHeader(raw)
		if err != nil {
			return nil, err
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		cfg.Headers[name] = value
	}

	cfg.OutputFile, err = flags.GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = flags.GetString("report")
	if err != nil {
		return nil, err
	}

	urls, err := flags.GetStringArray("url")
	if err != nil {
		return nil, err
	}
	cfg.URLs = append(append([]string{}, args...), urls...)

	files, err := flags.GetStringArray("file")
	if err != nil {
		return nil, err
	}
	fileList, err := flags.GetStringSlice("files")
	if err != nil {
		return nil, err
	}
	cfg.Files = expandPaths(append(files, fileList...))

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// applyConfigFile loads the config file, if any, onto cfg.
// A missing file is only an error when the path was given explicitly.
func applyConfigFile(cfg *config.Config) error {
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		if cfg.ConfigFilePath != "" {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	file.Apply(cfg)
	return nil
}

// overrideFlag copies the value of flag name into dst when the flag was
// set on the command line.
func overrideFlag[T any](cmd *cobra.Command, name string, dst *T, get func(string) (T, error)) error {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := get(name)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

// parseHeader splits a "Name: Value" header argument.
func parseHeader(raw string) (string, string, error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.ContainsAny(name, " \t") {
		return "", "", fmt.Errorf("%w: %q", errInvalidHeader, raw)
	}
	return name, strings.TrimSpace(value), nil
}

// expandPaths expands a leading ~ and glob patterns. Patterns that match
// nothing are kept as literal paths so that they are reported as unreadable.
func expandPaths(patterns []string) []string {
	paths := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		pattern = expandHome(strings.TrimSpace(pattern))
		if pattern == "" {
			continue
		}

		if !strings.ContainsAny(pattern, "*?[") {
			paths = append(paths, pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil || len(matches) == 0 {
			paths = append(paths, pattern)
			continue
		}
		paths = append(paths, matches...)
	}
	return paths
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// clientOptions maps the config onto HTTP client options.
func clientOptions(cfg *config.Config) fetcher.ClientOptions {
	return fetcher.ClientOptions{
		Timeout:   cfg.Timeout,
		TLSVerify: cfg.TLSVerify,
		Proxy:     cfg.Proxy,
		HostConfig: func(host string) fetcher.HostOverride {
			site := cfg.SiteConfig(host)
			return fetcher.HostOverride{Cookie: site.Cookie, Headers: site.Headers}
		},
		MaxConnsPerHost: cfg.PerHostConcurrency,
	}
}

// filterOptions maps the config onto word filter options.
func filterOptions(cfg *config.Config) frequency.Options {
	return frequency.Options{
		MinLength:      cfg.MinLength,
		MaxLength:      cfg.MaxLength,
		MinFreq:        cfg.MinFreq,
		IPFilter:       cfg.IPFilter,
		Sort:           cfg.SortOutput,
		ExtraStopWords: cfg.ExtraStopWords,
	}
}

// runExtract executes one extraction run and writes its outputs.
func runExtract(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout, stderr io.Writer) error {
	targets, stats := urlset.Build(cfg.URLs, cfg.Files, urlset.WithLogger(logger))
	if len(targets) == 0 {
		return fmt.Errorf("%w (%d invalid inputs, %d unreadable files)",
			pipeline.ErrEmptyInput, stats.Invalid, stats.UnreadableFiles)
	}

	logger.Info("starting extraction",
		"targets", len(targets),
		"duplicates", stats.Duplicates,
		"invalid", stats.Invalid,
		"concurrency", cfg.GlobalConcurrency,
		"perHost", cfg.PerHostConcurrency,
		"proxy", cfg.Proxy,
	)

	client, err := fetcher.NewHTTPClient(clientOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %w", err)
	}

	f := fetcher.New(client,
		fetcher.WithLogger(logger),
		fetcher.WithGlobalConcurrency(cfg.GlobalConcurrency),
		fetcher.WithPerHostConcurrency(cfg.PerHostConcurrency),
		fetcher.WithBatchSize(cfg.BatchSize),
		fetcher.WithMaxBodySize(cfg.MaxBodySize),
		fetcher.WithUserAgent(cfg.UserAgent),
		fetcher.WithRateLimit(cfg.RateLimit),
	)

	prog := newProgress(logger, len(targets), cfg.Verbose)
	p := pipeline.New(f,
		pipeline.WithLogger(logger),
		pipeline.WithFilterOptions(filterOptions(cfg)),
		pipeline.WithObserver(prog.observe),
	)

	prog.start()
	result, err := p.Run(ctx, targets)
	prog.stop()
	if result == nil {
		return err
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	summary := result.Summary
	summary.InvalidInputs = stats.Invalid
	summary.UnreadableFiles = stats.UnreadableFiles

	if cfg.OutputFile == "" {
		if err := report.WriteWordlist(stdout, result.Wordlist); err != nil {
			return err
		}
	} else if err := report.WriteWordlistFile(cfg.OutputFile, result.Wordlist); err != nil {
		return err
	}

	if cfg.ReportFile != "" {
		if err := report.WriteReportFile(cfg.ReportFile, summary); err != nil {
			return err
		}
	}

	if _, err := report.NewSimpleWriter(stderr, report.WithVerbose(cfg.Verbose)).Write(summary); err != nil {
		logger.Error("failed to write summary", "error", err)
	}

	if result.Wordlist.IsEmpty() {
		logger.Warn("wordlist is empty; try lowering --min-freq or --min-length",
			"uniqueTokens", summary.UniqueTokens)
	}
	if summary.Interrupted {
		logger.Warn("run interrupted, partial wordlist written",
			"completed", summary.Completed,
			"targets", summary.Targets)
	}

	return nil
}
