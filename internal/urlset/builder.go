package urlset

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/nao1215/wordlist3r/internal/model"
)

// maxLineSize bounds a single line read from a URL file.
const maxLineSize = 1024 * 1024

// Stats reports how the raw inputs were handled.
type Stats struct {
	// Raw is the number of non-blank, non-comment entries seen.
	Raw int

	// Invalid is the number of entries that could not be parsed as a URL.
	Invalid int

	// Duplicates is the number of entries dropped because an equivalent
	// Target was already present.
	Duplicates int

	// Files is the number of files read successfully.
	Files int

	// UnreadableFiles is the number of files that could not be opened or read.
	UnreadableFiles int
}

// Builder accumulates raw URL inputs into a deduplicated, ordered set of Targets.
// Insertion order is preserved. A Builder is not safe for concurrent use.
type Builder struct {
	logger  *slog.Logger
	seen    map[string]struct{}
	targets []model.Target
	stats   Stats
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used to report skipped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		seen: make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Build is a convenience wrapper that adds urls and then every file in paths.
// Unreadable files are counted in Stats and never abort the build.
func Build(urls, paths []string, opts ...Option) ([]model.Target, Stats) {
	b := NewBuilder(opts...)
	b.AddURLs(urls...)
	for _, path := range paths {
		_ = b.AddFile(path) //nolint:errcheck // Counted in Stats.UnreadableFiles
	}
	return b.Targets(), b.Stats()
}

// AddURLs adds literal URL strings.
func (b *Builder) AddURLs(raw ...string) {
	for _, r := range raw {
		b.add(r)
	}
}

// AddFile reads one URL per line from the file at path.
func (b *Builder) AddFile(path string) error {
	f, err := os.Open(path) //nolint:gosec // User-provided URL list is intentional
	if err != nil {
		b.stats.UnreadableFiles++
		b.logger.Warn("cannot open URL file", "path", path, "error", err)
		return fmt.Errorf("failed to open URL file %s: %w", path, err)
	}
	defer f.Close()

	before := len(b.targets)
	if err := b.AddReader(f); err != nil {
		b.stats.UnreadableFiles++
		b.logger.Warn("cannot read URL file", "path", path, "error", err)
		return fmt.Errorf("failed to read URL file %s: %w", path, err)
	}

	b.stats.Files++
	b.logger.Info("loaded URL file", "path", path, "targets", len(b.targets)-before)
	return nil
}

// AddReader reads one URL per line from r.
// Blank lines and lines starting with '#' are ignored.
func (b *Builder) AddReader(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		b.add(scanner.Text())
	}
	return scanner.Err()
}

// add normalizes a single raw entry and appends it when new.
func (b *Builder) add(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return
	}
	b.stats.Raw++

	target, err := model.NewTarget(raw)
	if err != nil {
		b.stats.Invalid++
		b.logger.Debug("skipping invalid URL", "input", raw, "error", err)
		return
	}

	key := target.Key()
	if _, ok := b.seen[key]; ok {
		b.stats.Duplicates++
		return
	}
	b.seen[key] = struct{}{}
	b.targets = append(b.targets, target)
}

// Targets returns the ordered Targets collected so far.
func (b *Builder) Targets() []model.Target {
	out := make([]model.Target, len(b.targets))
	copy(out, b.targets)
	return out
}

// Stats returns the input statistics.
func (b *Builder) Stats() Stats {
	return b.stats
}
