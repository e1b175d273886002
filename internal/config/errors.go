package config

import "errors"

// Configuration validation errors returned by Config.Validate().
var (
	// ErrNoInput is returned when neither URLs nor URL files are given.
	ErrNoInput = errors.New("no input specified: provide URLs or use --file")

	// ErrInvalidLengthRange is returned when min length is below 1 or
	// greater than max length.
	ErrInvalidLengthRange = errors.New("invalid word length range: min must be >= 1 and <= max")

	// ErrInvalidMinFreq is returned when the minimum frequency is below 1.
	ErrInvalidMinFreq = errors.New("invalid min frequency: must be at least 1")

	// ErrInvalidConcurrency is returned when a concurrency limit is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: global and per-host limits must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is not positive.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be positive")

	// ErrInvalidRateLimit is returned when the rate limit is negative.
	// Use 0 to disable rate limiting.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")
)
