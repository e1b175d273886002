package config

import (
	"maps"
	"strings"
	"time"
)

// SiteConfig holds request customization for a single host.
type SiteConfig struct {
	// Cookie is an HTTP cookie to use for this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this host.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// File represents the structure of the .wordlist3r configuration file.
// Pointer fields distinguish "not set" from a zero value so that only the
// options present in the file override the defaults.
type File struct {
	MinLength          *int     `yaml:"min_length,omitempty"`
	MaxLength          *int     `yaml:"max_length,omitempty"`
	MinFreq            *int     `yaml:"min_freq,omitempty"`
	IPFilter           *bool    `yaml:"ip_filter,omitempty"`
	SortOutput         *bool    `yaml:"sort_output,omitempty"`
	GlobalConcurrency  *int     `yaml:"global_concurrency,omitempty"`
	PerHostConcurrency *int     `yaml:"per_host_concurrency,omitempty"`
	TimeoutSeconds     *int     `yaml:"timeout_seconds,omitempty"`
	BatchSize          *int     `yaml:"batch_size,omitempty"`
	TLSVerify          *bool    `yaml:"tls_verify,omitempty"`
	MaxBodySize        *int64   `yaml:"max_body_size,omitempty"`
	UserAgent          *string  `yaml:"user_agent,omitempty"`
	RateLimit          *float64 `yaml:"rate_limit,omitempty"`
	Proxy              *string  `yaml:"proxy,omitempty"`
	ExtraStopWords     []string `yaml:"extra_stop_words,omitempty"`

	// Defaults apply to every host.
	Defaults SiteConfig `yaml:"defaults,omitempty"`

	// Sites maps hostnames to host-specific overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`
}

// Apply copies every option set in the file onto c.
func (cf *File) Apply(c *Config) {
	setIfPresent(&c.MinLength, cf.MinLength)
	setIfPresent(&c.MaxLength, cf.MaxLength)
	setIfPresent(&c.MinFreq, cf.MinFreq)
	setIfPresent(&c.IPFilter, cf.IPFilter)
	setIfPresent(&c.SortOutput, cf.SortOutput)
	setIfPresent(&c.GlobalConcurrency, cf.GlobalConcurrency)
	setIfPresent(&c.PerHostConcurrency, cf.PerHostConcurrency)
	setIfPresent(&c.BatchSize, cf.BatchSize)
	setIfPresent(&c.TLSVerify, cf.TLSVerify)
	setIfPresent(&c.MaxBodySize, cf.MaxBodySize)
	setIfPresent(&c.UserAgent, cf.UserAgent)
	setIfPresent(&c.RateLimit, cf.RateLimit)
	setIfPresent(&c.Proxy, cf.Proxy)

	if cf.TimeoutSeconds != nil {
		c.Timeout = time.Duration(*cf.TimeoutSeconds) * time.Second
	}
	if len(cf.ExtraStopWords) > 0 {
		c.ExtraStopWords = append(c.ExtraStopWords, cf.ExtraStopWords...)
	}

	if cf.Defaults.Cookie != "" {
		c.Cookie = cf.Defaults.Cookie
	}
	if len(cf.Defaults.Headers) > 0 {
		if c.Headers == nil {
			c.Headers = make(map[string]string, len(cf.Defaults.Headers))
		}
		maps.Copy(c.Headers, cf.Defaults.Headers)
	}

	if len(cf.Sites) > 0 {
		if c.Sites == nil {
			c.Sites = make(map[string]SiteConfig, len(cf.Sites))
		}
		for host, site := range cf.Sites {
			c.Sites[strings.ToLower(host)] = site
		}
	}
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// SiteConfig returns the request customization for host.
// The global cookie and headers of c are merged with the host's overrides;
// a host cookie replaces the global one and host headers win on conflict.
func (c *Config) SiteConfig(host string) SiteConfig {
	result := SiteConfig{Cookie: c.Cookie}
	if len(c.Headers) > 0 {
		result.Headers = maps.Clone(c.Headers)
	}

	site, ok := c.Sites[strings.ToLower(host)]
	if !ok {
		return result
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	return result
}
