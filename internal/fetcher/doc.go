// Package fetcher retrieves Targets over HTTP under bounded concurrency.
//
// Two counting semaphores gate every request: one global semaphore caps the
// number of requests in flight system-wide and one semaphore per host caps
// the load placed on any single server. A Target takes its host slot before
// a global slot. Targets are admitted to the scheduler in batches, which
// bounds how many Targets are outstanding at once without making later
// batches wait for earlier ones to finish.
//
// Failures never abort a run. Each Target yields exactly one FetchResult
// unless the run is cancelled,
// either a success carrying the body or a failure classified as timeout,
// tls_error, connection_error, http_error or too_large.
//
// TLS verification is disabled by default because recon targets commonly
// present self-signed or mismatched certificates. Requests can be routed
// through an HTTP or SOCKS5 proxy using golang.org/x/net/proxy.
package fetcher
