// Package httputil provides the HTTP client plumbing used to fetch datasets
// from remote servers.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff, retrying only errors
// wrapped in [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return doRequest()
//	})
//
// # Client
//
// [Client.GetBytes] issues a GET request through [Retry], classifying
// responses into coded errors:
//
//   - 404 becomes FILE_NOT_FOUND
//   - 429 becomes a rate limit error carrying Retry-After
//   - 5xx and transport failures are retried, then become NETWORK_ERROR
//
// Every request and response is reported to the registered
// observability HTTP hooks.
package httputil
