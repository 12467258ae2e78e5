// Package httputil provides the HTTP plumbing shared by host clients.
//
// # Overview
//
//   - [Client]: GET requests with default headers, status mapping and
//     observability hooks
//   - [Retry]: automatic retry with exponential backoff
//
// # Status Mapping
//
// [Client] turns non-200 responses into sentinel errors so callers can
// decide what to tell the user:
//
//   - 404: [ErrNotFound]
//   - 401: [ErrUnauthorized]
//   - 403: [ErrForbidden]
//   - 429 and 5xx: [ErrNetwork], wrapped as retryable
//   - anything else: [ErrNetwork]
//
// Transport failures (DNS, refused connections, timeouts) are retryable
// [ErrNetwork] errors as well.
//
// # Retry
//
// [Retry] only repeats operations whose error was wrapped with
// [Retryable]. The delay doubles after each failed attempt:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    body, err = client.Get(ctx, url, nil)
//	    return err
//	})
package httputil
