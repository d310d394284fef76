// Package httputil provides the HTTP plumbing used to probe remote images.
//
// # Overview
//
//   - [Client]: ranged GET requests that read only the first bytes of a
//     resource, with retry on transient failures
//   - [Backoff]: retry with exponential delay
//   - [Store]: file-based JSON memo of previously probed values
//
// # Retry
//
// The client retries on:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// A 404 or 410 maps to NOT_FOUND and is returned immediately. Other 4xx
// responses map to NETWORK_ERROR without retry.
//
// # Store
//
// [Store] keeps small JSON values under the brickwall cache directory
// (see [cache.DefaultDir]) with a TTL based on file modification time.
// Scoped views are created with [Store.Namespace]:
//
//	store, _ := httputil.NewStore("", 30*24*time.Hour)
//	sizes := store.Namespace("probe:")
//	sizes.Set("https://example.com/a.jpg", size)
package httputil
