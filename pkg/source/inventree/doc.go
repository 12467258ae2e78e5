// Package inventree fetches part hierarchies from an InvenTree host.
//
// # Overview
//
// The host's product tree plugin serves a nested JSON hierarchy for a part:
//
//	GET {host}/plugin/product_tree/api/tree/{id}/?max_depth=10&include_substitutes=1
//
// [Client.FetchTree] requests that endpoint with token authentication,
// retries transient failures, caches responses and decodes them into a
// [tree.Node].
//
// # Errors
//
// Failures carry codes from [errors]:
//
//   - PART_NOT_FOUND: the host has no such part (404)
//   - UNAUTHORIZED / FORBIDDEN: the token was rejected (401 / 403)
//   - NETWORK_ERROR: connection failures and 5xx after retries
//   - TIMEOUT: the request deadline passed
//   - INVALID_FORMAT: the response is not a product tree
//
// # Caching
//
// Responses are cached per host, part, depth and substitutes flag. Keys are
// scoped by a hash of the API token because the host filters hierarchies by
// the caller's permissions. Set [FetchOptions.Refresh] to bypass the cache.
//
// [tree.Node]: github.com/matzehuels/parttree/pkg/tree.Node
// [errors]: github.com/matzehuels/parttree/pkg/errors
package inventree
