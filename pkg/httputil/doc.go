// Package httputil provides HTTP helpers for the forecast API client.
//
// # Retry
//
// [Retry] re-runs an operation with exponential backoff when it fails with a
// [RetryableError]. [CheckStatus] classifies responses: 5xx and 429 become
// retryable, 404 becomes NOT_FOUND and other 4xx responses fail at once.
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp)
//	})
//
// # Caching
//
// [Cached] is a read-through helper over any [cache.Cache]: it returns the
// stored body when present and otherwise calls fetch and stores the result.
//
// [cache.Cache]: github.com/matzehuels/forecastviz/pkg/cache#Cache
package httputil
