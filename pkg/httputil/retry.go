package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	fverrors "github.com/matzehuels/forecastviz/pkg/errors"
)

// RetryableError marks a transient failure that [Retry] should try again.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// maxRetryAfter caps how long an upstream Retry-After hint can stall a call.
const maxRetryAfter = 30 * time.Second

// Retry calls fn until it succeeds, returns a non-retryable error, or
// attempts run out. The wait starts at delay and doubles; a rate-limit
// error's Retry-After hint stretches it up to maxRetryAfter.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	for i := 1; ; i++ {
		err := fn()
		if err == nil || !IsRetryable(err) || i == attempts {
			return err
		}
		wait := nextDelay(err, delay)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

func nextDelay(err error, backoff time.Duration) time.Duration {
	var rl *fverrors.RateLimitedError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		hint := min(time.Duration(rl.RetryAfter)*time.Second, maxRetryAfter)
		return max(backoff, hint)
	}
	return backoff
}

// RetryWithBackoff retries three times starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// CheckStatus maps a non-2xx response to a coded error: 429 and 5xx are
// retryable, 404 is NOT_FOUND and everything else is INVALID_INPUT. The
// first 512 bytes of the body go into the message; the body is not closed.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := fmt.Sprintf("%s %s: %s", resp.Request.Method, resp.Request.URL, resp.Status)
	if len(snippet) > 0 {
		msg += ": " + string(snippet)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Retryable(&fverrors.RateLimitedError{RetryAfter: retryAfter(resp), Message: msg})
	case resp.StatusCode >= 500:
		return Retryable(fverrors.New(fverrors.ErrCodeNetwork, "%s", msg))
	case resp.StatusCode == http.StatusNotFound:
		return fverrors.New(fverrors.ErrCodeNotFound, "%s", msg)
	default:
		return fverrors.New(fverrors.ErrCodeInvalidInput, "%s", msg)
	}
}

func retryAfter(resp *http.Response) int {
	if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
		return s
	}
	return 0
}
