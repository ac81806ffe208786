package errors

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

const (
	maxTickerLen = 32
	maxPathLen   = 500
)

// tickerPattern admits exchange symbols such as AAPL, BRK.B, ^GSPC and EURUSD=X.
var tickerPattern = regexp.MustCompile(`^[A-Za-z0-9.^=_-]+$`)

func hasControl(s string) bool {
	return strings.ContainsFunc(s, unicode.IsControl)
}

// ValidateTicker accepts a symbol that is safe to use in URLs, cache keys
// and file names.
func ValidateTicker(ticker string) error {
	switch {
	case ticker == "":
		return New(ErrCodeInvalidTicker, "ticker cannot be empty")
	case len(ticker) > maxTickerLen:
		return New(ErrCodeInvalidTicker, "ticker longer than %d characters", maxTickerLen)
	case hasControl(ticker):
		return New(ErrCodeInvalidTicker, "ticker contains control characters")
	case strings.Contains(ticker, ".."):
		return New(ErrCodeInvalidTicker, "ticker contains %q", "..")
	case !tickerPattern.MatchString(ticker):
		return New(ErrCodeInvalidTicker, "invalid ticker: %q", ticker)
	}
	return nil
}

// ValidatePath accepts a relative, forward-slash path that stays inside
// its base directory.
func ValidatePath(path string) error {
	switch {
	case path == "":
		return New(ErrCodeInvalidPath, "path cannot be empty")
	case len(path) > maxPathLen:
		return New(ErrCodeInvalidPath, "path longer than %d characters", maxPathLen)
	case hasControl(path):
		return New(ErrCodeInvalidPath, "path contains control characters")
	case strings.HasPrefix(path, "/"):
		return New(ErrCodeInvalidPath, "path must be relative")
	case strings.Contains(path, ".."):
		return New(ErrCodeInvalidPath, "path cannot contain %q", "..")
	case strings.Contains(path, `\`):
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidateURL accepts absolute http and https URLs with a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https, got %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	return nil
}

// ValidateFormat checks format against the allowed output formats.
func ValidateFormat(format string, allowed ...string) error {
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}
