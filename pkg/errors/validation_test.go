package errors

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name     string
		validate func(string) error
		code     Code
		ok       []string
		bad      []string
	}{
		{
			name:     "ticker",
			validate: ValidateTicker,
			code:     ErrCodeInvalidTicker,
			ok:       []string{"AAPL", "msft", "BRK.B", "^GSPC", "EURUSD=X", "BF-B", strings.Repeat("A", 32)},
			bad:      []string{"", strings.Repeat("A", 33), "..", "AAPL/../x", "AA\x00PL", "AAPL\n", "AA PL", `AA\PL`, "AAPL?x=1"},
		},
		{
			name:     "path",
			validate: ValidatePath,
			code:     ErrCodeInvalidPath,
			ok:       []string{"AAPL.json", "data/AAPL.json"},
			bad:      []string{"", "/etc/passwd", "../secret.json", `data\AAPL.json`, "data\x01.json", strings.Repeat("a", 501)},
		},
		{
			name:     "url",
			validate: ValidateURL,
			code:     ErrCodeInvalidInput,
			ok:       []string{"https://example.com/path", "http://localhost:8000"},
			bad:      []string{"", "ftp://example.com", "file:///etc/passwd", "example.com", "http://", "http://%zz"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, in := range tt.ok {
				if err := tt.validate(in); err != nil {
					t.Errorf("%q rejected: %v", in, err)
				}
			}
			for _, in := range tt.bad {
				err := tt.validate(in)
				if err == nil {
					t.Errorf("%q accepted", in)
					continue
				}
				if !Is(err, tt.code) {
					t.Errorf("%q: code %q, want %q", in, GetCode(err), tt.code)
				}
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	if err := ValidateFormat("svg", "svg", "json"); err != nil {
		t.Errorf("svg rejected: %v", err)
	}
	err := ValidateFormat("gif", "svg", "json")
	if !Is(err, ErrCodeInvalidFormat) {
		t.Fatalf("gif: %v", err)
	}
	if !strings.Contains(UserMessage(err), "svg, json") {
		t.Errorf("message should list allowed formats: %q", UserMessage(err))
	}
}
