package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Value patterns that look like credentials regardless of field name.
var (
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern = regexp.MustCompile(`(?i)^bearer\s+.+$`)
)

// RedactOptions returns the masq options applied to every log handler.
// The session token fields matter most here: the gateway forwards the
// caller's session on every peer call and must never echo it to logs.
func RedactOptions() []masq.Option {
	return []masq.Option{
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldName("sessionToken"),
		masq.WithFieldName("session_token"),
		masq.WithFieldName("apiKey"),
		masq.WithFieldName("api_key"),
		masq.WithFieldName("authorization"),
		masq.WithFieldName("cookie"),

		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),

		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
	}
}

// NewReplaceAttr creates a ReplaceAttr function for slog.HandlerOptions
// that redacts sensitive data.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	allOpts := append(RedactOptions(), opts...)
	return masq.New(allOpts...)
}
