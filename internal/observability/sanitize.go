package observability

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rune caps for request values copied into log fields.
const (
	pathLimit      = 180
	methodLimit    = 10
	userAgentLimit = 200
	refererLimit   = 200
	ipLimit        = 64
)

// clip removes control and invalid runes and truncates to limit runes,
// marking truncation with a trailing "...".
func clip(value string, limit int) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == utf8.RuneError || unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
	if utf8.RuneCountInString(cleaned) <= limit {
		return cleaned
	}
	runes := []rune(cleaned)
	return string(runes[:limit]) + "..."
}

// SanitizePath cleans a request path or route pattern for logging.
func SanitizePath(p string) string {
	if p == "" {
		return "/"
	}
	return clip(p, pathLimit)
}

// SanitizeMethod upper-cases the method and drops anything unprintable.
func SanitizeMethod(method string) string {
	return strings.ToUpper(clip(method, methodLimit))
}

func SanitizeUserAgent(ua string) string {
	return clip(strings.TrimSpace(ua), userAgentLimit)
}

// SanitizeReferer keeps the scheme, host and path of a Referer header.
// Query strings and fragments are dropped since they often carry lead form
// data or tracking tokens.
func SanitizeReferer(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	u.User = nil
	return clip(u.String(), refererLimit)
}
