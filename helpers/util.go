package helpers

import (
	"net/url"
	"strings"
)

// NormalizeSpace collapses runs of whitespace into single spaces and trims the result.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DomainOf returns the lowercased host of a URL without a leading "www." prefix.
// An unparseable URL yields an empty string.
func DomainOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// SameDomain reports whether two URLs share the same normalized domain.
func SameDomain(a, b string) bool {
	da := DomainOf(a)
	return da != "" && da == DomainOf(b)
}

// ResolveURL resolves a possibly-relative href against a base URL. Either
// side failing to parse yields an empty string.
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}

// Truncate shortens a string to at most n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
