// Package urlutil resolves and normalises URLs for crawling.
//
// Two normal forms exist: link identifiers keep their fragment (the fragment
// addresses a content block), while visit URLs have it stripped so two
// anchors into the same page compare equal in the visited set.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ResolveLink resolves a possibly relative or fragment-only reference
// against a base URL and returns it as an absolute identifier.
// The fragment is preserved.
func ResolveLink(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", ref, err)
	}
	resolved := base.ResolveReference(u)
	resolved.Host = strings.ToLower(resolved.Host)
	resolved.Scheme = strings.ToLower(resolved.Scheme)
	return resolved.String(), nil
}

// NormalizeVisit resolves a reference against a base URL into the comparable
// form used by the visited set: absolute, lowercased host, fragment stripped.
func NormalizeVisit(base *url.URL, ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", ref, err)
	}
	resolved := base.ResolveReference(u)
	resolved.Fragment = ""
	resolved.Host = strings.ToLower(resolved.Host)
	resolved.Scheme = strings.ToLower(resolved.Scheme)
	return resolved.String(), nil
}

// RegistrableDomain returns the domain + public-suffix portion of a hostname
// (e.g. "docs.example.co.uk" -> "example.co.uk"). Hosts without a registrable
// domain (IPs, localhost) are returned as-is.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

// InScope reports whether rawURL is an http(s) URL whose registrable domain
// matches scope.
func InScope(rawURL, scope string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return RegistrableDomain(u.Hostname()) == scope
}
