package urlutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolveLink(t *testing.T) {
	base := mustParse(t, "https://www.example.com/docs/page")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"fragment only", "#section-1", "https://www.example.com/docs/page#section-1"},
		{"relative path", "other", "https://www.example.com/docs/other"},
		{"absolute path", "/about", "https://www.example.com/about"},
		{"already absolute", "https://www.example.com/x#y", "https://www.example.com/x#y"},
		{"uppercase host lowered", "HTTPS://WWW.Example.COM/x", "https://www.example.com/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveLink(base, tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeVisit_StripsFragment(t *testing.T) {
	base := mustParse(t, "https://example.com/a")

	got, err := NormalizeVisit(base, "/b#frag")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/b", got)

	// Two anchors into the same page compare equal.
	other, err := NormalizeVisit(base, "/b#other")
	require.NoError(t, err)
	assert.Equal(t, got, other)
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"www.example.com", "example.com"},
		{"docs.example.co.uk", "example.co.uk"},
		{"example.com", "example.com"},
		{"localhost", "localhost"},
		{"127.0.0.1", "127.0.0.1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RegistrableDomain(tt.host), "host %s", tt.host)
	}
}

func TestInScope(t *testing.T) {
	assert.True(t, InScope("https://docs.example.com/page", "example.com"))
	assert.True(t, InScope("http://example.com/", "example.com"))
	assert.False(t, InScope("https://other.org/", "example.com"))
	assert.False(t, InScope("mailto:hi@example.com", "example.com"))
	assert.False(t, InScope("javascript:void(0)", "example.com"))
}
