package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalKey(t *testing.T) {
	tests := []struct {
		name string
		href string
		want string
	}{
		{"plain url", "https://a.com/x", "https://a.com/x"},
		{"trailing slash stripped", "https://a.com/x/", "https://a.com/x"},
		{"root slash kept", "https://a.com/", "https://a.com/"},
		{"no path", "https://a.com", "https://a.com"},
		{"query kept verbatim", "https://a.com/x?b=2&a=1", "https://a.com/x?b=2&a=1"},
		{"fragment dropped", "https://a.com/x#section", "https://a.com/x"},
		{"lower-cased", "HTTPS://A.com/Path", "https://a.com/path"},
		{"port kept", "https://a.com:8443/x", "https://a.com:8443/x"},
		{"relative href falls back to raw", "foo/Bar", "foo/bar"},
		{"scheme-less falls back to raw", "a.com/x", "a.com/x"},
		{"unparsable falls back to raw", "https://a.com/%zz-Bad", "https://a.com/%zz-bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalKey(tt.href))
		})
	}
}

func TestCanonicalKeyDuplicateIdentity(t *testing.T) {
	// The two spellings from the trailing-slash scenario collapse to one key.
	assert.Equal(t, CanonicalKey("https://a.com/x"), CanonicalKey("https://a.com/x/"))
	// Distinct queries stay distinct.
	assert.NotEqual(t, CanonicalKey("https://a.com/x?a=1"), CanonicalKey("https://a.com/x?a=2"))
}
