package disk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHash = "dAEMkc1QDY4SPb5+BlFnEKkx1oWX7/p5zYSCvHGQ5/6FQeE4ICFyXScld621gdJYq/J6bpmRyOJonT3VoXnDag=="

func TestNormalize_AcceptedForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Locator
	}{
		{
			name:     "short link unchanged",
			input:    "https://disk.yandex.ru/d/abc-123",
			expected: "https://disk.yandex.ru/d/abc-123",
		},
		{
			name:     "short link over plain http",
			input:    "http://disk.yandex.ru/d/446d6f44-bb36-48bb-973c-4e1c71e33ccd",
			expected: "http://disk.yandex.ru/d/446d6f44-bb36-48bb-973c-4e1c71e33ccd",
		},
		{
			name:     "surrounding whitespace is trimmed",
			input:    "  https://disk.yandex.ru/d/abc-123\n",
			expected: "https://disk.yandex.ru/d/abc-123",
		},
		{
			name:     "full link with encoded hash",
			input:    "https://disk.yandex.ru/public/?hash=dAEMkc1Q%2Bab%2Fcd%3D%3D",
			expected: "https://disk.yandex.ru/public/?hash=dAEMkc1Q+ab/cd==",
		},
		{
			name:     "full link ignores other parameters",
			input:    "https://disk.yandex.ru/public/?foo=bar&hash=abc%3D&utm_source=mail",
			expected: "https://disk.yandex.ru/public/?hash=abc=",
		},
		{
			name:     "full link with double encoded hash",
			input:    "https://disk.yandex.ru/public?hash=abc%252Bdef",
			expected: "https://disk.yandex.ru/public/?hash=abc+def",
		},
		{
			name:     "full link keeps semicolon in hash",
			input:    "https://disk.yandex.ru/public/?hash=abc;def",
			expected: "https://disk.yandex.ru/public/?hash=abc;def",
		},
		{
			name:     "full link keeps malformed escape",
			input:    "https://disk.yandex.ru/public/?hash=ab%2Bc%zz",
			expected: "https://disk.yandex.ru/public/?hash=ab+c%zz",
		},
		{
			name:     "full link double encoded with malformed escape",
			input:    "https://disk.yandex.ru/public/?hash=a%252Bb%25zz",
			expected: "https://disk.yandex.ru/public/?hash=a+b%zz",
		},
		{
			name:     "full link skips empty hash",
			input:    "https://disk.yandex.ru/public/?hash=&hash=xyz",
			expected: "https://disk.yandex.ru/public/?hash=xyz",
		},
		{
			name:     "full link with trailing percent",
			input:    "https://disk.yandex.ru/public/?hash=abc%",
			expected: "https://disk.yandex.ru/public/?hash=abc%",
		},
		{
			name:     "full link on a subdomain host",
			input:    "https://www.disk.yandex.ru/public/?hash=xyz",
			expected: "https://disk.yandex.ru/public/?hash=xyz",
		},
		{
			name:     "d path that misses the strict short pattern",
			input:    "https://disk.yandex.ru/client/d/xyz",
			expected: "https://disk.yandex.ru/client/d/xyz",
		},
		{
			name:     "bare hash",
			input:    sampleHash,
			expected: Locator(sampleHash),
		},
		{
			name:     "bare hash without padding",
			input:    "abcDEF123+/",
			expected: "abcDEF123+/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		reasonContains string
	}{
		{name: "empty", input: "", reasonContains: "empty"},
		{name: "whitespace only", input: " \t ", reasonContains: "empty"},
		{name: "foreign host", input: "https://example.com/d/abc", reasonContains: "example.com"},
		{name: "disk host without hash or d path", input: "https://disk.yandex.ru/client/disk", reasonContains: "hash parameter"},
		{name: "empty hash parameter", input: "https://disk.yandex.ru/public/?hash=", reasonContains: "hash parameter"},
		{name: "punctuation", input: "not a link!", reasonContains: "Short link"},
		{name: "other scheme", input: "ftp://disk.yandex.ru/d/abc", reasonContains: "Full link"},
		{name: "padding in the middle", input: "abc=def", reasonContains: "Hash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			require.Error(t, err)
			assert.Empty(t, got)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			assert.Contains(t, parseErr.Error(), tt.reasonContains)
		})
	}
}

func TestNormalize_ShortLinksAreIdentity(t *testing.T) {
	tokens := []string{"a", "abc-123", "ZZZ", "0-0-0", "446d6f44-bb36-48bb-973c-4e1c71e33ccd"}
	for _, scheme := range []string{"http", "https"} {
		for _, token := range tokens {
			link := scheme + "://disk.yandex.ru/d/" + token
			got, err := Normalize(link)
			require.NoError(t, err, link)
			assert.Equal(t, Locator(link), got)
		}
	}
}

func TestNormalize_HashesAreIdentity(t *testing.T) {
	hashes := []string{"A", "z9", "ab+/", "abc=", "abc==", "Q29udGVudA===", sampleHash}
	for _, h := range hashes {
		got, err := Normalize(h)
		require.NoError(t, err, h)
		assert.Equal(t, Locator(h), got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		input    string
		expected LocatorKind
	}{
		{"https://disk.yandex.ru/d/abc-123", LocatorShort},
		{"https://disk.yandex.ru/d/", LocatorShort},
		{"https://disk.yandex.ru/public/?hash=abc", LocatorFull},
		{"https://disk.yandex.ru/public/?hash=abc;def", LocatorFull},
		{"https://disk.yandex.ru/public/?hash=ab%zz", LocatorFull},
		{sampleHash, LocatorHash},
		{"https://disk.yandex.ru/client/d/xyz", LocatorUnknown},
		{"https://example.com/public/?hash=abc", LocatorUnknown},
		{"", LocatorUnknown},
		{"hello world", LocatorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.input))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("https://disk.yandex.ru/d/abc"))
	assert.True(t, IsValid(sampleHash))
	assert.False(t, IsValid("https://example.com/x"))
	assert.False(t, IsValid(""))
}

func TestLenientUnescape(t *testing.T) {
	tests := []struct {
		in       string
		plus     bool
		expected string
	}{
		{"abc", true, "abc"},
		{"a+b", true, "a b"},
		{"a+b", false, "a+b"},
		{"%41%2b", false, "A+"},
		{"%zz%4", true, "%zz%4"},
		{"%%41", false, "%A"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, lenientUnescape(tt.in, tt.plus))
		})
	}
}
