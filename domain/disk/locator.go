package disk

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DiskHost is the public web host of Yandex Disk share links.
const DiskHost = "disk.yandex.ru"

const publicHashPrefix = "https://" + DiskHost + "/public/?hash="

// acceptedForms is shown to the operator whenever input matches no known shape.
const acceptedForms = "link does not match any supported format:\n" +
	"1. Short link: https://disk.yandex.ru/d/...\n" +
	"2. Full link: https://disk.yandex.ru/public/?hash=...\n" +
	"3. Hash: dAEMkc1Q..."

var (
	shortLinkPattern   = regexp.MustCompile(`^https?://disk\.yandex\.ru/d/[a-zA-Z0-9\-]+`)
	shortPrefixPattern = regexp.MustCompile(`^https?://disk\.yandex\.ru/d/`)
	hashPattern        = regexp.MustCompile(`^[a-zA-Z0-9+/]+=*$`)
)

// Locator is a canonical public resource reference accepted verbatim by the
// owner-lookup endpoint.
type Locator string

func (l Locator) String() string { return string(l) }

// LocatorKind labels the shape of a share reference.
type LocatorKind string

const (
	LocatorShort   LocatorKind = "short"
	LocatorFull    LocatorKind = "full"
	LocatorHash    LocatorKind = "hash"
	LocatorUnknown LocatorKind = "unknown"
)

// Normalize maps a short link, a full link carrying a hash parameter, or a bare
// public hash to the form the owner-lookup endpoint accepts. Any other input
// yields a *ParseError.
func Normalize(input string) (Locator, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return "", &ParseError{Input: input, Reason: "link must not be empty"}
	}

	if shortLinkPattern.MatchString(raw) {
		return Locator(raw), nil
	}

	if strings.HasPrefix(raw, "http") {
		return normalizeWebLink(raw)
	}

	if hashPattern.MatchString(raw) {
		return Locator(raw), nil
	}

	return "", &ParseError{Input: input, Reason: acceptedForms}
}

func normalizeWebLink(raw string) (Locator, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", &ParseError{Input: raw, Reason: fmt.Sprintf("malformed link: %v", err)}
	}

	if !strings.Contains(parsed.Host, DiskHost) {
		return "", &ParseError{Input: raw, Reason: fmt.Sprintf("link does not point to Yandex Disk: %s", parsed.Host)}
	}

	if hash, ok := hashParam(parsed.RawQuery); ok {
		return Locator(publicHashPrefix + hash), nil
	}

	if strings.Contains(parsed.Path, "/d/") {
		return Locator(raw), nil
	}

	return "", &ParseError{Input: raw, Reason: "link has neither a hash parameter nor a /d/ path"}
}

// hashParam extracts the first non-empty hash value. The query is split on '&'
// only, so ';' stays part of the value. The value is decoded twice because
// share pages emit the hash double-encoded; only the first pass turns '+'
// into a space.
func hashParam(rawQuery string) (string, bool) {
	for _, pair := range strings.Split(rawQuery, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || lenientUnescape(key, true) != "hash" {
			continue
		}
		value = lenientUnescape(value, true)
		if value == "" {
			continue
		}
		return lenientUnescape(value, false), true
	}
	return "", false
}

// lenientUnescape decodes valid %XX escapes and keeps malformed ones as they
// are. With plus set, '+' decodes to a space first.
func lenientUnescape(s string, plus bool) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '+' && plus:
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

// Classify labels input without failing. It is diagnostic only and does not
// guarantee Normalize will accept the input.
func Classify(input string) LocatorKind {
	raw := strings.TrimSpace(input)

	if shortPrefixPattern.MatchString(raw) {
		return LocatorShort
	}

	if strings.HasPrefix(raw, "http") {
		if parsed, err := url.Parse(raw); err == nil && strings.Contains(parsed.Host, DiskHost) {
			if _, ok := hashParam(parsed.RawQuery); ok {
				return LocatorFull
			}
		}
	}

	if hashPattern.MatchString(raw) {
		return LocatorHash
	}

	return LocatorUnknown
}

// IsValid reports whether Normalize accepts input.
func IsValid(input string) bool {
	_, err := Normalize(input)
	return err == nil
}
