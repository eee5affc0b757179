package usecase

import (
	"encoding/base64"
	"net/url"
	"strings"
)

// redirectParam is the query parameter some search engines use to wrap the
// true destination in a click-through/tracking URL.
const redirectParam = "u"

// redirectVersionTag prefixes the base64 payload in the wrapped parameter
// (e.g. "a1aHR0cHM6..." where "a1" is the encoding version).
const redirectVersionTag = "a1"

// ResolveRedirect recovers the canonical destination from a search engine
// click-through URL. It never fails: any URL that does not match the
// supported redirect shape, or whose payload does not decode to a proper
// URL, is returned unchanged.
func ResolveRedirect(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	encoded := parsed.Query().Get(redirectParam)
	if encoded == "" || !strings.HasPrefix(encoded, redirectVersionTag) {
		return rawURL
	}

	payload := strings.TrimPrefix(encoded, redirectVersionTag)
	decoded, err := decodeRedirectPayload(payload)
	if err != nil {
		return rawURL
	}

	// Only accept payloads that decode to an actual URL. Garbage that
	// happens to base64-decode must not replace the original.
	if !strings.HasPrefix(decoded, "http://") && !strings.HasPrefix(decoded, "https://") {
		return rawURL
	}

	return decoded
}

// decodeRedirectPayload decodes the base64 payload, tolerating both URL-safe
// and standard alphabets and missing padding.
func decodeRedirectPayload(payload string) (string, error) {
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.RawStdEncoding,
		base64.StdEncoding,
	} {
		if decoded, err := enc.DecodeString(payload); err == nil {
			return string(decoded), nil
		}
	}
	return "", base64.CorruptInputError(0)
}
