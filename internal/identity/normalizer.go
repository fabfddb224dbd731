// Package identity canonicalizes raw profile references into stable
// identity keys. Two references that point at the same profile (case
// differences, www prefix, trailing slash, tracking parameters) must
// normalize to the same key.
package identity

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidReference is returned when a raw reference cannot be
// normalized into an identity key. Callers must treat it as a
// row-level rejection, never as a usable key.
var ErrInvalidReference = errors.New("identity: invalid profile reference")

// numericIDMarker identifies "profile by numeric id" paths whose id
// query parameter disambiguates the profile and must survive
// normalization. Platform-specific; see numericIDParam.
const numericIDMarker = "profile.php"

// numericIDParam is the one query parameter kept on numericIDMarker paths.
const numericIDParam = "id="

// Normalize canonicalizes a raw profile reference into an identity key.
//
// The key is the https absolute form of the reference with the host
// lower-cased and stripped of a leading "www.", the path stripped of
// trailing slashes, and the query and fragment dropped - except on
// profile-by-numeric-id paths, where id parameters are retained since
// they are the identity, not tracking noise.
func Normalize(raw string) (string, error) {
	if !strings.HasPrefix(raw, "http") {
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, raw)
	}

	u, err := url.Parse(strings.ToLower(raw))
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidReference, raw)
	}

	host := strings.TrimPrefix(u.Host, "www.")
	path := strings.TrimRight(u.Path, "/")

	var query string
	if strings.Contains(path, numericIDMarker) && u.RawQuery != "" {
		var kept []string
		for _, param := range strings.Split(u.RawQuery, "&") {
			if strings.HasPrefix(param, numericIDParam) {
				kept = append(kept, param)
			}
		}
		query = strings.Join(kept, "&")
	}

	key := "https://" + host + path
	if query != "" {
		key += "?" + query
	}
	return key, nil
}

// MustNormalize is a helper for tests and fixtures where the input is
// known valid; it panics on rejection.
func MustNormalize(raw string) string {
	key, err := Normalize(raw)
	if err != nil {
		panic(err)
	}
	return key
}
