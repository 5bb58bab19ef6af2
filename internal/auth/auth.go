// Package auth provides Kalshi request authentication.
//
// Two schemes are supported:
//   - Session tokens from POST /login (email/password), sent as
//     "Authorization: <member_id> <token>".
//   - API keys, where each request is signed with RSA-PSS and sent in the
//     KALSHI-ACCESS-KEY / -TIMESTAMP / -SIGNATURE headers.
package auth

import "net/http"

// Authenticator produces the headers that authorize one request.
// path is the full URL path, including the /trade-api/v2 prefix.
type Authenticator interface {
	Headers(method, path string) (map[string]string, error)
}

// Apply sets the authenticator's headers on h. A nil Authenticator is a no-op.
func Apply(a Authenticator, h http.Header, method, path string) error {
	if a == nil {
		return nil
	}
	headers, err := a.Headers(method, path)
	if err != nil {
		return err
	}
	for k, v := range headers {
		h.Set(k, v)
	}
	return nil
}
