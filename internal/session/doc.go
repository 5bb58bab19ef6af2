// Package session establishes an authorized connection to the Kalshi
// trade API.
//
// A Session bundles the REST client, the authenticator used to build it and
// the exchange status observed at login. Credentials are chosen in order:
// email/password login, then API key signing, then anonymous access.
package session
