// Package api provides the Kalshi REST client.
//
// REST endpoints:
//   - Production: https://api.elections.kalshi.com/trade-api/v2
//   - Demo: https://demo-api.kalshi.co/trade-api/v2
//
// Requests are authorized by an auth.Authenticator (login token or signed
// API key). Rate-limit and server errors are retried with jittered
// exponential backoff; everything else is returned as an *APIError.
package api
