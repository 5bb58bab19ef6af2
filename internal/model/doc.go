// Package model defines the bracket data types shared across packages.
//
// Conventions:
//   - Prices: integer cents (0-100), as returned by the REST API
//   - Dollar prices: strings as returned by the API ("0.5250"), never parsed
//   - Exchange-defined fields (result, liquidity, volume_24h) pass through untouched
package model
