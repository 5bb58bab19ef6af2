// Package brackets fetches a series' daily bracket markets and their order
// books.
//
// A day's brackets are the markets of one series (INX by default) whose close
// time falls inside a UTC calendar day. The Fetcher returns typed results and
// shaped variants (record set or table) for display. Retries belong to the
// REST client; every operation here issues its requests once and in order.
package brackets
