// Package stream follows a day's brackets over the Kalshi WebSocket API.
//
// Conn is a single authenticated connection with a ping/pong heartbeat and a
// buffered message channel. Watcher subscribes a set of market tickers and
// decodes ticker and orderbook messages into typed updates.
package stream
