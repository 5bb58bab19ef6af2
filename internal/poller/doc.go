// Package poller refreshes the combined bracket view on a fixed interval.
//
// Each cycle runs one combined fetch (snapshot, then order books in market
// order) and hands the rows to a Handler. Cycles never overlap; a slow cycle
// delays the next tick rather than running alongside it.
package poller
