// Package archive stores bracket snapshots in PostgreSQL.
//
// Each fetch is one run in snapshot_runs, keyed by a UUID. Markets go to
// bracket_markets and order books to bracket_orderbooks, with ladders kept as
// JSONB in the exchange's [price, quantity] form. Writes are append-only and a
// run is written in a single batch.
package archive
