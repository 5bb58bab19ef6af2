// Package database opens the PostgreSQL pool backing the snapshot archive.
package database
