// Package frame converts fetched records into the two output shapes:
//
//   - record-set: {"<key>": [{column: value, ...}, ...]}
//   - table: ordered columns plus one row per record
//
// Both shapes carry the same data and convert into each other without loss.
// Fetching never depends on the shape; callers pick a Shape and build an
// Output from already-fetched records.
package frame
