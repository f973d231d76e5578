// Package snapshot implements the on-disk format of mredis and the locations a
// snapshot can live in.
//
// The format is a 10 byte header followed by, for every non-empty database, a
// marker carrying the database index and the length-prefixed key/value pairs of its
// primary table:
//
//	MREDIS0001@0;3:foo3:bar@2;5:alpha1:1
//
// Lengths are decimal byte counts terminated by ':', so keys and values of any length
// round-trip. Expiry markers are not persisted.
//
// Key Components:
//
//   - Encode / Decode: stream a keyspace to and from the format.
//
//   - Store: where a snapshot is kept. FileStore writes to a temp file and renames it
//     over the previous snapshot, GCSStore writes a Google Cloud Storage object
//     (locations of the form gs://bucket/object).
//
//   - Save / Load: Encode and Decode against a Store.
package snapshot
