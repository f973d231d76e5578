// Package db defines the Table interface implemented by the storage engines
// of mredis and the information types they report.
//
// Key Components:
//
//   - Table: a string to string map. Put distinguishes an insert from an
//     in-place replacement, Range walks entries in storage order so that
//     snapshots and KEYS results are reproducible.
//
//   - TableInfo: entry count, implementation identifier and chain statistics.
//
// Related Packages:
//
// The hashtable package (github.com/ValentinKolb/mredis/lib/db/hashtable) provides the
// fixed-bucket chained hashtable used for every database.
//
// The keyspace package (github.com/ValentinKolb/mredis/lib/db/keyspace) groups tables
// into numbered databases.
//
// The testing package (github.com/ValentinKolb/mredis/lib/db/testing) provides a
// conformance suite for Table implementations.
package db
