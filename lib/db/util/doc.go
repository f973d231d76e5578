// Package util provides small building blocks shared by the table and
// keyspace implementations.
//
// The package contains:
//   - functions: the bucket hash function used by the chained hashtable
//   - statistics: summary statistics over bucket chain lengths
//   - glob: translation of KEYS glob patterns into anchored regular expressions
package util
