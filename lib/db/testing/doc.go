// Package testing provides a standardised conformance suite and benchmarks for
// implementations of the db.Table interface.
//
// Example usage:
//
//	factory := func() db.Table {
//		return hashtable.New(16)
//	}
//
//	// Running the standard test suite
//	dbtesting.RunTableTests(t, "HashTable", factory)
//
//	// Running performance benchmarks
//	dbtesting.RunTableBenchmarks(b, "HashTable", factory)
package testing
