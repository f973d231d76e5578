// Package lstore implements a local, in-memory, single-node store based on the
// store.IStore interface. It wraps a keyspace.KeySpace created by a
// store.KeySpaceFactory and persists it on request through a snapshot.Store.
//
// Implementation Details:
//
//   - Locking: The keyspace itself is not safe for concurrent use. The store guards it
//     with an xsync.RBMutex. Commands come from a single session at a time, but
//     GetInfo is also called by the metrics endpoint, so reads (Keys, Save, GetInfo)
//     take the reader lock and everything else the writer lock.
//
//   - Recovery: Recover decodes the snapshot into a fresh keyspace from the factory and
//     swaps it in only if decoding succeeded. A corrupt snapshot never leaves the
//     store half loaded.
//
//   - Keys: The glob pattern is compiled with util.CompileGlob and results are capped
//     at Options.KeysLimit. Truncation is reported to the caller, not treated as an error.
package lstore
