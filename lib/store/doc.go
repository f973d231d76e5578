// Package store provides the interface the server uses to operate on the keyspace,
// together with a unified error type.
//
// Key Components:
//
//   - IStore Interface: Key operations (Set, Get, Expire, TTL, Keys) on the currently
//     selected database, database selection, and snapshot persistence (Save, Recover).
//
//   - Error System: Every failure is reported as *Error carrying a RetCode and a message.
//     The message is written to clients unchanged, the code lets callers tell missing
//     keys (RetCNotFound) from bad input (RetCInvalidOperation) and failed snapshot I/O
//     (RetCIOError).
//
//   - KeySpaceFactory: Creates empty keyspaces with the configured number of databases
//     and buckets. The store uses it for its live keyspace and for every recovery.
//
// Implementations:
//
//	- Local Store (lstore): Wraps a keyspace.KeySpace and an optional snapshot.Store.
//	  Available in the "github.com/ValentinKolb/mredis/lib/store/lstore" package.
package store
