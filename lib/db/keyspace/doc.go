// Package keyspace groups hashtables into the numbered databases of one server.
//
// Every Database is a pair of tables: the primary table holding key/value pairs and
// the expiry table mapping a key to an opaque marker string recorded by EXPIRE. The
// marker is never consulted, keys are not evicted. Removing the primary entry does
// not remove its marker.
//
// The KeySpace holds a fixed number of databases, all allocated up front, and the
// index of the selected database. Select is bounds-checked and fails with
// ErrIndexOutOfRange for indexes outside the keyspace.
//
// The ExpiryHook interface is the place where real expiration can be plugged in
// later. NopExpiryHook is the only implementation shipped.
package keyspace
