package store

import (
	"context"
	"fmt"

	"github.com/ValentinKolb/mredis/lib/db"
	"github.com/ValentinKolb/mredis/lib/db/keyspace"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// KeySpaceFactory is a function type that creates a new, empty keyspace used by the store.
// It is called once on creation and once per recovery, so that a snapshot is
// decoded into a fresh keyspace before it replaces the live one.
type KeySpaceFactory func() *keyspace.KeySpace

// IStore is the interface the command handlers use to access the keyspace.
// Key operations act on the currently selected database.
// All methods return a *Error on failure (nil on success).
type IStore interface {
	// Set inserts or replaces the value of key.
	Set(key, value string) (err error)
	// Get returns the value of key. The boolean indicates whether the key was found.
	Get(key string) (value string, loaded bool, err error)
	// Expire stores an opaque expiry marker for an existing key.
	// RetCNotFound is returned if the key does not exist, the key is never created.
	Expire(key, marker string) (err error)
	// TTL returns the raw expiry marker of key. The boolean indicates whether a marker was found.
	TTL(key string) (marker string, loaded bool, err error)
	// Keys returns the keys matching the glob pattern in storage order ('*' matches anything,
	// every other character is a regular expression). The result is capped at the configured
	// limit; truncated reports whether matching keys were dropped.
	Keys(pattern string) (keys []string, truncated bool, err error)
	// Select makes index the current database. RetCInvalidOperation is returned for an index
	// outside of the keyspace.
	Select(index int) (err error)
	// Save writes a snapshot of every database, replacing the previous one.
	Save(ctx context.Context) (err error)
	// Recover replaces the keyspace with the latest snapshot.
	// RetCNotFound is returned if no snapshot exists, the keyspace is unchanged then.
	Recover(ctx context.Context) (err error)
	// ExpireCycle runs the active expiry cycle of the keyspace hook.
	// The server calls it once after every request.
	ExpireCycle() (err error)
	// GetInfo returns metadata about the keyspace underlying the store.
	GetInfo() (info Info, err error)
}

// Info describes the keyspace of a store
type Info struct {
	Databases int            // Number of databases
	Selected  int            // Index of the current database
	Keys      []int          // Number of keys per database
	Tables    []db.TableInfo // Primary table statistics per database
}

// TotalKeys returns the number of keys over all databases
func (i Info) TotalKeys() int {
	total := 0
	for _, n := range i.Keys {
		total += n
	}
	return total
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message. The message is meant to be shown to clients as is.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// NewError creates a new store error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCUnsupportedOperation                // 2: Operation is not supported by the store.
	RetCInvalidOperation                    // 3: Invalid operation.
	RetCNotFound                            // 4: The key or snapshot does not exist.
	RetCIOError                             // 5: Reading or writing a snapshot failed.
)

func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCUnsupportedOperation:
		return "UnsupportedOperation"
	case RetCInvalidOperation:
		return "InvalidOperation"
	case RetCNotFound:
		return "NotFound"
	case RetCIOError:
		return "IOError"
	default:
		return "Unknown"
	}
}
