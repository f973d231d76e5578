package db

import "github.com/ValentinKolb/mredis/lib/db/util"

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

type Implementation string

const (
	ImplChained Implementation = "chained"
)

// TableInfo reports the shape of a table
type TableInfo struct {
	Entries int             `json:"entries"`
	Impl    Implementation  `json:"impl"`
	Chains  util.ChainStats `json:"chains"`
}

// --------------------------------------------------------------------------
// Table Interface
// --------------------------------------------------------------------------

// Table is a string to string map with a fixed layout.
// Implementations are not safe for concurrent use; callers serialise access.
type Table interface {

	// Put inserts or replaces the value for key.
	// It reports whether a new entry was created (false means the value of an existing entry was replaced).
	Put(key, value string) (inserted bool)

	// Get returns the value stored for key.
	// The boolean return value indicates whether the key was found.
	Get(key string) (value string, ok bool)

	// Range calls fn for every entry in storage order until fn returns false.
	// The table must not be modified from within fn.
	Range(fn func(key, value string) bool)

	// Len returns the number of entries.
	Len() int

	// Clear releases every entry.
	Clear()

	// Info returns layout information about the table.
	Info() TableInfo
}
