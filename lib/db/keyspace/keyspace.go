package keyspace

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/mredis/lib/db/hashtable"
)

// --------------------------------------------------------------------------
// Constants and Errors
// --------------------------------------------------------------------------

const (
	DefaultDatabases = 8
)

// ErrIndexOutOfRange is returned when a database index is not part of the keyspace
var ErrIndexOutOfRange = errors.New("DB index is out of range")

// --------------------------------------------------------------------------
// Database
// --------------------------------------------------------------------------

// Database owns a primary table and an expiry marker table.
// Markers are opaque strings, they are never interpreted as timestamps.
type Database struct {
	Primary *hashtable.HashTable
	Expires *hashtable.HashTable
}

func newDatabase(buckets int) *Database {
	return &Database{
		Primary: hashtable.New(buckets),
		Expires: hashtable.New(buckets),
	}
}

// Keys returns the primary keys accepted by match in storage order.
// At most limit keys are returned (limit <= 0 means no limit); truncated reports
// whether further matching keys were dropped.
func (d *Database) Keys(match func(key string) bool, limit int) (keys []string, truncated bool) {
	keys = []string{}
	d.Primary.Range(func(key, _ string) bool {
		if !match(key) {
			return true
		}
		if limit > 0 && len(keys) == limit {
			truncated = true
			return false
		}
		keys = append(keys, key)
		return true
	})
	return keys, truncated
}

// Clear releases every entry of both tables
func (d *Database) Clear() {
	d.Primary.Clear()
	d.Expires.Clear()
}

// --------------------------------------------------------------------------
// KeySpace
// --------------------------------------------------------------------------

// Options configures a KeySpace
type Options struct {
	Databases int        // Number of databases (0 = DefaultDatabases)
	Buckets   int        // Buckets per table (0 = hashtable.DefaultBuckets)
	Hook      ExpiryHook // Expiry extension point (nil = NopExpiryHook)
}

// DefaultOptions returns the default keyspace options
func DefaultOptions() *Options {
	return &Options{
		Databases: DefaultDatabases,
		Buckets:   hashtable.DefaultBuckets,
		Hook:      NopExpiryHook{},
	}
}

// KeySpace is the fixed, ordered set of databases of one server together with
// the index of the database ordinary commands operate on.
//
// Thread-safety: KeySpace is not safe for concurrent use.
type KeySpace struct {
	dbs     []*Database
	buckets int
	current int
	hook    ExpiryHook
}

// New creates a keyspace with every database pre-allocated and database 0 selected
func New(opts *Options) *KeySpace {
	if opts == nil {
		opts = DefaultOptions()
	}

	n := opts.Databases
	if n <= 0 {
		n = DefaultDatabases
	}
	buckets := opts.Buckets
	if buckets <= 0 {
		buckets = hashtable.DefaultBuckets
	}
	hook := opts.Hook
	if hook == nil {
		hook = NopExpiryHook{}
	}

	dbs := make([]*Database, n)
	for i := range dbs {
		dbs[i] = newDatabase(buckets)
	}

	return &KeySpace{
		dbs:     dbs,
		buckets: buckets,
		hook:    hook,
	}
}

// Len returns the number of databases
func (ks *KeySpace) Len() int {
	return len(ks.dbs)
}

// Buckets returns the bucket count of every table
func (ks *KeySpace) Buckets() int {
	return ks.buckets
}

// Hook returns the configured expiry hook
func (ks *KeySpace) Hook() ExpiryHook {
	return ks.hook
}

// DB returns the database with the given index
func (ks *KeySpace) DB(index int) (*Database, error) {
	if index < 0 || index >= len(ks.dbs) {
		return nil, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	return ks.dbs[index], nil
}

// Select makes index the current database
func (ks *KeySpace) Select(index int) error {
	if index < 0 || index >= len(ks.dbs) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	ks.current = index
	return nil
}

// CurrentIndex returns the index of the selected database
func (ks *KeySpace) CurrentIndex() int {
	return ks.current
}

// Current returns the selected database
func (ks *KeySpace) Current() *Database {
	return ks.dbs[ks.current]
}

// --------------------------------------------------------------------------
// Operations on the current database
// --------------------------------------------------------------------------

// Set stores value under key in the current primary table
func (ks *KeySpace) Set(key, value string) {
	ks.Current().Primary.Put(key, value)
}

// Get returns the value of key from the current primary table
func (ks *KeySpace) Get(key string) (string, bool) {
	d := ks.Current()
	ks.hook.ExpireIfNeeded(d, key)
	return d.Primary.Get(key)
}

// Expire records marker for key if key exists in the current primary table.
// It never creates the key. A previous marker is overwritten.
func (ks *KeySpace) Expire(key, marker string) bool {
	d := ks.Current()
	ks.hook.ExpireIfNeeded(d, key)
	if _, ok := d.Primary.Get(key); !ok {
		return false
	}
	d.Expires.Put(key, marker)
	return true
}

// TTL returns the raw marker stored for key in the current expiry table
func (ks *KeySpace) TTL(key string) (string, bool) {
	d := ks.Current()
	ks.hook.ExpireIfNeeded(d, key)
	return d.Expires.Get(key)
}

// --------------------------------------------------------------------------
// Lifecycle
// --------------------------------------------------------------------------

// Clear releases every entry of every database. The selected index is kept.
func (ks *KeySpace) Clear() {
	for _, d := range ks.dbs {
		d.Clear()
	}
}

// Replace moves the contents of other into ks and clears other.
// Both keyspaces must have the same number of databases and buckets per table.
func (ks *KeySpace) Replace(other *KeySpace) error {
	if other.Len() != ks.Len() {
		return fmt.Errorf("cannot replace keyspace with %d databases by one with %d", ks.Len(), other.Len())
	}
	if other.Buckets() != ks.Buckets() {
		return fmt.Errorf("cannot replace keyspace with %d buckets per table by one with %d", ks.Buckets(), other.Buckets())
	}
	ks.Clear()
	ks.dbs, other.dbs = other.dbs, ks.dbs
	return nil
}

// Size returns the number of primary entries per database
func (ks *KeySpace) Size() []int {
	sizes := make([]int, len(ks.dbs))
	for i, d := range ks.dbs {
		sizes[i] = d.Primary.Len()
	}
	return sizes
}
