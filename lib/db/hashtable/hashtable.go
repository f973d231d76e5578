package hashtable

import (
	"strings"

	"github.com/ValentinKolb/mredis/lib/db"
	"github.com/ValentinKolb/mredis/lib/db/util"
)

// DefaultBuckets is the bucket count used when none is configured
const DefaultBuckets = 16

// entry is one link of a bucket chain. It owns private copies of key and value.
type entry struct {
	key   string
	value string
	next  *entry
}

// HashTable is a chained hash map with a fixed number of buckets.
// The bucket array never grows, chains get longer as more keys collide.
//
// Thread-safety: HashTable is not safe for concurrent use.
type HashTable struct {
	buckets []*entry
	count   int
}

// New creates a table with the given number of buckets.
// A non-positive value selects DefaultBuckets.
func New(buckets int) *HashTable {
	if buckets <= 0 {
		buckets = DefaultBuckets
	}
	return &HashTable{
		buckets: make([]*entry, buckets),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see db.Table)
// --------------------------------------------------------------------------

func (ht *HashTable) Put(key, value string) bool {
	slot := ht.Slot(key)

	e := ht.buckets[slot]
	if e == nil {
		ht.buckets[slot] = newEntry(key, value)
		ht.count++
		return true
	}

	// scan the chain, remembering the tail so a new entry can be appended
	var tail *entry
	for ; e != nil; e = e.next {
		if e.key == key {
			e.value = strings.Clone(value)
			return false
		}
		tail = e
	}

	tail.next = newEntry(key, value)
	ht.count++
	return true
}

func (ht *HashTable) Get(key string) (string, bool) {
	for e := ht.buckets[ht.Slot(key)]; e != nil; e = e.next {
		if e.key == key {
			return e.value, true
		}
	}
	return "", false
}

func (ht *HashTable) Range(fn func(key, value string) bool) {
	for _, head := range ht.buckets {
		for e := head; e != nil; e = e.next {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}

func (ht *HashTable) Len() int {
	return ht.count
}

func (ht *HashTable) Clear() {
	for i, head := range ht.buckets {
		// unlink every entry so nothing keeps the chain alive
		for e := head; e != nil; {
			next := e.next
			e.next = nil
			e = next
		}
		ht.buckets[i] = nil
	}
	ht.count = 0
}

func (ht *HashTable) Info() db.TableInfo {
	return db.TableInfo{
		Entries: ht.count,
		Impl:    db.ImplChained,
		Chains:  util.NewChainStats(ht.ChainLengths()),
	}
}

// --------------------------------------------------------------------------
// Layout Helpers
// --------------------------------------------------------------------------

// Buckets returns the fixed bucket count
func (ht *HashTable) Buckets() int {
	return len(ht.buckets)
}

// Slot returns the bucket index of key
func (ht *HashTable) Slot(key string) int {
	return util.BucketIndex(key, len(ht.buckets))
}

// ChainLengths returns the number of entries linked into every bucket
func (ht *HashTable) ChainLengths() []int {
	lengths := make([]int, len(ht.buckets))
	for i, head := range ht.buckets {
		for e := head; e != nil; e = e.next {
			lengths[i]++
		}
	}
	return lengths
}

func newEntry(key, value string) *entry {
	return &entry{
		key:   strings.Clone(key),
		value: strings.Clone(value),
	}
}
