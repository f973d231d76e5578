package hashtable

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/mredis/lib/db"
	dbtesting "github.com/ValentinKolb/mredis/lib/db/testing"
	"github.com/ValentinKolb/mredis/lib/db/util"
)

func Test(t *testing.T) {
	for _, buckets := range []int{1, DefaultBuckets, 1024} {
		buckets := buckets
		dbtesting.RunTableTests(t, fmt.Sprintf("HashTable(%d)", buckets), func() db.Table {
			return New(buckets)
		})
	}
}

func Benchmark(b *testing.B) {
	dbtesting.RunTableBenchmarks(b, "HashTable", func() db.Table {
		return New(DefaultBuckets)
	})
}

func TestNewDefaultsBuckets(t *testing.T) {
	if got := New(0).Buckets(); got != DefaultBuckets {
		t.Errorf("New(0) has %d buckets, want %d", got, DefaultBuckets)
	}
	if got := New(-3).Buckets(); got != DefaultBuckets {
		t.Errorf("New(-3) has %d buckets, want %d", got, DefaultBuckets)
	}
	if got := New(7).Buckets(); got != 7 {
		t.Errorf("New(7) has %d buckets, want 7", got)
	}
}

// collidingKeys returns n distinct keys that all land in the same bucket of a 16 bucket table
func collidingKeys(t *testing.T, n int) []string {
	t.Helper()
	var keys []string
	want := util.BucketIndex("k0", DefaultBuckets)
	for i := 0; len(keys) < n && i < 100000; i++ {
		key := fmt.Sprintf("k%d", i)
		if util.BucketIndex(key, DefaultBuckets) == want {
			keys = append(keys, key)
		}
	}
	if len(keys) < n {
		t.Fatalf("could only find %d colliding keys", len(keys))
	}
	return keys
}

func TestChainAppendsAtTail(t *testing.T) {
	ht := New(DefaultBuckets)
	keys := collidingKeys(t, 4)

	for _, k := range keys {
		ht.Put(k, "v-"+k)
	}

	slot := ht.Slot(keys[0])
	var order []string
	for e := ht.buckets[slot]; e != nil; e = e.next {
		order = append(order, e.key)
	}

	if len(order) != len(keys) {
		t.Fatalf("chain holds %d entries, want %d", len(order), len(keys))
	}
	for i := range keys {
		if order[i] != keys[i] {
			t.Errorf("chain position %d holds %s, want %s (insertion order)", i, order[i], keys[i])
		}
	}

	// replacing a value in the middle of the chain keeps entry and order
	ht.Put(keys[1], "replaced")
	if v, _ := ht.Get(keys[1]); v != "replaced" {
		t.Errorf("replaced value = %s", v)
	}
	if ht.Len() != len(keys) {
		t.Errorf("Len() = %d after replace, want %d", ht.Len(), len(keys))
	}
	if ht.buckets[slot].next.key != keys[1] {
		t.Errorf("replace moved the entry within the chain")
	}
}

func TestCountMatchesReachableEntries(t *testing.T) {
	ht := New(DefaultBuckets)
	for i := 0; i < 500; i++ {
		ht.Put(fmt.Sprintf("key-%d", i%300), fmt.Sprintf("value-%d", i))
	}

	reachable := 0
	for _, n := range ht.ChainLengths() {
		reachable += n
	}
	if reachable != ht.Len() || ht.Len() != 300 {
		t.Errorf("reachable=%d Len=%d, want both 300", reachable, ht.Len())
	}
}

func TestRangeBucketOrder(t *testing.T) {
	ht := New(DefaultBuckets)
	// "a" hashes to bucket 1, "ab" to bucket 7
	ht.Put("ab", "2")
	ht.Put("a", "1")

	var keys []string
	ht.Range(func(key, _ string) bool {
		keys = append(keys, key)
		return true
	})

	if len(keys) != 2 || keys[0] != "a" || keys[1] != "ab" {
		t.Errorf("Range order = %v, want [a ab]", keys)
	}
}

func TestSlotDeterministic(t *testing.T) {
	ht := New(DefaultBuckets)
	for _, key := range []string{"foo", "bar", "", "a much longer key"} {
		if ht.Slot(key) != ht.Slot(key) {
			t.Errorf("Slot(%q) not deterministic", key)
		}
	}
}

func TestInfo(t *testing.T) {
	ht := New(4)
	ht.Put("a", "1")
	ht.Put("b", "2")

	info := ht.Info()
	if info.Impl != db.ImplChained || info.Entries != 2 || info.Chains.Buckets != 4 {
		t.Errorf("unexpected info %+v", info)
	}
}
