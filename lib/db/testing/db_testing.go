package testing

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ValentinKolb/mredis/lib/db"
)

// TableFactory is a function that creates a new, empty instance of a Table implementation
type TableFactory func() db.Table

// RunTableTests runs the conformance suite for a Table implementation.
func RunTableTests(t *testing.T, name string, factory TableFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Put&Get", func(t *testing.T) {
			testPutGet(t, factory())
		})

		t.Run("ReplaceKeepsCount", func(t *testing.T) {
			testReplaceKeepsCount(t, factory())
		})

		t.Run("Missing", func(t *testing.T) {
			testMissing(t, factory())
		})

		t.Run("Range", func(t *testing.T) {
			testRange(t, factory())
		})

		t.Run("RangeStops", func(t *testing.T) {
			testRangeStops(t, factory())
		})

		t.Run("Clear", func(t *testing.T) {
			testClear(t, factory())
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory())
		})

		t.Run("CollisionHandling", func(t *testing.T) {
			testCollisionHandling(t, factory())
		})

		t.Run("Info", func(t *testing.T) {
			testInfo(t, factory())
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testPutGet(t *testing.T, table db.Table) {
	defer table.Clear()

	if inserted := table.Put("test-key", "test-value1"); !inserted {
		t.Errorf("Expected first Put to report an insert")
	}

	value, ok := table.Get("test-key")
	if !ok {
		t.Fatalf("Expected key test-key to exist after Put")
	}
	if value != "test-value1" {
		t.Errorf("Expected value test-value1, got %s", value)
	}

	table.Put("test-key", "test-value2")
	value, _ = table.Get("test-key")
	if value != "test-value2" {
		t.Errorf("Expected updated value test-value2, got %s", value)
	}
}

func testReplaceKeepsCount(t *testing.T, table db.Table) {
	defer table.Clear()

	table.Put("a", "1")
	table.Put("b", "2")
	if table.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", table.Len())
	}

	if inserted := table.Put("a", "3"); inserted {
		t.Errorf("Replacing an existing key must not report an insert")
	}
	if table.Len() != 2 {
		t.Errorf("Replacing an existing key changed the count to %d", table.Len())
	}
}

func testMissing(t *testing.T, table db.Table) {
	defer table.Clear()

	if _, ok := table.Get("nonexistent-key"); ok {
		t.Errorf("Expected nonexistent key to return ok=false")
	}

	table.Put("present", "x")
	if _, ok := table.Get("Present"); ok {
		t.Errorf("Lookup must be case-sensitive")
	}
}

func testRange(t *testing.T, table db.Table) {
	defer table.Clear()

	expected := map[string]string{}
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("range-key-%d", i)
		value := fmt.Sprintf("range-value-%d", i)
		expected[key] = value
		table.Put(key, value)
	}

	seen := map[string]string{}
	table.Range(func(key, value string) bool {
		if _, dup := seen[key]; dup {
			t.Errorf("Range visited key %s twice", key)
		}
		seen[key] = value
		return true
	})

	if len(seen) != len(expected) || len(seen) != table.Len() {
		t.Fatalf("Range visited %d entries, expected %d (Len=%d)", len(seen), len(expected), table.Len())
	}
	for k, v := range expected {
		if seen[k] != v {
			t.Errorf("Range returned %s=%s, expected %s", k, seen[k], v)
		}
	}

	// the storage order is stable between two walks
	var first, second []string
	table.Range(func(key, _ string) bool { first = append(first, key); return true })
	table.Range(func(key, _ string) bool { second = append(second, key); return true })
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Errorf("Range order is not stable")
	}
}

func testRangeStops(t *testing.T, table db.Table) {
	defer table.Clear()

	for i := 0; i < 10; i++ {
		table.Put(fmt.Sprintf("k%d", i), "v")
	}

	visited := 0
	table.Range(func(_, _ string) bool {
		visited++
		return visited < 3
	})
	if visited != 3 {
		t.Errorf("Range should stop after fn returns false, visited %d", visited)
	}
}

func testClear(t *testing.T, table db.Table) {
	for i := 0; i < 50; i++ {
		table.Put(fmt.Sprintf("clear-%d", i), "v")
	}
	table.Clear()

	if table.Len() != 0 {
		t.Errorf("Expected 0 entries after Clear, got %d", table.Len())
	}
	if _, ok := table.Get("clear-0"); ok {
		t.Errorf("Expected key to be gone after Clear")
	}

	// the table stays usable
	table.Put("after", "clear")
	if v, ok := table.Get("after"); !ok || v != "clear" {
		t.Errorf("Table unusable after Clear")
	}
}

func testEdgeCases(t *testing.T, table db.Table) {
	defer table.Clear()

	table.Put("", "empty-key")
	if v, ok := table.Get(""); !ok || v != "empty-key" {
		t.Errorf("Empty key not stored correctly")
	}

	table.Put("empty-value", "")
	if v, ok := table.Get("empty-value"); !ok || v != "" {
		t.Errorf("Empty value not stored correctly")
	}

	longKey := strings.Repeat("k", 10000)
	longValue := strings.Repeat("v", 100000)
	table.Put(longKey, longValue)
	if v, ok := table.Get(longKey); !ok || v != longValue {
		t.Errorf("Long key/value not stored correctly")
	}

	special := "key with spaces\tand\r\nnewlines"
	table.Put(special, "special")
	if v, ok := table.Get(special); !ok || v != "special" {
		t.Errorf("Key with special characters not stored correctly")
	}
}

func testCollisionHandling(t *testing.T, table db.Table) {
	defer table.Clear()

	prefix := "collision-test-"
	numKeys := 1000

	for i := 0; i < numKeys; i++ {
		table.Put(fmt.Sprintf("%s%d", prefix, i), fmt.Sprintf("value-%d", i))
	}

	if table.Len() != numKeys {
		t.Fatalf("Expected %d entries, got %d", numKeys, table.Len())
	}

	for i := 0; i < numKeys; i++ {
		key := fmt.Sprintf("%s%d", prefix, i)
		expected := fmt.Sprintf("value-%d", i)

		actual, ok := table.Get(key)
		if !ok {
			t.Errorf("Key %s not found", key)
			continue
		}
		if actual != expected {
			t.Errorf("Value for key %s does not match: expected %s, got %s", key, expected, actual)
		}
	}
}

func testInfo(t *testing.T, table db.Table) {
	defer table.Clear()

	for i := 0; i < 20; i++ {
		table.Put(fmt.Sprintf("info-%d", i), "v")
	}

	info := table.Info()
	if info.Entries != 20 {
		t.Errorf("Info reports %d entries, expected 20", info.Entries)
	}
	if info.Impl == "" {
		t.Errorf("Info does not report an implementation")
	}
}
