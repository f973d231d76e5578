// Package hashtable implements the storage engine behind every mredis database:
// a chained hash map with a fixed bucket count.
//
// Keys are mapped to buckets with util.BucketIndex (a polynomial accumulator,
// acc = acc*37 + byte, reduced modulo the bucket count). Each bucket holds a singly
// linked chain; new keys are appended at the tail and an existing key has its value
// replaced in place without changing the entry count. The bucket array is never
// resized, lookups degrade to O(n) once chains grow.
//
// Memory exhaustion while creating an entry is left to the Go runtime, which
// terminates the process. No partially inserted state is ever observable.
//
// Usage:
//
//	ht := hashtable.New(16)
//	ht.Put("foo", "bar")
//	v, ok := ht.Get("foo") // "bar", true
package hashtable
