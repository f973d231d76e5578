package util

// --------------------------------------------------------------------------
// Hash Functions
// --------------------------------------------------------------------------

// hashMultiplier is the factor of the polynomial accumulator
const hashMultiplier = 37

// HashString folds a key into an unsigned accumulator: for every byte c the
// accumulator becomes acc*37 + c. Arithmetic wraps on overflow.
// The function is deterministic and not resistant to adversarial collisions.
func HashString(s string) uint64 {
	var acc uint64
	for i := 0; i < len(s); i++ {
		acc = acc*hashMultiplier + uint64(s[i])
	}
	return acc
}

// BucketIndex returns the bucket a key belongs to in a table with the given
// number of buckets. buckets must be greater than zero.
func BucketIndex(s string, buckets int) int {
	return int(HashString(s) % uint64(buckets))
}
