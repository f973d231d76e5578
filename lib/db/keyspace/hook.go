package keyspace

// ExpiryHook is the extension point for key expiration.
// The keyspace calls ExpireIfNeeded before every key lookup and the server calls
// ActiveExpireCycle after every request. A surrounding system may supply a
// hook that interprets markers and evicts keys without changing the commands.
type ExpiryHook interface {
	// ExpireIfNeeded may evict key from db before it is looked up
	ExpireIfNeeded(db *Database, key string)
	// ActiveExpireCycle may sweep the keyspace for expired keys
	ActiveExpireCycle(ks *KeySpace)
}

// NopExpiryHook never evicts anything. Markers stay informational.
type NopExpiryHook struct{}

func (NopExpiryHook) ExpireIfNeeded(*Database, string) {}

func (NopExpiryHook) ActiveExpireCycle(*KeySpace) {}
