package balancechanges

const (
	Version = "v0.1.0"

	// DefaultCacheCapacity is the number of accounts kept by the previous balance cache.
	DefaultCacheCapacity = 100_000
)
