package ports

import "neurasec/internal/domain"

// PersistJob is the write-behind work produced by one scan.
type PersistJob struct {
	Result domain.ScanResult
	// Cache is false for cache hits, pending and error results.
	Cache  bool
	UserID *string
}

// Persister accepts persistence work after the response has been computed.
type Persister interface {
	Enqueue(job PersistJob)
}
