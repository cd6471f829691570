package waveform

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// Process-wide default client, reference counted. Acquire builds it lazily
// behind a single-flight guard: concurrent first acquirers share one
// initialization instead of racing independent ones. Release drops a
// reference; the client is torn down when the count reaches zero.

var (
	defaultMu     sync.Mutex
	defaultClient *Client
	defaultRefs   int
	initGroup     singleflight.Group
)

// Acquire returns the process-wide default client, creating it on first
// use with the given options. Options passed by later acquirers while a
// client is live are ignored.
func Acquire(options ...Option) (*Client, error) {
	v, err, _ := initGroup.Do("default-client", func() (any, error) {
		defaultMu.Lock()
		existing := defaultClient
		defaultMu.Unlock()
		if existing != nil {
			return existing, nil
		}

		client, err := New(options...)
		if err != nil {
			return nil, err
		}
		defaultMu.Lock()
		defaultClient = client
		defaultMu.Unlock()
		return client, nil
	})
	if err != nil {
		return nil, err
	}

	defaultMu.Lock()
	defaultRefs++
	defaultMu.Unlock()
	return v.(*Client), nil
}

// Release drops one reference to the default client. The final release
// discards the client; a subsequent Acquire initializes a fresh one.
func Release() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRefs == 0 {
		return
	}
	defaultRefs--
	if defaultRefs == 0 {
		defaultClient = nil
	}
}
