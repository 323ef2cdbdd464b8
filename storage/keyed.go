package storage

import "sync"

// KeyedSerializer runs read-modify-write cycles under a per-key exclusive
// lock, so concurrent mutations of the same document execute as if in a
// critical section while unrelated keys never block each other. Lock
// entries are refcounted and dropped once the last holder leaves, so the
// map stays bounded by the number of in-flight requests.
type KeyedSerializer struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedSerializer() *KeyedSerializer {
	return &KeyedSerializer{locks: make(map[string]*keyLock)}
}

func (ks *KeyedSerializer) Do(key string, fn func() error) error {
	ks.mu.Lock()
	l, ok := ks.locks[key]
	if !ok {
		l = &keyLock{}
		ks.locks[key] = l
	}
	l.refs++
	ks.mu.Unlock()

	l.mu.Lock()
	err := fn()
	l.mu.Unlock()

	ks.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(ks.locks, key)
	}
	ks.mu.Unlock()

	return err
}
