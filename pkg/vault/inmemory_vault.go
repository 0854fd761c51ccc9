package vault

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrBundleNotFound = errors.New("vault: bundle not found")
)

// Vault stores serialized share bundles keyed by bundle ID. Callers own the
// transport and long-term storage of individual share records; a Vault only
// keeps whole bundles for the process that created or collected them.
type Vault interface {
	Import(bundleID string, data []byte) error
	Get(bundleID string) ([]byte, error)
	Delete(bundleID string) error
	List() []string
}

type InMemoryVault struct {
	lock    sync.RWMutex
	bundles map[string][]byte
}

var _ Vault = (*InMemoryVault)(nil)

func NewInMemoryVault() *InMemoryVault {
	return &InMemoryVault{
		bundles: make(map[string][]byte),
	}
}

func (store *InMemoryVault) Import(bundleID string, data []byte) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	store.bundles[bundleID] = data
	return nil
}

func (store *InMemoryVault) Get(bundleID string) ([]byte, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	data, ok := store.bundles[bundleID]
	if !ok {
		return nil, ErrBundleNotFound
	}
	return data, nil
}

func (store *InMemoryVault) Delete(bundleID string) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	delete(store.bundles, bundleID)
	return nil
}

func (store *InMemoryVault) List() []string {
	store.lock.RLock()
	defer store.lock.RUnlock()

	ids := make([]string, 0, len(store.bundles))
	for id := range store.bundles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
