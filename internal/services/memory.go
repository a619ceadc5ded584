package services

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MemoryStore keeps endpoints in memory
type MemoryStore struct {
	endpoints []Endpoint
	mutex     sync.RWMutex
	logger    *zap.Logger
}

// NewMemoryStore creates a store seeded with the given endpoints
func NewMemoryStore(logger *zap.Logger, endpoints ...Endpoint) *MemoryStore {
	ms := &MemoryStore{logger: logger}
	for _, e := range endpoints {
		ms.Put(e)
	}
	return ms
}

// Put adds or replaces an endpoint by ID and returns the stored copy.
// An endpoint without an ID gets a fresh one.
func (ms *MemoryStore) Put(e Endpoint) Endpoint {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	for i := range ms.endpoints {
		if ms.endpoints[i].ID == e.ID {
			ms.endpoints[i] = e
			ms.logger.Info("Service endpoint updated",
				zap.String("id", e.ID),
				zap.String("type", string(e.Type)))
			return e
		}
	}

	ms.endpoints = append(ms.endpoints, e)
	ms.logger.Info("Service endpoint added",
		zap.String("id", e.ID),
		zap.String("type", string(e.Type)))
	return e
}

// Remove deletes an endpoint by ID
func (ms *MemoryStore) Remove(id string) {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	for i := range ms.endpoints {
		if ms.endpoints[i].ID == id {
			ms.endpoints = append(ms.endpoints[:i], ms.endpoints[i+1:]...)
			ms.logger.Info("Service endpoint removed", zap.String("id", id))
			return
		}
	}
}

// All returns a copy of every stored endpoint
func (ms *MemoryStore) All() []Endpoint {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	out := make([]Endpoint, len(ms.endpoints))
	copy(out, ms.endpoints)
	return out
}

// Load returns every stored endpoint
func (ms *MemoryStore) Load() ([]Endpoint, error) {
	return ms.All(), nil
}

// Lookup returns the first usable endpoint of the given kind
func (ms *MemoryStore) Lookup(kind Kind) (Endpoint, bool) {
	return firstUsable(ms.All(), kind)
}

// Enabled returns every usable endpoint
func (ms *MemoryStore) Enabled() ([]Endpoint, error) {
	return usable(ms.All()), nil
}
