package processor

import (
	"maps"
	"sync"
)

// Meta state keys.
const (
	MetaProcessingMode = "processingMode"
	MetaRecursionDepth = "recursionDepth"
	MetaLastError      = "lastError"
)

// metaState is a diagnostic key/value store. It never drives control flow.
type metaState struct {
	mu     sync.Mutex
	values map[string]any
}

func newMetaState() *metaState {
	return &metaState{
		values: map[string]any{
			MetaProcessingMode: "adaptive",
			MetaRecursionDepth: 0,
		},
	}
}

func (m *metaState) set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *metaState) snapshot() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}
