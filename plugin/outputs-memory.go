package plugin

import (
	"sync"

	Mt "github.com/maroda/ostinato/types"
)

// MemoryStore keeps the document in process, for dry runs and tests.
// Load and Save copy, so callers never share the stored document.
type MemoryStore struct {
	MU  sync.Mutex
	Doc *Mt.Composition
	Rev int64
	Err error // returned by Save when set
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Doc: Mt.NewComposition()}
}

func (ms *MemoryStore) Load() (*Mt.Composition, error) {
	ms.MU.Lock()
	defer ms.MU.Unlock()
	return ms.Doc.Clone(), nil
}

func (ms *MemoryStore) Save(doc *Mt.Composition) error {
	ms.MU.Lock()
	defer ms.MU.Unlock()
	if ms.Err != nil {
		return ms.Err
	}
	ms.Doc = doc.Clone()
	ms.Doc.Normalize()
	ms.Rev++
	return nil
}

func (ms *MemoryStore) Revision() (int64, error) {
	ms.MU.Lock()
	defer ms.MU.Unlock()
	return ms.Rev, nil
}

func (ms *MemoryStore) Close() error { return nil }

func (ms *MemoryStore) Type() string { return "Memory" }
