package vectorindex

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openlearn/compass/internal/models"
)

// stateVersion tags the on-disk format; loading a different version fails
// loudly instead of misreading the blob.
const stateVersion = 1

// indexState is the explicit on-disk schema for the index.
type indexState struct {
	Version     int
	Dimension   int
	IndexType   string
	Vectors     [][]float32
	Metadata    []models.Resource
	IDs         []int64
	LastUpdated time.Time
}

// Save writes the current snapshot to path atomically.
func (x *ResourceIndex) Save(path string) error {
	x.mu.RLock()
	st := indexState{
		Version:     stateVersion,
		Dimension:   x.cfg.Dimension,
		IndexType:   x.snap.searcher.kind(),
		Vectors:     x.snap.vectors,
		Metadata:    x.snap.metadata,
		IDs:         x.snap.ids,
		LastUpdated: x.lastUpdated,
	}
	x.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(st); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing index file: %w", err)
	}
	return os.Rename(tmp, path)
}

// Load restores a persisted snapshot from path. A missing or corrupt blob
// returns an error and leaves the index unchanged; callers log it and start
// empty, letting the next rebuild repopulate.
func (x *ResourceIndex) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var st indexState
	if err := gob.NewDecoder(f).Decode(&st); err != nil {
		return fmt.Errorf("decoding index: %w", err)
	}
	if st.Version != stateVersion {
		return fmt.Errorf("unsupported index version %d", st.Version)
	}
	if len(st.Vectors) != len(st.Metadata) || len(st.Metadata) != len(st.IDs) {
		return fmt.Errorf("corrupt index: %d vectors, %d metadata, %d ids",
			len(st.Vectors), len(st.Metadata), len(st.IDs))
	}

	s := &snapshot{
		vectors:  st.Vectors,
		metadata: st.Metadata,
		ids:      st.IDs,
	}
	if len(s.vectors) >= x.cfg.TrainThreshold {
		s.searcher = newHNSWSearcher(s.vectors, x.cfg.HNSW)
	} else {
		s.searcher = newFlatSearcher(s.vectors)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.cfg.Dimension = st.Dimension
	x.snap = s
	x.needsRebuild = false
	x.lastUpdated = st.LastUpdated
	return nil
}
