package feature

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
)

// stateVersion tags the on-disk format so later format changes fail loading
// loudly instead of silently misreading old blobs.
const stateVersion = 1

// builderState is the explicit on-disk schema for fitted builder state plus
// the reduced feature matrix of the snapshot it was trained on.
type builderState struct {
	Version    int
	TargetDim  int
	MaxVocab   int
	Vocab      map[string]int
	IDF        []float64
	CatColumns [][]string
	Mean       []float64
	Std        []float64
	Components [][]float64
	Matrix     [][]float64
}

// SaveState writes the fitted state and the given feature matrix to path,
// atomically via a temp file rename.
func (b *Builder) SaveState(path string, matrix [][]float64) error {
	st := builderState{
		Version:    stateVersion,
		TargetDim:  b.cfg.TargetDim,
		MaxVocab:   b.cfg.MaxVocab,
		Vocab:      b.tfidf.vocab,
		IDF:        b.tfidf.idf,
		CatColumns: b.encoder.columns,
		Mean:       b.scaler.mean,
		Std:        b.scaler.std,
		Components: b.svd.Components(),
		Matrix:     matrix,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating state file: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(st); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing state file: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadState restores fitted state from path and returns the persisted
// feature matrix. A missing or corrupt file returns an error; callers treat
// that as "nothing persisted" and continue untrained.
func (b *Builder) LoadState(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening state file: %w", err)
	}
	defer f.Close()

	var st builderState
	if err := gob.NewDecoder(f).Decode(&st); err != nil {
		return nil, fmt.Errorf("decoding state: %w", err)
	}
	if st.Version != stateVersion {
		return nil, fmt.Errorf("unsupported state version %d", st.Version)
	}

	b.cfg.TargetDim = st.TargetDim
	b.cfg.MaxVocab = st.MaxVocab

	b.tfidf = NewTFIDFVectorizer(st.MaxVocab)
	b.tfidf.vocab = st.Vocab
	b.tfidf.idf = st.IDF

	b.encoder = &OneHotEncoder{}
	if st.CatColumns != nil {
		b.encoder.columns = st.CatColumns
		b.encoder.index = make([]map[string]int, len(st.CatColumns))
		for c, cats := range st.CatColumns {
			b.encoder.index[c] = make(map[string]int, len(cats))
			for i, v := range cats {
				b.encoder.index[c][v] = i
			}
			b.encoder.width += len(cats)
		}
	}

	b.scaler = &StandardScaler{mean: st.Mean, std: st.Std}

	b.svd = NewTruncatedSVD(st.TargetDim)
	b.svd.SetComponents(st.Components)

	return st.Matrix, nil
}
