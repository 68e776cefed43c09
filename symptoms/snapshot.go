package symptoms

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Snapshot is the persisted form of a vocabulary. Both lists are written and
// read together.
type Snapshot struct {
	Symptoms []string `json:"symptoms"`
	Diseases []string `json:"diseases"`
}

// SaveSnapshot writes vocab to path atomically.
func SaveSnapshot(path string, vocab *Vocabulary) error {
	data, err := json.MarshalIndent(Snapshot{Symptoms: vocab.symptoms, Diseases: vocab.diseases}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// LoadSnapshot reads a snapshot and rebuilds the vocabulary. The stored order
// must already be sorted and duplicate free; anything else means the file
// does not describe the vocabulary a model was trained against.
func LoadSnapshot(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, configErrorf("decode snapshot %s: %w", filepath.Base(path), err)
	}
	if !strictlySorted(snap.Symptoms) {
		return nil, configErrorf("snapshot %s: symptoms are not sorted and unique", filepath.Base(path))
	}
	if !strictlySorted(snap.Diseases) {
		return nil, configErrorf("snapshot %s: diseases are not sorted and unique", filepath.Base(path))
	}
	return NewVocabulary(snap.Symptoms, snap.Diseases)
}

func strictlySorted(values []string) bool {
	if !sort.StringsAreSorted(values) {
		return false
	}
	for i := 1; i < len(values); i++ {
		if values[i] == values[i-1] {
			return false
		}
	}
	return true
}

// writeFileAtomic writes to a sibling temp file and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0o644)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
