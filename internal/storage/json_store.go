package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// document is the on-disk layout of a JSONStore file.
type document struct {
	Version int                        `json:"version"`
	Data    map[string]json.RawMessage `json:"data"`
}

// JSONStore keeps every blob in a single JSON file. Values must themselves
// be valid JSON; they are stored compacted, so Get returns the same bytes
// before and after a reload.
type JSONStore struct {
	path string
	doc  *document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

// Init creates the file if it does not exist and loads it otherwise.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return s.Load()
	}

	s.doc = &document{
		Version: 1,
		Data:    make(map[string]json.RawMessage),
	}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'habitlit init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Data == nil {
		doc.Data = make(map[string]json.RawMessage)
	}
	s.doc = doc

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	raw, ok := s.doc.Data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(raw))
	copy(out, raw)
	return out, nil
}

func (s *JSONStore) Put(key string, value []byte) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return fmt.Errorf("value for %q is not valid JSON: %w", key, err)
	}
	s.doc.Data[key] = json.RawMessage(buf.Bytes())
	return s.save()
}

// save writes to a temporary file and renames it over the original so a
// crash mid-write leaves the previous state intact.
func (s *JSONStore) save() error {
	// MarshalIndent would re-indent every embedded value
	data, err := json.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

// GetConfigPath returns the path to the storage file.
//
// Running multiple habitlit processes against the same file is not
// supported; see internal/lock.
func (s *JSONStore) GetConfigPath() string {
	return s.path
}
