// ABOUTME: Durable key-value store for client state that must survive restarts
// ABOUTME: JSON file backend in the config directory plus an in-memory backend for tests

package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys persisted by the client
const (
	KeyToken            = "token"
	KeyLegacyToken      = "auth_token"
	KeySidebarCollapsed = "sidebar_collapsed"
)

// StateFileName is the file FileStore writes under its directory
const StateFileName = "state.json"

// Store is the persistence adapter behind the auth provider and preferences
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// FileStore keeps all keys in a single JSON object on disk
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a store rooted at dir; the directory is created on first write
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (fs *FileStore) path() string {
	return filepath.Join(fs.dir, StateFileName)
}

// load reads the state file; a missing or corrupt file yields an empty map
func (fs *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(fs.path())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		// Invalid JSON, start fresh
		return map[string]string{}, nil
	}
	return values, nil
}

// save writes through a temp file so a crash never leaves half a token
func (fs *FileStore) save(values map[string]string) error {
	if err := os.MkdirAll(fs.dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(fs.dir, ".state-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), fs.path())
}

// Get returns the value for key and whether it was present
func (fs *FileStore) Get(key string) (string, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", fs.path(), err)
	}
	v, ok := values[key]
	return v, ok, nil
}

// Set stores value under key
func (fs *FileStore) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fs.path(), err)
	}
	values[key] = value
	if err := fs.save(values); err != nil {
		return fmt.Errorf("failed to write %s: %w", fs.path(), err)
	}
	return nil
}

// Delete removes keys; missing keys are ignored
func (fs *FileStore) Delete(keys ...string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", fs.path(), err)
	}

	changed := false
	for _, k := range keys {
		if _, ok := values[k]; ok {
			delete(values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := fs.save(values); err != nil {
		return fmt.Errorf("failed to write %s: %w", fs.path(), err)
	}
	return nil
}

// Memory is a process-local Store
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
