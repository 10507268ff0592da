package storage

import (
	"encoding/json"
	"fmt"
)

// MockStorage keeps the stored values in memory.
type MockStorage struct {
	Elements map[Key]interface{}
}

func NewMockStorage() *MockStorage {
	return &MockStorage{Elements: make(map[Key]interface{})}
}

func (m *MockStorage) Store(k Key, value interface{}) error {
	m.Elements[k] = value
	return nil
}

// Load decodes the stored value into value through its json form,
// the same way the file storage would.
func (m *MockStorage) Load(k Key, value interface{}) error {
	stored, ok := m.Elements[k]
	if !ok {
		return fmt.Errorf("not found '%v': %w", k, NotFoundErr)
	}
	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("could not encode '%v': %s: %w", k, err.Error(), CouldNotLoadErr)
	}
	if err := json.Unmarshal(b, value); err != nil {
		return fmt.Errorf("could not decode '%v': %s: %w", k, err.Error(), CouldNotLoadErr)
	}
	return nil
}
