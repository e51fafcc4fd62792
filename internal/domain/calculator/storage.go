package calculator

import (
	"encoding/json"
	"fmt"
)

// StorageItem is the flat persisted form of a calculator or workflow
type StorageItem struct {
	ID      string   `json:"id"`
	Config  *Config  `json:"config,omitempty"`
	Stages   []Config `json:"stages,omitempty"`
	Branches []Config `json:"branches,omitempty"`
	Project  string   `json:"project,omitempty"`
}

// ToStorage flattens a calculator so it can be rebuilt later with FromStorage
func ToStorage(c Calculator) StorageItem {
	if w, ok := c.(*Workflow); ok {
		return StorageItem{ID: w.ID(), Stages: w.StageConfigs(), Branches: w.BranchConfigs(), Project: w.project}
	}
	cfg := c.Config()
	return StorageItem{ID: c.ID(), Config: &cfg}
}

// FromStorage rebuilds the calculator a storage item describes
func FromStorage(env Env, item StorageItem) (Calculator, error) {
	if len(item.Stages) > 0 {
		return NewBranchedWorkflow(env, item.Stages, item.Branches, item.Project)
	}
	if item.Config == nil {
		return nil, fmt.Errorf("storage item %q has no config", item.ID)
	}
	return New(env, *item.Config)
}

// Key identifies the stored configuration, independent of the derived ID
func (s StorageItem) Key() string {
	if s.Config != nil {
		return s.Config.Key()
	}
	data, err := json.Marshal(struct {
		Stages   []Config `json:"stages"`
		Branches []Config `json:"branches,omitempty"`
		Project  string   `json:"project"`
	}{s.Stages, s.Branches, s.Project})
	if err != nil {
		return s.ID
	}
	return string(data)
}

// Encode serializes the item as JSON
func (s StorageItem) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeStorageItem parses an item produced by Encode
func DecodeStorageItem(data []byte) (StorageItem, error) {
	var item StorageItem
	if err := json.Unmarshal(data, &item); err != nil {
		return StorageItem{}, fmt.Errorf("failed to decode storage item: %w", err)
	}
	return item, nil
}
