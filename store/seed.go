package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nexoventlabs-official/RestaruntBot1-sub001/models"

	"gopkg.in/yaml.v3"
)

// ParseSnapshot decodes a YAML catalog document. Keys follow the JSON field
// names of models.Snapshot (items, categories, specials, specials_window).
func ParseSnapshot(data []byte) (*models.Snapshot, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog yaml: %w", err)
	}
	// yaml and json agree on scalar types, so the document is routed through
	// json to reuse the model tags
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode catalog: %w", err)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(buf, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for i, item := range snap.Items {
		if item.ID == "" {
			return nil, fmt.Errorf("catalog item %d (%q) has no id", i, item.Name)
		}
	}
	for i, sp := range snap.Specials {
		if sp.ID == "" {
			return nil, fmt.Errorf("special item %d (%q) has no id", i, sp.Name)
		}
	}
	return &snap, nil
}

// LoadSnapshotFile reads a YAML catalog from path
func LoadSnapshotFile(path string) (*models.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return ParseSnapshot(data)
}
