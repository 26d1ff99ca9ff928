package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/um5chat/campuschat/helper"
)

// labelMappingFile mirrors the label_mappings.json written at training
// time: {"id2label": {"0": "inscription", "1": "bourses", ...}}.
type labelMappingFile struct {
	ID2Label map[string]string `json:"id2label"`
}

// LoadLabelMapping reads the id-to-label mapping and returns the labels
// ordered by id. Ids must be contiguous from 0; anything else is a
// malformed mapping and fails startup.
func LoadLabelMapping(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("load label mapping", err)
	}

	var mapping labelMappingFile
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, helper.NewError("load label mapping", fmt.Errorf("parse %s: %w", path, err))
	}
	if len(mapping.ID2Label) == 0 {
		return nil, helper.NewError("load label mapping", fmt.Errorf("no labels in %s", path))
	}

	labels := make([]string, len(mapping.ID2Label))
	for key, label := range mapping.ID2Label {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, helper.NewError("load label mapping", fmt.Errorf("non-numeric label id %q", key))
		}
		if id < 0 || id >= len(labels) {
			return nil, helper.NewError("load label mapping", fmt.Errorf("label id %d outside [0, %d)", id, len(labels)))
		}
		if labels[id] != "" {
			return nil, helper.NewError("load label mapping", fmt.Errorf("duplicate label id %d", id))
		}
		if label == "" {
			return nil, helper.NewError("load label mapping", fmt.Errorf("empty label for id %d", id))
		}
		labels[id] = label
	}

	return labels, nil
}
