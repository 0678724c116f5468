package exchange

import (
	"encoding/json"
	"errors"
	"fmt"

	"powcost/internal/models"
)

// ErrMissingProject is returned when a project document has no project.
var ErrMissingProject = errors.New("exchange: document has no project")

// EncodeProjectBundle renders a project document as indented JSON.
func EncodeProjectBundle(bundle models.ProjectBundle) ([]byte, error) {
	if bundle.ProjectItems == nil {
		bundle.ProjectItems = []models.ProjectItem{}
	}
	return json.MarshalIndent(bundle, "", "  ")
}

// DecodeProjectBundle parses a project document. A document without a
// project id or title is rejected.
func DecodeProjectBundle(data []byte) (models.ProjectBundle, error) {
	var bundle models.ProjectBundle
	if err := json.Unmarshal(data, &bundle); err != nil {
		return models.ProjectBundle{}, fmt.Errorf("decoding project: %w", err)
	}
	if bundle.Project.ID == "" && bundle.Project.Title == "" {
		return models.ProjectBundle{}, ErrMissingProject
	}
	if bundle.ProjectItems == nil {
		bundle.ProjectItems = []models.ProjectItem{}
	}
	return bundle, nil
}

// EncodeSnapshot renders a full-state snapshot as indented JSON.
func EncodeSnapshot(snap models.Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// DecodeSnapshot parses a full-state snapshot. Absent collections stay nil so
// that restoring leaves them untouched.
func DecodeSnapshot(data []byte) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

// EncodeCatalog renders the catalog file as indented JSON.
func EncodeCatalog(items []models.Item) ([]byte, error) {
	if items == nil {
		items = []models.Item{}
	}
	return json.MarshalIndent(items, "", "  ")
}

// DecodeCatalog parses the catalog file.
func DecodeCatalog(data []byte) ([]models.Item, error) {
	var items []models.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

// EncodeProjectSet renders every project with its items and markups.
func EncodeProjectSet(set models.ProjectSet) ([]byte, error) {
	if set.Projects == nil {
		set.Projects = []models.Project{}
	}
	if set.ProjectItems == nil {
		set.ProjectItems = []models.ProjectItem{}
	}
	if set.IndirectCosts == nil {
		set.IndirectCosts = []models.IndirectCosts{}
	}
	return json.MarshalIndent(set, "", "  ")
}

// DecodeProjectSet parses an all-projects document. The projects list is
// required; absent item and markup lists stay nil.
func DecodeProjectSet(data []byte) (models.ProjectSet, error) {
	var set models.ProjectSet
	if err := json.Unmarshal(data, &set); err != nil {
		return models.ProjectSet{}, fmt.Errorf("decoding projects: %w", err)
	}
	if set.Projects == nil {
		return models.ProjectSet{}, ErrMissingProject
	}
	return set, nil
}

// EncodeSettings renders a settings export as indented JSON.
func EncodeSettings(settings models.AppSettings) ([]byte, error) {
	return json.MarshalIndent(settings, "", "  ")
}

// DecodeSettings parses a settings file into a patch holding only the keys
// the file sets.
func DecodeSettings(data []byte) (models.SettingsPatch, error) {
	var patch models.SettingsPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return models.SettingsPatch{}, fmt.Errorf("decoding settings: %w", err)
	}
	return patch, nil
}
