package models

import "time"

// ProjectBundle is one project with its line items and markup record. It is
// the content of a project file and of a single-project export.
type ProjectBundle struct {
	Project       Project        `json:"project"`
	ProjectItems  []ProjectItem  `json:"projectItems"`
	IndirectCosts *IndirectCosts `json:"indirectCosts,omitempty"`
	LastModified  *time.Time     `json:"lastModified,omitempty"`
}

// ProjectSet is the flattened content of many project bundles.
type ProjectSet struct {
	Projects      []Project       `json:"projects"`
	ProjectItems  []ProjectItem   `json:"projectItems"`
	IndirectCosts []IndirectCosts `json:"indirectCosts"`
}

// Bundles regroups the set by project, in project order.
func (s ProjectSet) Bundles() []ProjectBundle {
	bundles := make([]ProjectBundle, 0, len(s.Projects))
	for _, p := range s.Projects {
		b := ProjectBundle{Project: p, ProjectItems: []ProjectItem{}}
		for _, pi := range s.ProjectItems {
			if pi.ProjectID == p.ID {
				b.ProjectItems = append(b.ProjectItems, pi)
			}
		}
		for i := range s.IndirectCosts {
			if s.IndirectCosts[i].ProjectID == p.ID {
				ic := s.IndirectCosts[i]
				b.IndirectCosts = &ic
				break
			}
		}
		bundles = append(bundles, b)
	}
	return bundles
}

// Snapshot is the full application state written by a backup.
type Snapshot struct {
	Projects      []Project       `json:"projects"`
	ProjectItems  []ProjectItem   `json:"projectItems"`
	Items         []Item          `json:"items"`
	IndirectCosts []IndirectCosts `json:"indirectCosts"`
	Settings      *AppSettings    `json:"settings,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
}

// ProjectSet returns the project part of the snapshot.
func (s Snapshot) ProjectSet() ProjectSet {
	return ProjectSet{
		Projects:      s.Projects,
		ProjectItems:  s.ProjectItems,
		IndirectCosts: s.IndirectCosts,
	}
}
