package store

import (
	"powcost/internal/models"
)

// Snapshot returns a copy of the full state, stamped with the current time.
// Mutating the returned slices does not affect the store.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := s.readSettings()
	return models.Snapshot{
		Projects:      readCollection[models.Project](s, KeyProjects),
		ProjectItems:  readCollection[models.ProjectItem](s, KeyProjectItems),
		Items:         readCollection[models.Item](s, KeyItems),
		IndirectCosts: readCollection[models.IndirectCosts](s, KeyIndirectCosts),
		Settings:      &settings,
		Timestamp:     s.now(),
	}
}

// RestoreSnapshot overwrites every collection present in snap. Collections
// that are nil in snap are left untouched.
func (s *Store) RestoreSnapshot(snap models.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Projects != nil {
		if err := writeCollection(s, KeyProjects, snap.Projects); err != nil {
			return err
		}
	}
	if snap.ProjectItems != nil {
		if err := writeCollection(s, KeyProjectItems, snap.ProjectItems); err != nil {
			return err
		}
	}
	if snap.Items != nil {
		if err := writeCollection(s, KeyItems, snap.Items); err != nil {
			return err
		}
	}
	if snap.IndirectCosts != nil {
		if err := writeCollection(s, KeyIndirectCosts, snap.IndirectCosts); err != nil {
			return err
		}
	}
	if snap.Settings != nil {
		if err := s.writeSettings(*snap.Settings); err != nil {
			return err
		}
	}
	return nil
}

// Reset empties every collection and restores the default settings. Child
// collections are cleared before projects.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeCollection(s, KeyProjectItems, []models.ProjectItem{}); err != nil {
		return err
	}
	if err := writeCollection(s, KeyIndirectCosts, []models.IndirectCosts{}); err != nil {
		return err
	}
	if err := writeCollection(s, KeyProjects, []models.Project{}); err != nil {
		return err
	}
	if err := writeCollection(s, KeyItems, []models.Item{}); err != nil {
		return err
	}
	return s.writeSettings(models.DefaultSettings())
}

// ProjectSet returns every project with its items and markup records.
func (s *Store) ProjectSet() models.ProjectSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ProjectSet{
		Projects:      readCollection[models.Project](s, KeyProjects),
		ProjectItems:  readCollection[models.ProjectItem](s, KeyProjectItems),
		IndirectCosts: readCollection[models.IndirectCosts](s, KeyIndirectCosts),
	}
}

// ReplaceProjectSet replaces projects, project items and markup records with
// set. Items and markup records whose project is not in set are dropped, and
// item totals are recomputed.
func (s *Store) ReplaceProjectSet(set models.ProjectSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	known := make(map[string]bool, len(set.Projects))
	for _, p := range set.Projects {
		known[p.ID] = true
	}
	items := make([]models.ProjectItem, 0, len(set.ProjectItems))
	for _, pi := range set.ProjectItems {
		if known[pi.ProjectID] {
			pi.Recalculate()
			items = append(items, pi)
		}
	}
	markups := make([]models.IndirectCosts, 0, len(set.IndirectCosts))
	seen := make(map[string]bool, len(set.IndirectCosts))
	for _, ic := range set.IndirectCosts {
		if known[ic.ProjectID] && !seen[ic.ProjectID] {
			seen[ic.ProjectID] = true
			markups = append(markups, ic)
		}
	}

	if err := writeCollection(s, KeyProjects, set.Projects); err != nil {
		return err
	}
	if err := writeCollection(s, KeyProjectItems, items); err != nil {
		return err
	}
	return writeCollection(s, KeyIndirectCosts, markups)
}

// ReplaceProjectBundle inserts or replaces one project with its items and
// markup record. Item and markup ids are kept unless they collide with a
// record of another project, in which case a fresh id is assigned.
func (s *Store) ReplaceProjectBundle(bundle models.ProjectBundle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := bundle.Project
	if project.ID == "" {
		project.ID = s.newID()
	}

	projects := readCollection[models.Project](s, KeyProjects)
	replaced := false
	for i := range projects {
		if projects[i].ID == project.ID {
			projects[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, project)
	}

	existing := readCollection[models.ProjectItem](s, KeyProjectItems)
	items := make([]models.ProjectItem, 0, len(existing)+len(bundle.ProjectItems))
	taken := make(map[int]bool)
	for _, pi := range existing {
		if pi.ProjectID != project.ID {
			items = append(items, pi)
			taken[pi.ID] = true
		}
	}
	next := nextID(existing, projectItemID)
	for _, pi := range bundle.ProjectItems {
		pi.ProjectID = project.ID
		pi.Recalculate()
		if pi.ID <= 0 || taken[pi.ID] {
			for taken[next] {
				next++
			}
			pi.ID = next
		}
		taken[pi.ID] = true
		if pi.ID >= next {
			next = pi.ID + 1
		}
		items = append(items, pi)
	}

	markups := readCollection[models.IndirectCosts](s, KeyIndirectCosts)
	if bundle.IndirectCosts != nil {
		ic := *bundle.IndirectCosts
		ic.ProjectID = project.ID
		kept := markups[:0]
		ids := make(map[int]bool)
		for _, m := range markups {
			if m.ProjectID != project.ID {
				kept = append(kept, m)
				ids[m.ID] = true
			}
		}
		if ic.ID <= 0 || ids[ic.ID] {
			ic.ID = nextID(kept, indirectCostsID)
			for ids[ic.ID] {
				ic.ID++
			}
		}
		markups = append(kept, ic)
	}

	if err := writeCollection(s, KeyProjects, projects); err != nil {
		return err
	}
	if err := writeCollection(s, KeyProjectItems, items); err != nil {
		return err
	}
	return writeCollection(s, KeyIndirectCosts, markups)
}
