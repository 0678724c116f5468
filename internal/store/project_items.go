package store

import "powcost/internal/models"

func projectItemID(pi models.ProjectItem) int { return pi.ID }

// GetProjectItems returns every project item of every project.
func (s *Store) GetProjectItems() []models.ProjectItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.ProjectItem](s, KeyProjectItems)
}

// SaveProjectItems overwrites the project item collection.
func (s *Store) SaveProjectItems(items []models.ProjectItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeCollection(s, KeyProjectItems, items)
}

// GetProjectItem returns the project item with id, or nil.
func (s *Store) GetProjectItem(id int) *models.ProjectItem {
	for _, pi := range s.GetProjectItems() {
		if pi.ID == id {
			return &pi
		}
	}
	return nil
}

// GetProjectItemsByProject returns the items of one project in stored order.
func (s *Store) GetProjectItemsByProject(projectID string) []models.ProjectItem {
	result := []models.ProjectItem{}
	for _, pi := range s.GetProjectItems() {
		if pi.ProjectID == projectID {
			result = append(result, pi)
		}
	}
	return result
}

// AddProjectItem appends a project item with id max+1 and total_cost derived
// from quantity and unit cost. The project must exist.
func (s *Store) AddProjectItem(input models.NewProjectItem) (*models.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findProject(input.ProjectID) == nil {
		return nil, ErrUnknownProject
	}

	items := readCollection[models.ProjectItem](s, KeyProjectItems)
	pi := models.ProjectItem{
		ID:          nextID(items, projectItemID),
		ProjectID:   input.ProjectID,
		ItemID:      input.ItemID,
		Quantity:    input.Quantity,
		UnitCost:    input.UnitCost,
		ItemNo:      input.ItemNo,
		Description: input.Description,
		Category:    input.Category,
		Unit:        input.Unit,
		CostType:    input.CostType,
	}
	pi.Recalculate()

	items = append(items, pi)
	if err := writeCollection(s, KeyProjectItems, items); err != nil {
		return nil, err
	}
	return &pi, nil
}

// UpdateProjectItem merges patch into the project item with id and recomputes
// its total. It returns nil, nil when no such item exists.
func (s *Store) UpdateProjectItem(id int, patch models.ProjectItemPatch) (*models.ProjectItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readCollection[models.ProjectItem](s, KeyProjectItems)
	for i := range items {
		if items[i].ID != id {
			continue
		}
		patch.Apply(&items[i])
		if err := writeCollection(s, KeyProjectItems, items); err != nil {
			return nil, err
		}
		updated := items[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteProjectItem removes the project item with id.
func (s *Store) DeleteProjectItem(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := readCollection[models.ProjectItem](s, KeyProjectItems)
	kept := items[:0]
	for _, pi := range items {
		if pi.ID != id {
			kept = append(kept, pi)
		}
	}
	if len(kept) == len(items) {
		return false, nil
	}
	if err := writeCollection(s, KeyProjectItems, kept); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteProjectItemsByProject removes every item of one project.
func (s *Store) DeleteProjectItemsByProject(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteProjectItemsByProject(projectID)
}

func (s *Store) deleteProjectItemsByProject(projectID string) error {
	items := readCollection[models.ProjectItem](s, KeyProjectItems)
	kept := items[:0]
	for _, pi := range items {
		if pi.ProjectID != projectID {
			kept = append(kept, pi)
		}
	}
	if len(kept) == len(items) {
		return nil
	}
	return writeCollection(s, KeyProjectItems, kept)
}
