package store

import "powcost/internal/models"

func indirectCostsID(ic models.IndirectCosts) int { return ic.ID }

// GetIndirectCosts returns all markup records.
func (s *Store) GetIndirectCosts() []models.IndirectCosts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.IndirectCosts](s, KeyIndirectCosts)
}

// SaveIndirectCosts overwrites the markup collection.
func (s *Store) SaveIndirectCosts(records []models.IndirectCosts) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeCollection(s, KeyIndirectCosts, records)
}

// GetIndirectCostsByProject returns the markup record of one project, or nil.
func (s *Store) GetIndirectCostsByProject(projectID string) *models.IndirectCosts {
	for _, ic := range s.GetIndirectCosts() {
		if ic.ProjectID == projectID {
			return &ic
		}
	}
	return nil
}

// UpsertIndirectCosts replaces the rates of the project's markup record, or
// creates one with id max+1 if none exists. The project must exist.
func (s *Store) UpsertIndirectCosts(projectID string, rates models.IndirectRates) (*models.IndirectCosts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findProject(projectID) == nil {
		return nil, ErrUnknownProject
	}

	records := readCollection[models.IndirectCosts](s, KeyIndirectCosts)
	for i := range records {
		if records[i].ProjectID != projectID {
			continue
		}
		records[i].IndirectRates = rates
		if err := writeCollection(s, KeyIndirectCosts, records); err != nil {
			return nil, err
		}
		updated := records[i]
		return &updated, nil
	}

	ic := models.IndirectCosts{
		ID:            nextID(records, indirectCostsID),
		ProjectID:     projectID,
		IndirectRates: rates,
	}
	records = append(records, ic)
	if err := writeCollection(s, KeyIndirectCosts, records); err != nil {
		return nil, err
	}
	return &ic, nil
}

// DeleteIndirectCostsByProject removes the markup record of one project.
func (s *Store) DeleteIndirectCostsByProject(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteIndirectCostsByProject(projectID)
}

func (s *Store) deleteIndirectCostsByProject(projectID string) error {
	records := readCollection[models.IndirectCosts](s, KeyIndirectCosts)
	kept := records[:0]
	for _, ic := range records {
		if ic.ProjectID != projectID {
			kept = append(kept, ic)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return writeCollection(s, KeyIndirectCosts, kept)
}
