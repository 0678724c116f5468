package store

import "powcost/internal/models"

// GetProjects returns all projects.
func (s *Store) GetProjects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return readCollection[models.Project](s, KeyProjects)
}

// SaveProjects overwrites the project collection.
func (s *Store) SaveProjects(projects []models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeCollection(s, KeyProjects, projects)
}

// GetProject returns the project with id, or nil.
func (s *Store) GetProject(id string) *models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findProject(id)
}

func (s *Store) findProject(id string) *models.Project {
	for _, p := range readCollection[models.Project](s, KeyProjects) {
		if p.ID == id {
			return &p
		}
	}
	return nil
}

// AddProject creates a project with a fresh unique id and both timestamps
// set to now.
func (s *Store) AddProject(input models.NewProject) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	project := models.Project{
		ID:               s.newID(),
		Title:            input.Title,
		Location:         input.Location,
		Category:         input.Category,
		IdentificationNo: input.IdentificationNo,
		Duration:         input.Duration,
		SourceOfFund:     input.SourceOfFund,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	projects := append(readCollection[models.Project](s, KeyProjects), project)
	if err := writeCollection(s, KeyProjects, projects); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject merges patch into the project with id and refreshes
// updated_at. It returns nil, nil when no such project exists.
func (s *Store) UpdateProject(id string, patch models.ProjectPatch) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchProject(id, patch)
}

// TouchProject refreshes updated_at of the project with id.
func (s *Store) TouchProject(id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchProject(id, models.ProjectPatch{})
}

func (s *Store) touchProject(id string, patch models.ProjectPatch) (*models.Project, error) {
	projects := readCollection[models.Project](s, KeyProjects)
	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		patch.Apply(&projects[i])
		projects[i].UpdatedAt = s.now()
		if err := writeCollection(s, KeyProjects, projects); err != nil {
			return nil, err
		}
		updated := projects[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteProject removes the project with id together with its project items
// and its indirect-costs record. The project record is written last, so a
// failed write leaves no child pointing at a missing project.
func (s *Store) DeleteProject(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := readCollection[models.Project](s, KeyProjects)
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return false, nil
	}
	if err := s.deleteProjectItemsByProject(id); err != nil {
		return false, err
	}
	if err := s.deleteIndirectCostsByProject(id); err != nil {
		return false, err
	}
	if err := writeCollection(s, KeyProjects, kept); err != nil {
		return false, err
	}
	return true, nil
}
