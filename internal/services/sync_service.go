package services

import (
	"context"
	"errors"
	"net/http"

	"powcost/internal/logger"
	"powcost/internal/models"
	"powcost/internal/remote"
	"powcost/internal/store"

	apperrors "powcost/internal/errors"
)

// syncService exchanges data with the optional hosted store. The client is
// rebuilt from the settings on every call so credential edits apply at once.
type syncService struct {
	store      *store.Store
	mirror     Mirrorer
	httpClient *http.Client
}

// NewSyncService creates a new SyncServicer.
func NewSyncService(s *store.Store, mirror Mirrorer, httpClient *http.Client) SyncServicer {
	if mirror == nil {
		mirror = noopMirror{}
	}
	return &syncService{store: s, mirror: mirror, httpClient: httpClient}
}

func (s *syncService) client() (*remote.Client, error) {
	settings := s.store.GetSettings()
	if !settings.RemoteConfigured() {
		return nil, apperrors.ErrRemoteNotConfigured
	}
	return remote.NewClient(settings.RemoteURL, settings.RemoteAPIKey, s.httpClient), nil
}

func remoteError(err error) error {
	if errors.Is(err, remote.ErrNotConfigured) {
		return apperrors.Wrap(apperrors.ErrRemoteNotConfigured, err)
	}
	logger.Get().Errorw("remote store request failed", "error", err)
	return apperrors.Wrap(apperrors.ErrRemoteRequest, err)
}

// Status reports whether remote credentials are set.
func (s *syncService) Status() RemoteStatus {
	settings := s.store.GetSettings()
	return RemoteStatus{Configured: settings.RemoteConfigured(), URL: settings.RemoteURL}
}

// TestConnection checks that the hosted store answers with the stored key.
func (s *syncService) TestConnection(ctx context.Context) error {
	c, err := s.client()
	if err != nil {
		return err
	}
	if err := c.Ping(ctx); err != nil {
		return remoteError(err)
	}
	return nil
}

// PushAll upserts the whole local state and removes remote projects that
// no longer exist locally.
func (s *syncService) PushAll(ctx context.Context) (*PushResult, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	snap := s.store.Snapshot()
	result := &PushResult{}

	if result.Items, err = c.UpsertItems(ctx, snap.Items); err != nil {
		return nil, remoteError(err)
	}
	if result.Projects, err = c.UpsertProjects(ctx, snap.Projects); err != nil {
		return nil, remoteError(err)
	}
	if result.ProjectItems, err = c.UpsertProjectItems(ctx, snap.ProjectItems); err != nil {
		return nil, remoteError(err)
	}
	if result.IndirectCosts, err = c.UpsertIndirectCosts(ctx, snap.IndirectCosts); err != nil {
		return nil, remoteError(err)
	}

	if err := s.pruneRemote(ctx, c, snap, result); err != nil {
		return nil, remoteError(err)
	}

	logger.Get().Infow("pushed local state to remote store",
		"items", result.Items,
		"projects", result.Projects,
		"project_items", result.ProjectItems,
		"indirect_costs", result.IndirectCosts,
		"deleted", result.Deleted,
	)
	return result, nil
}

// pruneRemote deletes remote records that no longer exist locally.
func (s *syncService) pruneRemote(ctx context.Context, c *remote.Client, snap models.Snapshot, result *PushResult) error {
	localItems := make(map[int]bool, len(snap.Items))
	for _, item := range snap.Items {
		localItems[item.ID] = true
	}
	remoteItems, err := c.ListItems(ctx)
	if err != nil {
		return err
	}
	for _, item := range remoteItems {
		if localItems[item.ID] {
			continue
		}
		if err := c.DeleteItem(ctx, item.ID); err != nil {
			return err
		}
		result.Deleted++
	}

	localProjects := make(map[string]bool, len(snap.Projects))
	for _, p := range snap.Projects {
		localProjects[p.ID] = true
	}
	localLines := make(map[int]bool, len(snap.ProjectItems))
	for _, pi := range snap.ProjectItems {
		localLines[pi.ID] = true
	}
	remoteProjects, err := c.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, p := range remoteProjects {
		if !localProjects[p.ID] {
			if err := c.DeleteProject(ctx, p.ID); err != nil {
				return err
			}
			result.Deleted++
			continue
		}
		lines, err := c.ListProjectItems(ctx, p.ID)
		if err != nil {
			return err
		}
		for _, pi := range lines {
			if localLines[pi.ID] {
				continue
			}
			if err := c.DeleteProjectItem(ctx, pi.ID); err != nil {
				return err
			}
			result.Deleted++
		}
	}
	return nil
}

// PullCatalog replaces the local catalog with the remote one.
func (s *syncService) PullCatalog(ctx context.Context) (*ImportResult, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	items, err := c.ListItems(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	if items == nil {
		items = []models.Item{}
	}
	if err := s.store.SaveItems(items); err != nil {
		return nil, storeError(err)
	}
	s.mirror.SyncCatalog()
	return &ImportResult{Imported: len(items), Replaced: true}, nil
}

// PullProjects replaces the local projects, their items and markups with
// the remote ones.
func (s *syncService) PullProjects(ctx context.Context) (*LoadResult, error) {
	c, err := s.client()
	if err != nil {
		return nil, err
	}
	projects, err := c.ListProjects(ctx)
	if err != nil {
		return nil, remoteError(err)
	}

	set := models.ProjectSet{
		Projects:      projects,
		ProjectItems:  []models.ProjectItem{},
		IndirectCosts: []models.IndirectCosts{},
	}
	if set.Projects == nil {
		set.Projects = []models.Project{}
	}
	for _, p := range projects {
		items, err := c.ListProjectItems(ctx, p.ID)
		if err != nil {
			return nil, remoteError(err)
		}
		set.ProjectItems = append(set.ProjectItems, items...)

		ic, err := c.GetIndirectCosts(ctx, p.ID)
		if err != nil {
			return nil, remoteError(err)
		}
		if ic != nil {
			set.IndirectCosts = append(set.IndirectCosts, *ic)
		}
	}

	previous := s.store.GetProjects()
	if err := s.store.ReplaceProjectSet(set); err != nil {
		return nil, storeError(err)
	}
	for _, p := range previous {
		s.mirror.SyncProject(p.ID)
	}
	for _, p := range projects {
		s.mirror.SyncProject(p.ID)
	}

	return &LoadResult{
		Backend:  "remote",
		Projects: len(set.Projects),
		Items:    len(set.ProjectItems),
	}, nil
}
