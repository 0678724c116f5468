package services

import (
	"context"
	"encoding/json"
	"path"
	"testing"
	"time"

	"github.com/spf13/afero"

	"powcost/internal/backend"
	"powcost/internal/exchange"
	"powcost/internal/filemirror"
	"powcost/internal/models"
	"powcost/internal/store"
	"powcost/internal/testutil"
)

type storageHarness struct {
	fs       afero.Fs
	store    *store.Store
	storage  StorageServicer
	projects ProjectServicer
	catalog  CatalogServicer
}

func setupStorage(t *testing.T, dir string) *storageHarness {
	t.Helper()
	fs := afero.NewMemMapFs()
	s := testutil.SetupTestStore(t)
	mirror := filemirror.New(fs, filemirror.StaticDirectory(dir), s)
	selector := backend.NewSelector(mirror, backend.NewKVBackend(s))
	selector.Probe(context.Background())

	storage := NewStorageService(s, selector)
	return &storageHarness{
		fs:       fs,
		store:    s,
		storage:  storage,
		projects: NewProjectService(s, storage),
		catalog:  NewCatalogService(s, storage),
	}
}

func (h *storageHarness) readBundle(t *testing.T, projectID string) models.ProjectBundle {
	t.Helper()
	data, err := afero.ReadFile(h.fs, path.Join("/pow", filemirror.ProjectFile(projectID)))
	testutil.AssertNoError(t, err)
	bundle, err := exchange.DecodeProjectBundle(data)
	testutil.AssertNoError(t, err)
	return bundle
}

func TestStorageStatus(t *testing.T) {
	t.Run("file_backend", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		st := h.storage.Status()
		if st.Backend != backend.NameFileSystem || !st.FileSystemEnabled || st.Directory != "/pow" {
			t.Errorf("unexpected status %+v", st)
		}
	})

	t.Run("kv_fallback", func(t *testing.T) {
		h := setupStorage(t, "")
		st := h.storage.Status()
		if st.Backend != backend.NameKV || st.FileSystemEnabled {
			t.Errorf("unexpected status %+v", st)
		}
	})
}

func TestWriteThrough(t *testing.T) {
	t.Run("project_changes_reach_the_tree", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		project, err := h.projects.CreateProject(models.NewProject{Title: "Barangay Hall"})
		testutil.AssertNoError(t, err)
		item, err := h.catalog.CreateItem(models.NewItem{ItemNo: "A", Description: "a", UnitCost: 10})
		testutil.AssertNoError(t, err)
		_, err = h.projects.AddItemToProject(project.ID, item.ID, 3)
		testutil.AssertNoError(t, err)

		bundle := h.readBundle(t, project.ID)
		if bundle.Project.Title != "Barangay Hall" || len(bundle.ProjectItems) != 1 {
			t.Errorf("unexpected file contents %+v", bundle)
		}
		if bundle.LastModified == nil {
			t.Error("expected lastModified stamp")
		}

		items, err := afero.ReadFile(h.fs, path.Join("/pow", filemirror.DatabaseDir, filemirror.CatalogFile))
		testutil.AssertNoError(t, err)
		var catalog []models.Item
		testutil.AssertNoError(t, json.Unmarshal(items, &catalog))
		if len(catalog) != 1 || catalog[0].ItemNo != "A" {
			t.Errorf("unexpected catalog file %+v", catalog)
		}
	})

	t.Run("deleted_project_file_is_removed", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		project, err := h.projects.CreateProject(models.NewProject{Title: "Temp"})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, h.projects.DeleteProject(project.ID))

		ok, err := afero.Exists(h.fs, path.Join("/pow", filemirror.ProjectFile(project.ID)))
		testutil.AssertNoError(t, err)
		if ok {
			t.Error("expected project file to be removed")
		}
	})

	t.Run("kv_backend_writes_no_files", func(t *testing.T) {
		h := setupStorage(t, "")
		_, err := h.projects.CreateProject(models.NewProject{Title: "Local"})
		testutil.AssertNoError(t, err)

		entries, _ := afero.ReadDir(h.fs, "/")
		if len(entries) != 0 {
			t.Errorf("expected an untouched fs, got %d entries", len(entries))
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("file_projects_replace_the_store", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		stale := testutil.CreateTestProject(t, h.store)

		project := models.Project{ID: "p-file", Title: "From disk", CreatedAt: time.Now(), UpdatedAt: time.Now()}
		data, err := exchange.EncodeProjectBundle(models.ProjectBundle{
			Project:      project,
			ProjectItems: []models.ProjectItem{{ID: 1, ProjectID: "p-file", Quantity: 2, UnitCost: 5, CostType: models.CostTypeLabor}},
		})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, afero.WriteFile(h.fs, path.Join("/pow", filemirror.ProjectFile("p-file")), data, 0o644))

		result, err := h.storage.Load()
		testutil.AssertNoError(t, err)
		if result.Projects != 1 || result.Backend != backend.NameFileSystem {
			t.Errorf("unexpected result %+v", result)
		}
		if h.store.GetProject(stale.ID) != nil {
			t.Error("expected store projects to be replaced")
		}
		items := h.store.GetProjectItemsByProject("p-file")
		if len(items) != 1 {
			t.Fatalf("expected 1 project item, got %d", len(items))
		}
		testutil.AssertFloat(t, "total", items[0].TotalCost, 10)
	})

	t.Run("empty_tree_keeps_the_store", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		project := testutil.CreateTestProject(t, h.store)
		testutil.CreateTestItem(t, h.store)

		result, err := h.storage.Load()
		testutil.AssertNoError(t, err)
		if h.store.GetProject(project.ID) == nil || result.Items != 1 {
			t.Errorf("expected store to be kept, got %+v", result)
		}
	})
}

func TestInitializeLoadsFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := testutil.SetupTestStore(t)
	catalog, err := exchange.EncodeCatalog([]models.Item{{ID: 9, ItemNo: "PL-001", Description: "PVC pipe", UnitCost: 125}})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, fs.MkdirAll("/pow/Database", 0o755))
	testutil.AssertNoError(t, afero.WriteFile(fs, "/pow/Database/cost_items.json", catalog, 0o644))

	mirror := filemirror.New(fs, filemirror.StaticDirectory("/pow"), s)
	selector := backend.NewSelector(mirror, backend.NewKVBackend(s))
	storage := NewStorageService(s, selector)

	if st := storage.Status(); st.FileSystemEnabled {
		t.Fatal("expected kv before initialization")
	}
	st := storage.Initialize(context.Background())
	if !st.FileSystemEnabled {
		t.Fatal("expected file backend after initialization")
	}
	if got := s.FindItemByNo("PL-001"); got == nil || got.ID != 9 {
		t.Errorf("expected catalog loaded from disk, got %+v", got)
	}
}

func TestProjectExportImport(t *testing.T) {
	t.Run("round_trip_reassigns_colliding_ids", func(t *testing.T) {
		h := setupStorage(t, "")
		item := testutil.CreateTestItem(t, h.store)
		project := testutil.CreateTestProject(t, h.store)
		testutil.CreateTestProjectItem(t, h.store, project.ID, item, 2)

		data, name, err := h.storage.ExportProject(project.ID)
		testutil.AssertNoError(t, err)
		if name != exchange.ProjectExportName(*project) {
			t.Errorf("unexpected name %s", name)
		}

		// Import under a new id so the exported line item id collides.
		var doc map[string]any
		testutil.AssertNoError(t, json.Unmarshal(data, &doc))
		doc["project"].(map[string]any)["id"] = ""
		data, _ = json.Marshal(doc)

		imported, err := h.storage.ImportProject(data)
		testutil.AssertNoError(t, err)
		if imported.ID == "" || imported.ID == project.ID {
			t.Fatalf("expected a fresh project id, got %q", imported.ID)
		}
		a := h.store.GetProjectItemsByProject(project.ID)
		b := h.store.GetProjectItemsByProject(imported.ID)
		if len(a) != 1 || len(b) != 1 || a[0].ID == b[0].ID {
			t.Errorf("expected distinct line item ids, got %+v and %+v", a, b)
		}
	})

	t.Run("invalid_file", func(t *testing.T) {
		h := setupStorage(t, "")
		_, err := h.storage.ImportProject([]byte("not json"))
		testutil.AssertAppError(t, err, "INVALID_IMPORT_FILE")
	})

	t.Run("export_unknown_project", func(t *testing.T) {
		h := setupStorage(t, "")
		_, _, err := h.storage.ExportProject("missing")
		testutil.AssertAppError(t, err, "PROJECT_NOT_FOUND")
	})
}

func TestProjectsExportImport(t *testing.T) {
	t.Run("replaces_projects_and_removes_stale_files", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		old, err := h.projects.CreateProject(models.NewProject{Title: "Old"})
		testutil.AssertNoError(t, err)

		doc := `{"projects":[{"id":"p-new","title":"New","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}],
			"projectItems":[{"id":1,"project_id":"p-new","quantity":2,"unit_cost":3,"total_cost":6,"cost_type":"Material"}]}`
		result, err := h.storage.ImportProjects([]byte(doc))
		testutil.AssertNoError(t, err)
		if result.Projects != 1 {
			t.Errorf("expected 1 project, got %d", result.Projects)
		}
		if h.store.GetProject(old.ID) != nil {
			t.Error("expected old project to be replaced")
		}
		if ok, _ := afero.Exists(h.fs, path.Join("/pow", filemirror.ProjectFile(old.ID))); ok {
			t.Error("expected stale project file to be removed")
		}
		if bundle := h.readBundle(t, "p-new"); len(bundle.ProjectItems) != 1 {
			t.Errorf("expected mirrored items, got %+v", bundle)
		}

		data, name, err := h.storage.ExportProjects()
		testutil.AssertNoError(t, err)
		if name != "projects.json" {
			t.Errorf("unexpected name %s", name)
		}
		set, err := exchange.DecodeProjectSet(data)
		testutil.AssertNoError(t, err)
		if len(set.Projects) != 1 || len(set.ProjectItems) != 1 {
			t.Errorf("unexpected export %+v", set)
		}
	})

	t.Run("absent_markups_are_kept", func(t *testing.T) {
		h := setupStorage(t, "")
		project := testutil.CreateTestProject(t, h.store)
		_, err := h.store.UpsertIndirectCosts(project.ID, models.IndirectRates{OCMPercent: 9})
		testutil.AssertNoError(t, err)

		data, _, err := h.storage.ExportProjects()
		testutil.AssertNoError(t, err)
		var doc map[string]json.RawMessage
		testutil.AssertNoError(t, json.Unmarshal(data, &doc))
		delete(doc, "indirectCosts")
		data, _ = json.Marshal(doc)

		_, err = h.storage.ImportProjects(data)
		testutil.AssertNoError(t, err)
		ic := h.store.GetIndirectCostsByProject(project.ID)
		if ic == nil {
			t.Fatal("expected markup record to survive")
		}
		testutil.AssertFloat(t, "ocm", ic.OCMPercent, 9)
	})

	t.Run("invalid_file", func(t *testing.T) {
		h := setupStorage(t, "")
		_, err := h.storage.ImportProjects([]byte(`{"items":[]}`))
		testutil.AssertAppError(t, err, "INVALID_IMPORT_FILE")
	})
}

func TestBackups(t *testing.T) {
	t.Run("file_backend_create_list_restore", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		project, err := h.projects.CreateProject(models.NewProject{Title: "Keep me"})
		testutil.AssertNoError(t, err)

		b, err := h.storage.CreateBackup()
		testutil.AssertNoError(t, err)
		if b.Location == "" || b.Data != nil {
			t.Errorf("expected a stored backup, got %+v", b)
		}

		labels, err := h.storage.ListBackups()
		testutil.AssertNoError(t, err)
		if len(labels) != 1 {
			t.Fatalf("expected 1 backup label, got %v", labels)
		}

		testutil.AssertNoError(t, h.projects.DeleteProject(project.ID))
		testutil.AssertNoError(t, h.storage.RestoreBackup(labels[0]))
		if h.store.GetProject(project.ID) == nil {
			t.Error("expected project to be restored")
		}
		if ok, _ := afero.Exists(h.fs, path.Join("/pow", filemirror.ProjectFile(project.ID))); !ok {
			t.Error("expected project file to be rewritten")
		}
	})

	t.Run("restore_errors", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		testutil.AssertAppError(t, h.storage.RestoreBackup("yesterday"), "INVALID_INPUT")
		testutil.AssertAppError(t, h.storage.RestoreBackup("2020-01-01"), "BACKUP_NOT_FOUND")

		kv := setupStorage(t, "")
		testutil.AssertAppError(t, kv.storage.RestoreBackup("2020-01-01"), "FILE_SYSTEM_UNAVAILABLE")
	})

	t.Run("kv_backend_download_and_upload", func(t *testing.T) {
		h := setupStorage(t, "")
		project := testutil.CreateTestProject(t, h.store)

		b, err := h.storage.CreateBackup()
		testutil.AssertNoError(t, err)
		if len(b.Data) == 0 || b.Location != "" {
			t.Fatalf("expected downloadable backup, got %+v", b)
		}
		labels, err := h.storage.ListBackups()
		testutil.AssertNoError(t, err)
		if len(labels) != 0 {
			t.Errorf("expected no labels, got %v", labels)
		}

		_, err = h.store.DeleteProject(project.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, h.storage.RestoreFromData(b.Data))
		if h.store.GetProject(project.ID) == nil {
			t.Error("expected project to be restored from upload")
		}

		testutil.AssertAppError(t, h.storage.RestoreFromData([]byte("{")), "INVALID_IMPORT_FILE")
	})
}

func TestResetData(t *testing.T) {
	t.Run("clears_store_and_keeps_files", func(t *testing.T) {
		h := setupStorage(t, "/pow")
		item := testutil.CreateTestItem(t, h.store)
		project, err := h.projects.CreateProject(models.NewProject{Title: "Warehouse"})
		testutil.AssertNoError(t, err)
		_, err = h.projects.AddItemToProject(project.ID, item.ID, 2)
		testutil.AssertNoError(t, err)
		_, err = h.projects.SetIndirectCosts(project.ID, models.DefaultIndirectRates())
		testutil.AssertNoError(t, err)
		tax := 3.0
		_, err = h.store.UpdateSettings(models.SettingsPatch{DefaultTaxPercent: &tax})
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, h.storage.ResetData())

		snap := h.store.Snapshot()
		if len(snap.Items)+len(snap.Projects)+len(snap.ProjectItems)+len(snap.IndirectCosts) != 0 {
			t.Errorf("expected empty collections, got %+v", snap)
		}
		if *snap.Settings != models.DefaultSettings() {
			t.Errorf("expected default settings, got %+v", *snap.Settings)
		}
		exists, err := afero.Exists(h.fs, path.Join("/pow", filemirror.ProjectFile(project.ID)))
		testutil.AssertNoError(t, err)
		if !exists {
			t.Error("reset must leave project files in place")
		}
	})

	t.Run("write_failure", func(t *testing.T) {
		medium := testutil.NewFailingMedium(testutil.SetupTestMedium(t))
		s := store.New(medium)
		selector := backend.NewSelector(filemirror.New(afero.NewMemMapFs(), filemirror.StaticDirectory(""), s), backend.NewKVBackend(s))
		svc := NewStorageService(s, selector)
		project := testutil.CreateTestProject(t, s)

		medium.FailKey(store.KeyProjects)
		testutil.AssertAppError(t, svc.ResetData(), "STORAGE_WRITE_FAILED")
		if s.GetProject(project.ID) == nil {
			t.Error("project must survive a failed reset")
		}
	})
}
