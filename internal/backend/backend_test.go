package backend_test

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"powcost/internal/backend"
	"powcost/internal/exchange"
	"powcost/internal/filemirror"
	"powcost/internal/models"
	"powcost/internal/testutil"
)

func TestSelect(t *testing.T) {
	t.Run("uses the file tree when a directory is available", func(t *testing.T) {
		s := testutil.SetupTestStore(t)
		m := filemirror.New(afero.NewMemMapFs(), filemirror.StaticDirectory("/data"), s)

		b := backend.Select(context.Background(), m, backend.NewKVBackend(s))
		if b.Name() != backend.NameFileSystem {
			t.Errorf("expected file backend, got %s", b.Name())
		}
	})

	t.Run("falls back to the store", func(t *testing.T) {
		s := testutil.SetupTestStore(t)
		m := filemirror.New(afero.NewMemMapFs(), filemirror.StaticDirectory(""), s)

		b := backend.Select(context.Background(), m, backend.NewKVBackend(s))
		if b.Name() != backend.NameKV {
			t.Errorf("expected kv backend, got %s", b.Name())
		}
	})

	t.Run("nil mirror falls back", func(t *testing.T) {
		s := testutil.SetupTestStore(t)
		b := backend.Select(context.Background(), nil, backend.NewKVBackend(s))
		if b.Name() != backend.NameKV {
			t.Errorf("expected kv backend, got %s", b.Name())
		}
	})
}

func TestSelectorStatus(t *testing.T) {
	s := testutil.SetupTestStore(t)
	m := filemirror.New(afero.NewMemMapFs(), filemirror.StaticDirectory("/data"), s)
	sel := backend.NewSelector(m, backend.NewKVBackend(s))

	if st := sel.Status(); st.FileSystemEnabled || st.Backend != backend.NameKV {
		t.Errorf("expected kv before probing, got %+v", st)
	}
	if !sel.Probe(context.Background()) {
		t.Fatal("expected probe to enable the file backend")
	}
	st := sel.Status()
	if !st.FileSystemEnabled || st.Directory != "/data" {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestKVBackend(t *testing.T) {
	t.Run("backups are downloads and the list is empty", func(t *testing.T) {
		s := testutil.SetupTestStore(t)
		testutil.CreateTestItem(t, s)
		b := backend.NewKVBackend(s)

		backup, err := b.CreateBackup()
		testutil.AssertNoError(t, err)
		if !strings.HasPrefix(backup.FileName, "pow-cost-backup-") || len(backup.Data) == 0 {
			t.Errorf("unexpected backup %+v", backup)
		}

		snap, err := exchange.DecodeSnapshot(backup.Data)
		testutil.AssertNoError(t, err)
		if len(snap.Items) != 1 || snap.Settings == nil {
			t.Errorf("snapshot must hold the full state, got %+v", snap)
		}

		labels, err := b.GetBackupList()
		testutil.AssertNoError(t, err)
		if len(labels) != 0 {
			t.Errorf("expected no labels, got %v", labels)
		}
		ok, err := b.RestoreBackup("2024-01-01")
		testutil.AssertNoError(t, err)
		if ok {
			t.Error("restore by label must fail")
		}
	})

	t.Run("restore from uploaded snapshot", func(t *testing.T) {
		s := testutil.SetupTestStore(t)
		b := backend.NewKVBackend(s)
		testutil.CreateTestItem(t, s)
		backup, err := b.CreateBackup()
		testutil.AssertNoError(t, err)

		testutil.AssertNoError(t, s.SaveItems(nil))
		ok, err := b.RestoreFromData(backup.Data)
		testutil.AssertNoError(t, err)
		if !ok || len(s.GetItems()) != 1 {
			t.Errorf("expected catalog to be restored, ok=%v items=%d", ok, len(s.GetItems()))
		}

		ok, err = b.RestoreFromData([]byte("not json"))
		testutil.AssertNoError(t, err)
		if ok {
			t.Error("malformed upload must not restore")
		}
	})

	t.Run("project round trip through export and import", func(t *testing.T) {
		s := testutil.SetupTestStore(t)
		b := backend.NewKVBackend(s)
		p := testutil.CreateTestProject(t, s)
		item := testutil.CreateTestItem(t, s)
		pi := testutil.CreateTestProjectItem(t, s, p.ID, item, 4)

		data, _, err := b.ExportProject(models.ProjectBundle{Project: *p, ProjectItems: []models.ProjectItem{*pi}})
		testutil.AssertNoError(t, err)
		_, err = s.DeleteProject(p.ID)
		testutil.AssertNoError(t, err)

		bundle, err := b.ImportProject(data)
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, b.SaveProject(bundle))

		got := s.GetProjectItemsByProject(p.ID)
		if s.GetProject(p.ID) == nil || len(got) != 1 {
			t.Fatalf("expected project with one item, got %d items", len(got))
		}
		if got[0].ID != pi.ID || got[0].Quantity != 4 || got[0].UnitCost != item.UnitCost {
			t.Errorf("round trip changed the item: %+v", got[0])
		}
	})
}

func TestFileBackendRestoreFromData(t *testing.T) {
	s := testutil.SetupTestStore(t)
	fs := afero.NewMemMapFs()
	m := filemirror.New(fs, filemirror.StaticDirectory("/data"), s)
	b := backend.Select(context.Background(), m, backend.NewKVBackend(s))

	data, err := exchange.EncodeSnapshot(models.Snapshot{
		Projects: []models.Project{{ID: "p1", Title: "Restored"}},
		Items:    []models.Item{{ID: 1, ItemNo: "R-1"}},
	})
	testutil.AssertNoError(t, err)

	ok, err := b.RestoreFromData(data)
	testutil.AssertNoError(t, err)
	if !ok {
		t.Fatal("expected restore to succeed")
	}
	if s.GetProject("p1") == nil {
		t.Error("expected project in the store")
	}
	exists, err := afero.Exists(fs, "/data/Projects/project_p1.json")
	testutil.AssertNoError(t, err)
	if !exists {
		t.Error("expected project file to be written")
	}
}
