package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNew(t *testing.T) {
	t.Run("generates valid unique ids", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := New()
			if _, err := googleuuid.Parse(id); err != nil {
				t.Fatalf("invalid uuid %q", id)
			}
			if seen[id] {
				t.Fatalf("duplicate uuid %q", id)
			}
			seen[id] = true
		}
	})

	t.Run("uses version 7", func(t *testing.T) {
		id := New()
		if id[14] != '7' {
			t.Errorf("expected version 7, got %q", id)
		}
	})
}
