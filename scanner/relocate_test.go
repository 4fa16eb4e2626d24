package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"modshelf/apperr"
)

func TestRelocate(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()

	makeMod(t, base, "Downloads/SharpMod", "")
	if _, err := Scan(gdb, base, "misc", nil); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	byFolder := assetsByFolder(t, gdb)
	asset, ok := byFolder["Downloads/SharpMod"]
	if !ok {
		t.Fatalf("fixture asset missing: %v", byFolder)
	}

	t.Run("disabled state survives the move", func(t *testing.T) {
		if _, err := Toggle(base, asset.FolderName); err != nil {
			t.Fatalf("disabling fixture: %v", err)
		}

		newRel, err := Relocate(gdb, base, asset.ID, "duskfang")
		if err != nil {
			t.Fatalf("Relocate: %v", err)
		}
		if newRel != "weapons/duskfang/SharpMod" {
			t.Errorf("new path = %q, want weapons/duskfang/SharpMod", newRel)
		}

		res := Resolve(base, newRel)
		if res.State != Disabled {
			t.Errorf("state after relocation = %v, want disabled", res.State)
		}

		moved := assetsByFolder(t, gdb)
		stored, ok := moved[newRel]
		if !ok {
			t.Fatalf("catalog row not updated: %v", moved)
		}
		if stored.EntityID == asset.EntityID {
			t.Error("entity id unchanged after relocation")
		}
	})

	t.Run("missing folder is rejected with both candidate paths", func(t *testing.T) {
		makeMod(t, base, "Downloads/Ghost", "")
		if _, err := Scan(gdb, base, "misc", nil); err != nil {
			t.Fatal(err)
		}
		ghost := assetsByFolder(t, gdb)["Downloads/Ghost"]

		if err := os.RemoveAll(filepath.Join(base, "Downloads", "Ghost")); err != nil {
			t.Fatal(err)
		}
		_, err := Relocate(gdb, base, ghost.ID, "duskfang")
		if err == nil {
			t.Fatal("expected error relocating a vanished folder")
		}
		if !apperr.Is(err, apperr.OrphanedAsset) {
			t.Errorf("error kind = %v, want orphaned asset", apperr.KindOf(err))
		}
	})

	t.Run("unknown target entity", func(t *testing.T) {
		_, err := Relocate(gdb, base, asset.ID, "nobody")
		if !apperr.Is(err, apperr.NotFound) {
			t.Errorf("error kind = %v, want not found", apperr.KindOf(err))
		}
	})
}
