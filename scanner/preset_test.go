package scanner

import (
	"os"
	"testing"

	"modshelf/apperr"
	"modshelf/catalog"
)

func TestPresetRoundTrip(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()

	makeMod(t, base, "characters/zephyr/WindBlades", "")
	makeMod(t, base, "weapons/duskfang/RustEdge", "")
	if _, err := Scan(gdb, base, "misc", nil); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	// Snapshot state: WindBlades enabled, RustEdge disabled.
	if _, err := Toggle(base, "weapons/duskfang/RustEdge"); err != nil {
		t.Fatalf("disabling fixture: %v", err)
	}
	preset, err := CreatePreset(gdb, base, "pvp loadout", nil)
	if err != nil {
		t.Fatalf("CreatePreset: %v", err)
	}

	// Flip both on disk, then apply the preset to restore the snapshot.
	if _, err := Toggle(base, "characters/zephyr/WindBlades"); err != nil {
		t.Fatal(err)
	}
	if _, err := Toggle(base, "weapons/duskfang/RustEdge"); err != nil {
		t.Fatal(err)
	}

	summary, err := ApplyPreset(gdb, base, preset, nil)
	if err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if len(summary.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", summary.Errors)
	}
	if summary.Processed != 2 || summary.Toggled != 2 {
		t.Errorf("summary = %+v, want 2 processed, 2 toggled", summary)
	}

	if got := Resolve(base, "characters/zephyr/WindBlades").State; got != Enabled {
		t.Errorf("WindBlades state = %v, want enabled", got)
	}
	if got := Resolve(base, "weapons/duskfang/RustEdge").State; got != Disabled {
		t.Errorf("RustEdge state = %v, want disabled", got)
	}

	t.Run("second apply is a no-op", func(t *testing.T) {
		summary, err := ApplyPreset(gdb, base, preset, nil)
		if err != nil {
			t.Fatal(err)
		}
		if summary.Toggled != 0 || len(summary.Errors) != 0 {
			t.Errorf("summary = %+v, want no toggles and no errors", summary)
		}
	})
}

func TestCreatePresetValidation(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()

	if _, err := CreatePreset(gdb, base, "   ", nil); !apperr.Is(err, apperr.InvalidInput) {
		t.Errorf("blank name: kind = %v, want invalid input", apperr.KindOf(err))
	}

	if _, err := CreatePreset(gdb, base, "Main", nil); err != nil {
		t.Fatal(err)
	}
	if _, err := CreatePreset(gdb, base, "main", nil); !apperr.Is(err, apperr.Conflict) {
		t.Errorf("case-insensitive duplicate: kind = %v, want conflict", apperr.KindOf(err))
	}
}

func TestDeletePresetFreesName(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()

	first, err := CreatePreset(gdb, base, "loadout", nil)
	if err != nil {
		t.Fatalf("CreatePreset: %v", err)
	}
	if err := catalog.DeletePreset(gdb, first.ID); err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}

	second, err := CreatePreset(gdb, base, "loadout", nil)
	if err != nil {
		t.Fatalf("recreating preset after delete: %v", err)
	}
	if second.ID == first.ID {
		t.Error("recreated preset reused the deleted row")
	}
	if err := catalog.DeletePreset(gdb, second.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := CreatePreset(gdb, base, "Loadout", nil); err != nil {
		t.Errorf("case variant of a deleted name: %v", err)
	}
}

func TestCreatePresetSkipsOrphans(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()

	makeMod(t, base, "characters/zephyr/Kept", "")
	makeMod(t, base, "characters/zephyr/Vanishing", "")
	if _, err := Scan(gdb, base, "misc", nil); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(Resolve(base, "characters/zephyr/Vanishing").EnabledPath); err != nil {
		t.Fatal(err)
	}

	preset, err := CreatePreset(gdb, base, "survivors", nil)
	if err != nil {
		t.Fatalf("CreatePreset: %v", err)
	}
	var count int64
	if err := gdb.Table("preset_assets").Where("preset_id = ?", preset.ID).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("snapshot has %d members, want 1 (orphan skipped)", count)
	}
}

func TestApplyPresetAggregatesErrors(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()

	makeMod(t, base, "characters/zephyr/Stays", "")
	makeMod(t, base, "characters/zephyr/Leaves", "")
	if _, err := Scan(gdb, base, "misc", nil); err != nil {
		t.Fatal(err)
	}
	preset, err := CreatePreset(gdb, base, "fragile", nil)
	if err != nil {
		t.Fatal(err)
	}

	// Flip both, then orphan one: the apply must restore the survivor and
	// report the missing one without aborting.
	if _, err := Toggle(base, "characters/zephyr/Stays"); err != nil {
		t.Fatal(err)
	}
	if _, err := Toggle(base, "characters/zephyr/Leaves"); err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(Resolve(base, "characters/zephyr/Leaves").ActualPath); err != nil {
		t.Fatal(err)
	}

	summary, err := ApplyPreset(gdb, base, preset, nil)
	if err != nil {
		t.Fatalf("ApplyPreset: %v", err)
	}
	if summary.Processed != 2 {
		t.Errorf("processed = %d, want 2", summary.Processed)
	}
	if len(summary.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", summary.Errors)
	}
	if got := Resolve(base, "characters/zephyr/Stays").State; got != Enabled {
		t.Errorf("survivor state = %v, want enabled after restore", got)
	}
}
