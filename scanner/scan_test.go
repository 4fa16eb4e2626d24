package scanner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScan(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()

	makeMod(t, base, "characters/zephyr/WindBlades", "")
	makeMod(t, base, "weapons/DISABLED_RustEdge", "")
	// A mod's subtree is opaque: this nested descriptor must not become a row.
	makeMod(t, base, "characters/zephyr/WindBlades/parts", "")
	// Plain grouping folders without a descriptor are descended into.
	makeMod(t, base, "Downloads/unsorted/Mystery", "")

	summary, err := Scan(gdb, base, "misc", nil)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if summary.Added != 3 {
		t.Errorf("Added = %d, want 3", summary.Added)
	}
	if summary.Errors != 0 {
		t.Errorf("Errors = %d, want 0", summary.Errors)
	}

	byFolder := assetsByFolder(t, gdb)
	if len(byFolder) != 3 {
		t.Fatalf("asset count = %d, want 3 (%v)", len(byFolder), byFolder)
	}

	t.Run("canonical path never carries the disabled prefix", func(t *testing.T) {
		for folder := range byFolder {
			if strings.Contains(folder, DisabledPrefix) {
				t.Errorf("stored folder %q carries the disabled marker", folder)
			}
		}
		if _, ok := byFolder["weapons/RustEdge"]; !ok {
			t.Error("disabled mod not stored under its canonical enabled-form path")
		}
	})

	t.Run("nested descriptor inside a mod root is not a separate row", func(t *testing.T) {
		if _, ok := byFolder["characters/zephyr/WindBlades/parts"]; ok {
			t.Error("scanner descended into a mod root")
		}
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		summary, err := Scan(gdb, base, "misc", nil)
		if err != nil {
			t.Fatalf("second Scan: %v", err)
		}
		if summary.Added != 0 || summary.Pruned != 0 {
			t.Errorf("second run added %d, pruned %d; want 0, 0", summary.Added, summary.Pruned)
		}
	})

	t.Run("vanished folders are pruned, others untouched", func(t *testing.T) {
		if err := os.RemoveAll(filepath.Join(base, "Downloads")); err != nil {
			t.Fatal(err)
		}
		summary, err := Scan(gdb, base, "misc", nil)
		if err != nil {
			t.Fatalf("Scan after delete: %v", err)
		}
		if summary.Pruned != 1 {
			t.Errorf("Pruned = %d, want 1", summary.Pruned)
		}
		byFolder := assetsByFolder(t, gdb)
		if len(byFolder) != 2 {
			t.Errorf("asset count after prune = %d, want 2", len(byFolder))
		}
		if _, ok := byFolder["weapons/RustEdge"]; !ok {
			t.Error("unrelated asset was pruned")
		}
	})

	t.Run("disabled folder survives rescans", func(t *testing.T) {
		// The disabled mod is matched through its canonical path, so a
		// rescan neither duplicates nor prunes it.
		summary, err := Scan(gdb, base, "misc", nil)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if summary.Added != 0 || summary.Pruned != 0 {
			t.Errorf("rescan of disabled mod: added %d, pruned %d", summary.Added, summary.Pruned)
		}
	})
}

func TestScanProgressEvents(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()
	makeMod(t, base, "characters/zephyr/One", "")
	makeMod(t, base, "characters/zephyr/Two", "")

	events := make(chan Event, 64)
	if _, err := Scan(gdb, base, "misc", events); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	close(events)

	var lastProcessed int
	var sawComplete, sawPruneStart bool
	pruneAfterProgress := true
	for ev := range events {
		switch ev.Type {
		case EventScanProgress:
			if sawPruneStart {
				pruneAfterProgress = false
			}
			if ev.Processed < lastProcessed {
				t.Errorf("processed count went backwards: %d after %d", ev.Processed, lastProcessed)
			}
			lastProcessed = ev.Processed
			if ev.Total != 2 {
				t.Errorf("Total = %d, want 2", ev.Total)
			}
		case EventPruneStart:
			sawPruneStart = true
		case EventScanComplete:
			sawComplete = true
		}
	}
	if lastProcessed != 2 {
		t.Errorf("final processed = %d, want 2", lastProcessed)
	}
	if !sawComplete || !sawPruneStart {
		t.Errorf("missing lifecycle events: complete=%v pruneStart=%v", sawComplete, sawPruneStart)
	}
	if !pruneAfterProgress {
		t.Error("prune phase interleaved with per-folder progress")
	}
}

func TestScanPruneEvents(t *testing.T) {
	gdb := openTestDB(t)
	base := t.TempDir()
	makeMod(t, base, "characters/zephyr/Doomed", "")
	if _, err := Scan(gdb, base, "misc", nil); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if err := os.RemoveAll(filepath.Join(base, "characters/zephyr/Doomed")); err != nil {
		t.Fatal(err)
	}

	events := make(chan Event, 64)
	if _, err := Scan(gdb, base, "misc", events); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	close(events)

	var order []EventType
	var pruneProgress Event
	for ev := range events {
		switch ev.Type {
		case EventPruneStart, EventPruneProgress, EventPruneComplete:
			order = append(order, ev.Type)
			if ev.Type == EventPruneProgress {
				pruneProgress = ev
			}
		}
	}
	want := []EventType{EventPruneStart, EventPruneProgress, EventPruneComplete}
	if len(order) != len(want) {
		t.Fatalf("prune events = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("prune events = %v, want %v", order, want)
		}
	}
	if pruneProgress.Processed != 1 || pruneProgress.Total != 1 {
		t.Errorf("prune progress = %d/%d, want 1/1", pruneProgress.Processed, pruneProgress.Total)
	}
}

func TestScanMissingBase(t *testing.T) {
	gdb := openTestDB(t)
	if _, err := Scan(gdb, filepath.Join(t.TempDir(), "nope"), "misc", nil); err == nil {
		t.Fatal("expected error for missing base directory")
	}
}
