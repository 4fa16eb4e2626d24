package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
)

// Summary reports the outcome of one reconciliation run.
type Summary struct {
	Processed int // mod roots identified and handled
	Added     int // new catalog rows inserted
	Pruned    int // catalog rows whose folders vanished from disk
	Errors    int // per-folder failures (the run itself still completes)
}

func (s Summary) String() string {
	return fmt.Sprintf("processed %d mod folders, added %d, pruned %d, %d errors",
		s.Processed, s.Added, s.Pruned, s.Errors)
}

// assetKey identifies a catalog row during reconciliation.
type assetKey struct {
	entityID uint
	rel      string
}

// scanInFlight serializes scans; only one reconciliation may run at a time.
var scanInFlight atomic.Bool

// Scan walks the mods base directory, reconciling discovered mod folders
// against the catalog: new folders are classified and inserted, folders seen
// again are marked, and catalog rows whose folders no longer exist in either
// enabled or disabled form are pruned. Per-folder errors are counted and
// logged but never abort the run. Progress events are emitted on the
// optional progress channel before the corresponding catalog write.
func Scan(gdb *gorm.DB, base, fallbackCategory string, progress chan<- Event) (Summary, error) {
	if !scanInFlight.CompareAndSwap(false, true) {
		return Summary{}, apperr.New(apperr.Conflict, "a scan is already in progress")
	}
	defer scanInFlight.Store(false)

	if info, err := os.Stat(base); err != nil || !info.IsDir() {
		err := apperr.New(apperr.Filesystem, "mods directory %q is not a valid directory", base)
		emit(progress, Event{Type: EventScanError, Message: err.Error()})
		return Summary{}, err
	}

	// Maps are rebuilt per run; the catalog may have changed since last time.
	maps, err := catalog.BuildMaps(gdb)
	if err != nil {
		emit(progress, Event{Type: EventScanError, Message: err.Error()})
		return Summary{}, err
	}

	// Snapshot the catalog before walking so pruning can diff against it.
	var snapshot []db.Asset
	if err := gdb.Select("id", "entity_id", "folder_name").Find(&snapshot).Error; err != nil {
		wrapped := apperr.Wrap(apperr.Catalog, err, "snapshotting assets")
		emit(progress, Event{Type: EventScanError, Message: wrapped.Error()})
		return Summary{}, wrapped
	}
	initial := make(map[uint]struct{}, len(snapshot))
	index := make(map[assetKey]uint, len(snapshot))
	for _, a := range snapshot {
		initial[a.ID] = struct{}{}
		index[assetKey{a.EntityID, filepath.ToSlash(a.FolderName)}] = a.ID
	}

	// Throwaway pre-walk purely for the progress denominator; the double
	// walk is accepted cost for a meaningful progress bar.
	total := countModRoots(base)
	emit(progress, Event{Type: EventScanProgress, Processed: 0, Total: total, Message: "Starting scan..."})

	var summary Summary
	found := make(map[uint]struct{})
	processed := make(map[string]struct{})

	walkErr := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Log.Warnw("Error accessing path during scan", zap.String("path", p), zap.Error(err))
			summary.Errors++
			return nil
		}
		if p == base || !d.IsDir() {
			return nil
		}
		if !HasDescriptor(p) {
			return nil // descend: nested mod folders may be below
		}
		if _, dup := processed[p]; dup {
			return filepath.SkipDir
		}
		processed[p] = struct{}{}
		summary.Processed++

		emit(progress, Event{
			Type:        EventScanProgress,
			Processed:   summary.Processed,
			Total:       total,
			CurrentPath: p,
			Message:     "Processing: " + d.Name(),
		})

		if err := reconcileModRoot(gdb, base, p, maps, fallbackCategory, index, found, &summary); err != nil {
			logger.Log.Warnw("Failed to reconcile mod folder", zap.String("path", p), zap.Error(err))
			summary.Errors++
		}

		// A mod folder's internal structure is opaque payload, not more mods.
		return filepath.SkipDir
	})
	if walkErr != nil {
		// WalkDir only returns an error we propagated; everything above
		// swallows them, so this is unreachable in practice.
		logger.Log.Errorw("Scan walk aborted", zap.Error(walkErr))
		summary.Errors++
	}

	// Prune: everything that was in the catalog but never seen on disk.
	orphans := make([]uint, 0)
	for id := range initial {
		if _, ok := found[id]; !ok {
			orphans = append(orphans, id)
		}
	}
	emit(progress, Event{Type: EventPruneStart, Total: len(orphans), Message: fmt.Sprintf("Pruning %d vanished mods...", len(orphans))})
	if len(orphans) > 0 {
		if err := catalog.DeleteAssets(gdb, orphans); err != nil {
			logger.Log.Errorw("Failed to prune vanished assets", zap.Int("count", len(orphans)), zap.Error(err))
			summary.Errors++
			emit(progress, Event{Type: EventPruneError, Message: err.Error()})
		} else {
			summary.Pruned = len(orphans)
		}
	}
	// Pruning is one bulk delete, so a single progress event covers the
	// whole batch.
	emit(progress, Event{Type: EventPruneProgress, Processed: summary.Pruned, Total: len(orphans)})
	emit(progress, Event{Type: EventPruneComplete, Processed: summary.Pruned, Total: len(orphans), Message: fmt.Sprintf("Pruned %d vanished mods", summary.Pruned)})

	logger.Log.Infow("Scan complete",
		zap.Int("processed", summary.Processed),
		zap.Int("added", summary.Added),
		zap.Int("pruned", summary.Pruned),
		zap.Int("errors", summary.Errors),
	)
	emit(progress, Event{Type: EventScanComplete, Processed: summary.Processed, Total: total, Message: "Scan complete. " + summary.String()})
	return summary, nil
}

// reconcileModRoot classifies one identified mod root and upserts its
// catalog row. Existing rows are only marked as seen — a scan is additive,
// not a metadata resync.
func reconcileModRoot(gdb *gorm.DB, base, dir string, maps *catalog.Maps, fallbackCategory string,
	index map[assetKey]uint, found map[uint]struct{}, summary *Summary) error {

	deduced, ok := DeduceModInfo(dir, base, maps, fallbackCategory)
	if !ok {
		return apperr.New(apperr.InvalidInput, "folder %q has no usable name", dir)
	}
	entityID, ok := maps.EntityIDBySlug[deduced.EntitySlug]
	if !ok {
		return apperr.New(apperr.NotFound, "deduced entity %q does not exist in the catalog", deduced.EntitySlug)
	}

	rel, err := CanonicalRel(base, dir)
	if err != nil {
		return err
	}

	if id, ok := index[assetKey{entityID, rel}]; ok {
		found[id] = struct{}{}
		return nil
	}

	asset := &db.Asset{
		EntityID:      entityID,
		Name:          deduced.ModName,
		Description:   deduced.Description,
		FolderName:    rel,
		ImageFilename: deduced.ImageFilename,
		Author:        deduced.Author,
		CategoryTag:   deduced.TypeTag,
	}
	if err := catalog.InsertAsset(gdb, asset); err != nil {
		return err
	}
	index[assetKey{entityID, rel}] = asset.ID
	found[asset.ID] = struct{}{}
	summary.Added++
	logger.Log.Infow("Added new mod", zap.String("path", rel), zap.String("entity", deduced.EntitySlug))
	return nil
}

// countModRoots walks the whole tree counting directories that carry a
// descriptor file.
func countModRoots(base string) int {
	count := 0
	_ = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if p != base && d.IsDir() && HasDescriptor(p) {
			count++
			return filepath.SkipDir
		}
		return nil
	})
	return count
}
