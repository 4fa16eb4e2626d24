package scanner

import (
	"errors"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
)

// Relocate moves an asset's backing folder under a new entity's directory
// tree (<category slug>/<entity slug>/<leaf>), preserving its enabled or
// disabled naming, then updates the catalog row. The filesystem rename runs
// first; if the catalog update then fails, the folder stays at the new
// location and the catalog keeps pointing at the old one until the next scan
// reconciles it.
func Relocate(gdb *gorm.DB, base string, assetID uint, targetEntitySlug string) (string, error) {
	asset, err := catalog.AssetByID(gdb, assetID)
	if err != nil {
		return "", err
	}
	entity, err := catalog.EntityBySlug(gdb, targetEntitySlug)
	if err != nil {
		return "", err
	}
	var category db.Category
	if err := gdb.First(&category, entity.CategoryID).Error; err != nil {
		return "", apperr.Wrap(apperr.Catalog, err, "reading category of entity %q", targetEntitySlug)
	}

	leaf := path.Base(asset.FolderName)
	newRel := path.Join(category.Slug, entity.Slug, leaf)
	if newRel == asset.FolderName && entity.ID == asset.EntityID {
		return newRel, nil
	}

	// Reject a destination that is already taken, in the catalog or on disk.
	var existing db.Asset
	err = gdb.First(&existing, "entity_id = ? AND folder_name = ?", entity.ID, newRel).Error
	if err == nil {
		return "", apperr.New(apperr.Conflict, "an asset already exists at %q", newRel)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Wrap(apperr.Catalog, err, "checking destination %q", newRel)
	}

	current := Resolve(base, asset.FolderName)
	if current.State == Orphaned {
		return "", apperr.New(apperr.OrphanedAsset,
			"cannot relocate %q: folder not found on disk (checked %q and %q)",
			asset.Name, current.EnabledPath, current.DisabledPath)
	}
	dest := Resolve(base, newRel)
	if dest.State != Orphaned {
		return "", apperr.New(apperr.Conflict, "a folder already exists at %q", dest.ActualPath)
	}

	// Keep the disabled marker across the move.
	targetPath := dest.EnabledPath
	if current.State == Disabled {
		targetPath = dest.DisabledPath
	}
	if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
		return "", apperr.Wrap(apperr.Filesystem, err, "creating destination directory for %q", newRel)
	}
	if err := os.Rename(current.ActualPath, targetPath); err != nil {
		return "", apperr.Wrap(apperr.Filesystem, err, "moving %q to %q", current.ActualPath, targetPath)
	}

	err = gdb.Model(&db.Asset{}).Where("id = ?", assetID).
		Updates(map[string]any{"entity_id": entity.ID, "folder_name": newRel}).Error
	if err != nil {
		logger.Log.Errorw("Folder moved but catalog update failed; rescan to reconcile",
			zap.Uint("asset_id", assetID),
			zap.String("moved_to", targetPath),
			zap.Error(err),
		)
		return "", apperr.Wrap(apperr.Catalog, err,
			"folder moved to %q but the catalog update failed; run a scan to reconcile", targetPath)
	}

	logger.Log.Infow("Relocated mod",
		zap.Uint("asset_id", assetID),
		zap.String("from", asset.FolderName),
		zap.String("to", newRel),
		zap.String("state", current.State.String()),
	)
	return newRel, nil
}
