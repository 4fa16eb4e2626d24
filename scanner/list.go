package scanner

import (
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
)

// AssetState is a catalog row joined with its derived on-disk state.
type AssetState struct {
	db.Asset
	IsEnabled    bool
	FolderOnDisk string // relative path as currently named on disk
}

// ListAssets returns the entity's assets with their enabled state derived
// from disk. Orphaned rows are dropped from the result — a scan will prune
// them.
func ListAssets(gdb *gorm.DB, base, entitySlug string) ([]AssetState, error) {
	entity, err := catalog.EntityBySlug(gdb, entitySlug)
	if err != nil {
		return nil, err
	}

	var assets []db.Asset
	if err := gdb.Order("name").Find(&assets, "entity_id = ?", entity.ID).Error; err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "listing assets for %q", entitySlug)
	}

	states := make([]AssetState, 0, len(assets))
	for _, asset := range assets {
		asset.FolderName = filepath.ToSlash(asset.FolderName)
		res := Resolve(base, asset.FolderName)
		if res.State == Orphaned {
			logger.Log.Warnw("Asset folder missing on disk, omitting from listing",
				zap.Uint("asset_id", asset.ID),
				zap.String("folder", asset.FolderName),
			)
			continue
		}
		states = append(states, AssetState{
			Asset:        asset,
			IsEnabled:    res.State == Enabled,
			FolderOnDisk: res.RelOnDisk,
		})
	}
	return states, nil
}

// StateCounts tallies the on-disk state of every asset for the dashboard.
func StateCounts(gdb *gorm.DB, base string) (enabled, disabled, orphaned int, err error) {
	var assets []db.Asset
	if err := gdb.Select("id", "folder_name").Find(&assets).Error; err != nil {
		return 0, 0, 0, apperr.Wrap(apperr.Catalog, err, "listing assets")
	}
	for _, asset := range assets {
		switch Resolve(base, asset.FolderName).State {
		case Enabled:
			enabled++
		case Disabled:
			disabled++
		default:
			orphaned++
		}
	}
	return enabled, disabled, orphaned, nil
}
