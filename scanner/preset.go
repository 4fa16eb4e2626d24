package scanner

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
)

// ApplySummary reports a preset application: every member was attempted,
// failures are aggregated rather than aborting the batch.
type ApplySummary struct {
	Processed int
	Toggled   int
	Errors    []string
}

func (s ApplySummary) String() string {
	return fmt.Sprintf("applied to %d mods, toggled %d, %d errors",
		s.Processed, s.Toggled, len(s.Errors))
}

// CreatePreset captures the current on-disk enabled state of the given
// assets (all assets when ids is empty) under a unique, case-insensitive
// name. Orphaned assets are skipped.
func CreatePreset(gdb *gorm.DB, base, name string, assetIDs []uint) (*db.Preset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.InvalidInput, "preset name cannot be empty")
	}
	if _, err := catalog.PresetByName(gdb, name); err == nil {
		return nil, apperr.New(apperr.Conflict, "a preset named %q already exists", name)
	} else if !apperr.Is(err, apperr.NotFound) {
		return nil, err
	}

	var assets []db.Asset
	query := gdb.Select("id", "name", "folder_name")
	if len(assetIDs) > 0 {
		query = query.Where("id IN ?", assetIDs)
	}
	if err := query.Find(&assets).Error; err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading assets for preset %q", name)
	}

	preset := &db.Preset{Name: name}
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(preset).Error; err != nil {
			return err
		}
		for _, asset := range assets {
			res := Resolve(base, asset.FolderName)
			if res.State == Orphaned {
				logger.Log.Warnw("Skipping orphaned asset in preset snapshot",
					zap.Uint("asset_id", asset.ID),
					zap.String("folder", asset.FolderName),
				)
				continue
			}
			member := db.PresetAsset{
				PresetID:  preset.ID,
				AssetID:   asset.ID,
				IsEnabled: res.State == Enabled,
			}
			if err := tx.Create(&member).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "creating preset %q", name)
	}
	return preset, nil
}

// ApplyPreset restores the desired enabled state of every preset member,
// renaming only folders whose current state differs. Per-asset errors are
// collected and reported in aggregate; they never stop the remaining assets.
func ApplyPreset(gdb *gorm.DB, base string, preset *db.Preset, progress chan<- Event) (ApplySummary, error) {
	members, err := catalog.PresetMembers(gdb, preset.ID)
	if err != nil {
		emit(progress, Event{Type: EventApplyError, Message: err.Error()})
		return ApplySummary{}, err
	}

	var summary ApplySummary
	emit(progress, Event{Type: EventApplyStart, Total: len(members), Message: "Applying preset " + preset.Name})

	for _, member := range members {
		summary.Processed++
		emit(progress, Event{
			Type:      EventApplyProgress,
			Processed: summary.Processed,
			Total:     len(members),
			CurrentID: member.AssetID,
		})

		asset, err := catalog.AssetByID(gdb, member.AssetID)
		if err != nil {
			summary.Errors = append(summary.Errors, err.Error())
			continue
		}
		res := Resolve(base, asset.FolderName)
		if res.State == Orphaned {
			summary.Errors = append(summary.Errors, fmt.Sprintf(
				"%s: folder not found on disk (checked %q and %q)",
				asset.Name, res.EnabledPath, res.DisabledPath))
			continue
		}
		current := res.State == Enabled
		if current == member.IsEnabled {
			continue
		}
		if _, err := Toggle(base, asset.FolderName); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", asset.Name, err))
			continue
		}
		summary.Toggled++
	}

	logger.Log.Infow("Preset applied",
		zap.String("preset", preset.Name),
		zap.Int("processed", summary.Processed),
		zap.Int("toggled", summary.Toggled),
		zap.Int("errors", len(summary.Errors)),
	)
	emit(progress, Event{Type: EventApplyComplete, Processed: summary.Processed, Total: len(members), Message: summary.String()})
	return summary, nil
}
