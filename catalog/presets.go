package catalog

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/db"
)

// ListPresets returns all presets, favorites first.
func ListPresets(gdb *gorm.DB) ([]db.Preset, error) {
	var presets []db.Preset
	if err := gdb.Order("is_favorite DESC, name").Find(&presets).Error; err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "listing presets")
	}
	return presets, nil
}

// PresetByName looks up a preset case-insensitively.
func PresetByName(gdb *gorm.DB, name string) (*db.Preset, error) {
	var preset db.Preset
	err := gdb.First(&preset, "LOWER(name) = ?", strings.ToLower(name)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "preset %q not found", name)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading preset %q", name)
	}
	return &preset, nil
}

// PresetMembers returns the (asset, desired state) pairs of a preset.
func PresetMembers(gdb *gorm.DB, presetID uint) ([]db.PresetAsset, error) {
	var members []db.PresetAsset
	if err := gdb.Find(&members, "preset_id = ?", presetID).Error; err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading preset %d members", presetID)
	}
	return members, nil
}

// SetPresetFavorite flips the favorite flag.
func SetPresetFavorite(gdb *gorm.DB, presetID uint, favorite bool) error {
	result := gdb.Model(&db.Preset{}).Where("id = ?", presetID).Update("is_favorite", favorite)
	if result.Error != nil {
		return apperr.Wrap(apperr.Catalog, result.Error, "updating preset %d", presetID)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "preset %d not found", presetID)
	}
	return nil
}

// DeletePreset removes a preset and its memberships.
func DeletePreset(gdb *gorm.DB, presetID uint) error {
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("preset_id = ?", presetID).Delete(&db.PresetAsset{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Preset{}, presetID).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Catalog, err, "deleting preset %d", presetID)
	}
	return nil
}
