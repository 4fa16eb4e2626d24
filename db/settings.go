package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"modshelf/apperr"
)

// GetSetting returns the value for key, or ("", false, nil) if unset.
func GetSetting(gdb *gorm.DB, key string) (string, bool, error) {
	var setting Setting
	err := gdb.First(&setting, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperr.Wrap(apperr.Catalog, err, "reading setting %q", key)
	}
	return setting.Value, true, nil
}

// SetSetting inserts or replaces a setting row.
func SetSetting(gdb *gorm.DB, key, value string) error {
	err := gdb.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Setting{Key: key, Value: value}).Error
	if err != nil {
		return apperr.Wrap(apperr.Catalog, err, "writing setting %q", key)
	}
	return nil
}

// ModsBasePath returns the configured mods directory and fails fast when the
// setting is absent, since every path computation depends on it.
func ModsBasePath(gdb *gorm.DB) (string, error) {
	value, ok, err := GetSetting(gdb, SettingModsFolder)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return "", apperr.New(apperr.Config, "mods folder path is not set (run: modshelf settings set %s <path>)", SettingModsFolder)
	}
	return value, nil
}
