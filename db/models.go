package db

import (
	"gorm.io/gorm"
)

// Category is a top-level classification bucket (characters, weapons, ...).
// Seeded once from the bundled definitions file and only ever added to.
type Category struct {
	gorm.Model
	Name string `gorm:"uniqueIndex;not null"` // Display label
	Slug string `gorm:"uniqueIndex;not null"` // Stable URL-safe identifier
}

// Entity belongs to exactly one Category. Every category owns a synthetic
// "Other/Unknown" entity (slug "<category>-other") used as the fallback
// bucket for mods that cannot be classified more precisely.
type Entity struct {
	gorm.Model
	CategoryID  uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	Details     string // opaque structured blob, stored as-is
	BaseImage   string
}

// Asset is one mod folder known to the catalog. FolderName is the canonical
// relative path below the mods base directory, always in enabled form with
// forward slashes — whether the folder is currently disabled on disk is a
// derived fact, never stored.
type Asset struct {
	gorm.Model
	EntityID      uint   `gorm:"not null;index"`
	Name          string `gorm:"not null"`
	Description   string
	FolderName    string `gorm:"not null;index"` // canonical relative path, no DISABLED_ prefix
	ImageFilename string
	Author        string
	CategoryTag   string
}

// Setting is a simple key-value row (mods folder path, quick launch path).
type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

// Preset is a named on/off snapshot over a set of assets.
type Preset struct {
	gorm.Model
	Name       string `gorm:"not null;index"` // uniqueness enforced case-insensitively at create time
	IsFavorite bool
}

// PresetAsset records the desired enabled state of one asset in a preset.
type PresetAsset struct {
	PresetID  uint `gorm:"primaryKey"`
	AssetID   uint `gorm:"primaryKey"`
	IsEnabled bool
}

// Settings keys used by the application.
const (
	SettingModsFolder  = "mods_folder_path"
	SettingQuickLaunch = "quick_launch_path"
)
