package catalog

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/db"
)

// EntityWithCount is an entity row joined with its asset count for listings.
type EntityWithCount struct {
	db.Entity
	ModCount int
}

// ListCategories returns all categories ordered by display name.
func ListCategories(gdb *gorm.DB) ([]db.Category, error) {
	var categories []db.Category
	if err := gdb.Order("name").Find(&categories).Error; err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "listing categories")
	}
	return categories, nil
}

// CategoryBySlug looks up one category.
func CategoryBySlug(gdb *gorm.DB, slug string) (*db.Category, error) {
	var category db.Category
	err := gdb.First(&category, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "category %q not found", slug)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading category %q", slug)
	}
	return &category, nil
}

// EntitiesByCategory returns the category's entities with their asset counts.
func EntitiesByCategory(gdb *gorm.DB, categorySlug string) ([]EntityWithCount, error) {
	category, err := CategoryBySlug(gdb, categorySlug)
	if err != nil {
		return nil, err
	}

	var rows []EntityWithCount
	err = gdb.Model(&db.Entity{}).
		Select("entities.*, COUNT(assets.id) AS mod_count").
		Joins("LEFT JOIN assets ON assets.entity_id = entities.id AND assets.deleted_at IS NULL").
		Where("entities.category_id = ?", category.ID).
		Group("entities.id").
		Order("entities.name").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "listing entities for %q", categorySlug)
	}
	return rows, nil
}

// EntityBySlug looks up one entity.
func EntityBySlug(gdb *gorm.DB, slug string) (*db.Entity, error) {
	var entity db.Entity
	err := gdb.First(&entity, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "entity %q not found", slug)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading entity %q", slug)
	}
	return &entity, nil
}

// AssetByID looks up one asset.
func AssetByID(gdb *gorm.DB, id uint) (*db.Asset, error) {
	var asset db.Asset
	err := gdb.First(&asset, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New(apperr.NotFound, "asset %d not found", id)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading asset %d", id)
	}
	// Stored paths always use forward slashes; normalize legacy rows on read.
	asset.FolderName = strings.ReplaceAll(asset.FolderName, "\\", "/")
	return &asset, nil
}

// TotalAssetCount returns the number of assets in the catalog.
func TotalAssetCount(gdb *gorm.DB) (int64, error) {
	var count int64
	if err := gdb.Model(&db.Asset{}).Count(&count).Error; err != nil {
		return 0, apperr.Wrap(apperr.Catalog, err, "counting assets")
	}
	return count, nil
}

// AssetUpdate carries the editable display fields of an asset. Nil fields
// are left unchanged.
type AssetUpdate struct {
	Name        *string
	Description *string
	Author      *string
	CategoryTag *string
	Image       *string
}

// UpdateAssetInfo edits an asset's display metadata.
func UpdateAssetInfo(gdb *gorm.DB, id uint, update AssetUpdate) error {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return apperr.New(apperr.InvalidInput, "asset name cannot be empty")
	}

	fields := map[string]any{}
	if update.Name != nil {
		fields["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.Author != nil {
		fields["author"] = *update.Author
	}
	if update.CategoryTag != nil {
		fields["category_tag"] = *update.CategoryTag
	}
	if update.Image != nil {
		fields["image_filename"] = *update.Image
	}
	if len(fields) == 0 {
		return nil
	}

	result := gdb.Model(&db.Asset{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return apperr.Wrap(apperr.Catalog, result.Error, "updating asset %d", id)
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.NotFound, "asset %d not found", id)
	}
	return nil
}

// DeleteAssets removes asset rows and their preset memberships in one
// transaction. Used both by explicit deletes and by scan pruning.
func DeleteAssets(gdb *gorm.DB, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	err := gdb.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id IN ?", ids).Delete(&db.PresetAsset{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&db.Asset{}).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Catalog, err, "deleting %d assets", len(ids))
	}
	return nil
}

// InsertAsset inserts a new asset after pre-checking the (entity, folder)
// pair for duplicates. The folder_name column historically carried
// non-unique values, so uniqueness is enforced here rather than by the schema.
func InsertAsset(gdb *gorm.DB, asset *db.Asset) error {
	var existing db.Asset
	err := gdb.First(&existing, "entity_id = ? AND folder_name = ?", asset.EntityID, asset.FolderName).Error
	if err == nil {
		return apperr.New(apperr.Conflict, "asset already exists for %q", asset.FolderName)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.Catalog, err, "checking for existing asset %q", asset.FolderName)
	}
	if err := gdb.Create(asset).Error; err != nil {
		return apperr.Wrap(apperr.Catalog, err, "inserting asset %q", asset.FolderName)
	}
	return nil
}
