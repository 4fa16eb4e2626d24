package db

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed definitions/base_entities.yaml
var baseDefinitions []byte

const (
	OtherEntitySuffix = "-other"
	otherEntityName   = "Other/Unknown"
)

// EntityDefinition is one entity entry in the bundled definitions document.
type EntityDefinition struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Details     string `yaml:"details"`
	BaseImage   string `yaml:"base_image"`
}

// CategoryDefinition maps a category slug to its display name and entities.
type CategoryDefinition struct {
	Name     string             `yaml:"name"`
	Entities []EntityDefinition `yaml:"entities"`
}

// SeedDefinitions merges the bundled definitions into the catalog. The merge
// is additive: rows that already exist (matched by slug) are left untouched,
// and every category is guaranteed an "Other/Unknown" entity.
func SeedDefinitions(gdb *gorm.DB) error {
	var definitions map[string]CategoryDefinition
	if err := yaml.Unmarshal(baseDefinitions, &definitions); err != nil {
		return fmt.Errorf("parsing base_entities.yaml: %w", err)
	}

	// Deterministic insert order keeps first-run ids stable across platforms.
	slugs := make([]string, 0, len(definitions))
	for slug := range definitions {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, categorySlug := range slugs {
			def := definitions[categorySlug]

			var category Category
			err := tx.Where(Category{Slug: categorySlug}).
				Attrs(Category{Name: def.Name}).
				FirstOrCreate(&category).Error
			if err != nil {
				return fmt.Errorf("seeding category %q: %w", categorySlug, err)
			}

			// Guarantee the fallback bucket for this category.
			otherSlug := categorySlug + OtherEntitySuffix
			err = tx.Where(Entity{Slug: otherSlug}).
				Attrs(Entity{
					CategoryID:  category.ID,
					Name:        otherEntityName,
					Description: "Uncategorized assets.",
					Details:     "{}",
				}).
				FirstOrCreate(&Entity{}).Error
			if err != nil {
				return fmt.Errorf("seeding fallback entity for %q: %w", categorySlug, err)
			}

			for _, entityDef := range def.Entities {
				details := entityDef.Details
				if details == "" {
					details = "{}"
				}
				err = tx.Where(Entity{Slug: entityDef.Slug}).
					Attrs(Entity{
						CategoryID:  category.ID,
						Name:        entityDef.Name,
						Description: entityDef.Description,
						Details:     details,
						BaseImage:   entityDef.BaseImage,
					}).
					FirstOrCreate(&Entity{}).Error
				if err != nil {
					return fmt.Errorf("seeding entity %q: %w", entityDef.Slug, err)
				}
			}
		}
		return nil
	})
}
