// Package catalog provides read/write access to the relational catalog:
// classification lookup maps for the scanner, listings, and preset queries.
package catalog

import (
	"strings"

	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/db"
)

// Maps are the point-in-time lookup tables the deducer matches against.
// They must be rebuilt per scan invocation — the catalog can change between
// runs and nothing invalidates these between calls.
type Maps struct {
	CategoryIDBySlug map[string]uint
	EntityIDBySlug   map[string]uint
	// Lowercased display name -> slug, for case-insensitive name matching.
	CategorySlugByName map[string]string
	EntitySlugByName   map[string]string
}

// BuildMaps reads all categories and entities and builds the lookup tables.
func BuildMaps(gdb *gorm.DB) (*Maps, error) {
	maps := &Maps{
		CategoryIDBySlug:   make(map[string]uint),
		EntityIDBySlug:     make(map[string]uint),
		CategorySlugByName: make(map[string]string),
		EntitySlugByName:   make(map[string]string),
	}

	var categories []db.Category
	if err := gdb.Find(&categories).Error; err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading categories")
	}
	for _, c := range categories {
		maps.CategoryIDBySlug[c.Slug] = c.ID
		maps.CategorySlugByName[strings.ToLower(c.Name)] = c.Slug
	}

	var entities []db.Entity
	if err := gdb.Find(&entities).Error; err != nil {
		return nil, apperr.Wrap(apperr.Catalog, err, "reading entities")
	}
	for _, e := range entities {
		maps.EntityIDBySlug[e.Slug] = e.ID
		maps.EntitySlugByName[strings.ToLower(e.Name)] = e.Slug
	}

	return maps, nil
}
