package db

import (
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(gormlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return gdb
}

func TestSeedDefinitions(t *testing.T) {
	gdb := openTestDB(t)

	if err := SeedDefinitions(gdb); err != nil {
		t.Fatalf("SeedDefinitions() error: %v", err)
	}

	t.Run("every category has an other entity", func(t *testing.T) {
		var categories []Category
		if err := gdb.Find(&categories).Error; err != nil {
			t.Fatalf("listing categories: %v", err)
		}
		if len(categories) == 0 {
			t.Fatal("expected seeded categories, got none")
		}
		for _, cat := range categories {
			var other Entity
			err := gdb.First(&other, "slug = ?", cat.Slug+OtherEntitySuffix).Error
			if err != nil {
				t.Errorf("category %q has no fallback entity: %v", cat.Slug, err)
			}
			if other.CategoryID != cat.ID {
				t.Errorf("fallback entity for %q belongs to category %d, want %d", cat.Slug, other.CategoryID, cat.ID)
			}
		}
	})

	t.Run("merge is additive", func(t *testing.T) {
		// Rename a seeded entity, reseed, and check the edit survives.
		if err := gdb.Model(&Entity{}).Where("slug = ?", "zephyr").Update("name", "Renamed").Error; err != nil {
			t.Fatalf("updating entity: %v", err)
		}
		var before, after int64
		gdb.Model(&Entity{}).Count(&before)

		if err := SeedDefinitions(gdb); err != nil {
			t.Fatalf("second SeedDefinitions() error: %v", err)
		}

		gdb.Model(&Entity{}).Count(&after)
		if before != after {
			t.Errorf("reseed changed entity count from %d to %d", before, after)
		}
		var e Entity
		if err := gdb.First(&e, "slug = ?", "zephyr").Error; err != nil {
			t.Fatalf("reading entity: %v", err)
		}
		if e.Name != "Renamed" {
			t.Errorf("reseed overwrote existing row, name = %q", e.Name)
		}
	})
}

func TestSettings(t *testing.T) {
	gdb := openTestDB(t)

	t.Run("mods base path unset", func(t *testing.T) {
		if _, err := ModsBasePath(gdb); err == nil {
			t.Error("expected error when mods folder setting is absent")
		}
	})

	t.Run("set get roundtrip", func(t *testing.T) {
		if err := SetSetting(gdb, SettingModsFolder, "/mods"); err != nil {
			t.Fatalf("SetSetting: %v", err)
		}
		if err := SetSetting(gdb, SettingModsFolder, "/mods/live"); err != nil {
			t.Fatalf("SetSetting overwrite: %v", err)
		}
		value, ok, err := GetSetting(gdb, SettingModsFolder)
		if err != nil || !ok {
			t.Fatalf("GetSetting: ok=%v err=%v", ok, err)
		}
		if value != "/mods/live" {
			t.Errorf("GetSetting = %q, want /mods/live", value)
		}
	})
}
