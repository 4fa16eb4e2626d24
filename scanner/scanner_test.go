package scanner

import (
	"os"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"modshelf/catalog"
	"modshelf/db"
)

// openTestDB opens a throwaway catalog with the classification fixture used
// across the scanner tests:
//
//	characters ("Playable Characters"): zephyr, characters-other
//	weapons ("Weapons"): duskfang, weapons-other
//	misc ("Miscellaneous"): misc-other
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(gormlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	categories := []db.Category{
		{Name: "Playable Characters", Slug: "characters"},
		{Name: "Weapons", Slug: "weapons"},
		{Name: "Miscellaneous", Slug: "misc"},
	}
	for i := range categories {
		if err := gdb.Create(&categories[i]).Error; err != nil {
			t.Fatalf("seeding category: %v", err)
		}
	}
	entities := []db.Entity{
		{CategoryID: categories[0].ID, Name: "Zephyr", Slug: "zephyr"},
		{CategoryID: categories[0].ID, Name: "Other/Unknown", Slug: "characters-other"},
		{CategoryID: categories[1].ID, Name: "Duskfang", Slug: "duskfang"},
		{CategoryID: categories[1].ID, Name: "Other/Unknown", Slug: "weapons-other"},
		{CategoryID: categories[2].ID, Name: "Other/Unknown", Slug: "misc-other"},
	}
	for i := range entities {
		if err := gdb.Create(&entities[i]).Error; err != nil {
			t.Fatalf("seeding entity: %v", err)
		}
	}
	return gdb
}

func testMaps(t *testing.T, gdb *gorm.DB) *catalog.Maps {
	t.Helper()
	maps, err := catalog.BuildMaps(gdb)
	if err != nil {
		t.Fatalf("building maps: %v", err)
	}
	return maps
}

// makeMod creates a mod folder at base/rel with a descriptor file holding
// the given content (an empty descriptor when content is "").
func makeMod(t *testing.T, base, rel, iniContent string) string {
	t.Helper()
	dir := filepath.Join(base, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating mod folder %s: %v", rel, err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mod.ini"), []byte(iniContent), 0644); err != nil {
		t.Fatalf("writing descriptor: %v", err)
	}
	return dir
}

func writeFile(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
}

func assetsByFolder(t *testing.T, gdb *gorm.DB) map[string]db.Asset {
	t.Helper()
	var assets []db.Asset
	if err := gdb.Find(&assets).Error; err != nil {
		t.Fatalf("listing assets: %v", err)
	}
	byFolder := make(map[string]db.Asset, len(assets))
	for _, a := range assets {
		byFolder[a.FolderName] = a
	}
	return byFolder
}
