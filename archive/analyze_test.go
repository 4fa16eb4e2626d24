package archive

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/ncruces/go-sqlite3/gormlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/scanner"
)

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

	characters := db.Category{Name: "Characters", Slug: "characters"}
	misc := db.Category{Name: "Miscellaneous", Slug: "misc"}
	for _, c := range []*db.Category{&characters, &misc} {
		if err := gdb.Create(c).Error; err != nil {
			t.Fatal(err)
		}
	}
	entities := []db.Entity{
		{CategoryID: characters.ID, Name: "Zephyr", Slug: "zephyr"},
		{CategoryID: characters.ID, Name: "Other/Unknown", Slug: "characters-other"},
		{CategoryID: misc.ID, Name: "Other/Unknown", Slug: "misc-other"},
	}
	for i := range entities {
		if err := gdb.Create(&entities[i]).Error; err != nil {
			t.Fatal(err)
		}
	}
	return gdb
}

func testMaps(t *testing.T, gdb *gorm.DB) *catalog.Maps {
	t.Helper()
	maps, err := catalog.BuildMaps(gdb)
	if err != nil {
		t.Fatal(err)
	}
	return maps
}

// makeZip writes a zip holding the given entries (internal path -> content).
func makeZip(t *testing.T, name string, entries map[string]string) string {
	t.Helper()
	archivePath := filepath.Join(t.TempDir(), name)
	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for entryName, content := range entries {
		entry, err := w.Create(entryName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return archivePath
}

func TestAnalyze(t *testing.T) {
	gdb := openTestDB(t)
	maps := testMaps(t, gdb)

	t.Run("nested root with descriptor hints", func(t *testing.T) {
		archivePath := makeZip(t, "bundle.zip", map[string]string{
			"ZephyrSkin_v1.2/mod.ini":    "[Mod]\nName = Storm Garb\nTarget = Zephyr\nAuthor = someone\n",
			"ZephyrSkin_v1.2/preview.png": "img",
			"ZephyrSkin_v1.2/data/mesh.bin": "bin",
			"readme.txt":                  "hello",
		})

		analysis, err := Analyze(archivePath, maps, "misc")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if len(analysis.Roots) != 1 {
			t.Fatalf("roots = %d, want 1", len(analysis.Roots))
		}
		root := analysis.Roots[0]
		if root.Path != "ZephyrSkin_v1.2" {
			t.Errorf("root path = %q", root.Path)
		}
		if root.Info.EntitySlug != "zephyr" {
			t.Errorf("entity = %q, want zephyr", root.Info.EntitySlug)
		}
		if root.Info.ModName != "Storm Garb" {
			t.Errorf("name = %q, want Storm Garb", root.Info.ModName)
		}
		if root.Info.ImageFilename != "preview.png" {
			t.Errorf("preview = %q, want preview.png", root.Info.ImageFilename)
		}
		if root.FileCount != 3 {
			t.Errorf("file count = %d, want 3", root.FileCount)
		}
	})

	t.Run("top-level descriptor names the mod after the archive", func(t *testing.T) {
		archivePath := makeZip(t, "LooseMod_v2.zip", map[string]string{
			"mod.ini":  "",
			"mesh.bin": "bin",
		})
		analysis, err := Analyze(archivePath, maps, "misc")
		if err != nil {
			t.Fatal(err)
		}
		if len(analysis.Roots) != 1 {
			t.Fatalf("roots = %d, want 1", len(analysis.Roots))
		}
		root := analysis.Roots[0]
		if root.Path != "" {
			t.Errorf("root path = %q, want top level", root.Path)
		}
		if root.Info.ModName != "LooseMod" {
			t.Errorf("name = %q, want LooseMod (version suffix stripped)", root.Info.ModName)
		}
		if root.Info.EntitySlug != "misc-other" {
			t.Errorf("entity = %q, want misc-other", root.Info.EntitySlug)
		}
	})

	t.Run("no descriptor means no roots", func(t *testing.T) {
		archivePath := makeZip(t, "pictures.zip", map[string]string{
			"a/shot.png": "img",
		})
		analysis, err := Analyze(archivePath, maps, "misc")
		if err != nil {
			t.Fatal(err)
		}
		if len(analysis.Roots) != 0 {
			t.Errorf("roots = %d, want 0", len(analysis.Roots))
		}
	})

	t.Run("traversal entries are ignored", func(t *testing.T) {
		archivePath := makeZip(t, "evil.zip", map[string]string{
			"../escape/mod.ini": "",
			"ok/mod.ini":        "",
		})
		analysis, err := Analyze(archivePath, maps, "misc")
		if err != nil {
			t.Fatal(err)
		}
		if len(analysis.Roots) != 1 || analysis.Roots[0].Path != "ok" {
			t.Errorf("roots = %+v, want only the safe one", analysis.Roots)
		}
	})
}

func TestImport(t *testing.T) {
	gdb := openTestDB(t)
	maps := testMaps(t, gdb)
	base := t.TempDir()

	archivePath := makeZip(t, "skin.zip", map[string]string{
		"CoolSkin/mod.ini":      "[Mod]\nTarget = Zephyr\n",
		"CoolSkin/preview.png":  "img",
		"CoolSkin/data/mesh.bin": "bin",
	})
	analysis, err := Analyze(archivePath, maps, "misc")
	if err != nil {
		t.Fatal(err)
	}
	if len(analysis.Roots) != 1 {
		t.Fatalf("roots = %d, want 1", len(analysis.Roots))
	}

	rel, err := Import(gdb, base, archivePath, analysis.Roots[0])
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if rel != "characters/zephyr/CoolSkin" {
		t.Errorf("imported to %q, want characters/zephyr/CoolSkin", rel)
	}

	for _, f := range []string{"mod.ini", "preview.png", "data/mesh.bin"} {
		p := filepath.Join(base, filepath.FromSlash(rel), filepath.FromSlash(f))
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing extracted file %s: %v", f, err)
		}
	}
	if got := scanner.Resolve(base, rel).State; got != scanner.Enabled {
		t.Errorf("state = %v, want enabled", got)
	}

	var asset db.Asset
	if err := gdb.First(&asset, "folder_name = ?", rel).Error; err != nil {
		t.Fatalf("catalog row missing: %v", err)
	}
	if asset.ImageFilename != "preview.png" {
		t.Errorf("image = %q", asset.ImageFilename)
	}

	t.Run("second import of the same root conflicts", func(t *testing.T) {
		_, err := Import(gdb, base, archivePath, analysis.Roots[0])
		if !apperr.Is(err, apperr.Conflict) {
			t.Errorf("error kind = %v, want conflict", apperr.KindOf(err))
		}
	})
}
