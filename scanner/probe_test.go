package scanner

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHasDescriptor(t *testing.T) {
	tmp := t.TempDir()

	write := func(rel string) {
		t.Helper()
		p := filepath.Join(tmp, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	write("withini/mod.ini")
	write("uppercase/MOD.INI")
	write("nested/sub/mod.ini")
	write("plain/readme.txt")

	tests := []struct {
		name string
		dir  string
		want bool
	}{
		{"ini directly inside", filepath.Join(tmp, "withini"), true},
		{"extension match is case-insensitive", filepath.Join(tmp, "uppercase"), true},
		{"ini only in subdirectory does not count", filepath.Join(tmp, "nested"), false},
		{"no ini at all", filepath.Join(tmp, "plain"), false},
		{"missing directory is false, not an error", filepath.Join(tmp, "nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasDescriptor(tt.dir); got != tt.want {
				t.Errorf("HasDescriptor(%q) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestFindPreviewImage(t *testing.T) {
	t.Run("candidate list order wins over alphabetical", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{"icon.png", "preview.jpg"} {
			if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
				t.Fatal(err)
			}
		}
		got, ok := FindPreviewImage(dir)
		if !ok || got != "preview.jpg" {
			t.Errorf("FindPreviewImage() = %q, %v; want preview.jpg", got, ok)
		}
	})

	t.Run("matching is case-insensitive, original name returned", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "Preview.PNG"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		got, ok := FindPreviewImage(dir)
		if !ok || got != "Preview.PNG" {
			t.Errorf("FindPreviewImage() = %q, %v; want Preview.PNG", got, ok)
		}
	})

	t.Run("no candidate present", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "screenshot.png"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, ok := FindPreviewImage(dir); ok {
			t.Error("FindPreviewImage() found a non-candidate file")
		}
	})
}
