// Package scanner implements the mod-folder reconciliation engine: probing
// directories for mod markers, deducing classifications, resolving the
// on-disk enabled/disabled state, and reconciling the tree against the
// catalog.
package scanner

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DescriptorExt marks a directory as a mod root when a file with this
// extension sits directly inside it.
const DescriptorExt = ".ini"

// previewCandidates is checked in list order; the first hit wins, so a
// preview.jpg beats an icon.png even when the icon sorts first.
var previewCandidates = []string{
	"preview.png", "preview.jpg",
	"icon.png", "icon.jpg",
	"thumbnail.png", "thumbnail.jpg",
}

// HasDescriptor reports whether dir directly contains a descriptor file.
// No recursion; an unreadable directory counts as "no", not as an error.
func HasDescriptor(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), DescriptorExt) {
			return true
		}
	}
	return false
}

// FindPreviewImage returns the first filename in dir matching the preview
// candidate list, case-insensitively, in candidate order.
func FindPreviewImage(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, candidate := range previewCandidates {
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.EqualFold(entry.Name(), candidate) {
				return entry.Name(), true
			}
		}
	}
	return "", false
}

// PreviewRank returns the candidate-list position of a preview filename, or
// false when the name is not a recognized preview candidate. Lower ranks win.
func PreviewRank(name string) (int, bool) {
	for i, candidate := range previewCandidates {
		if strings.EqualFold(name, candidate) {
			return i, true
		}
	}
	return 0, false
}

// firstDescriptor returns the path of the first descriptor file directly in
// dir. Entries are sorted by name so the choice is deterministic when a mod
// ships several.
func firstDescriptor(dir string) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), DescriptorExt) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return filepath.Join(dir, names[0]), true
}
