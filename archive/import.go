package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
	"modshelf/scanner"
)

// Import extracts one analyzed candidate root into the mods tree at
// <category slug>/<entity slug>/<cleaned name> and registers it in the
// catalog. Both the catalog row and the destination folder must be free
// beforehand; if the catalog insert fails after extraction, the extracted
// files are removed again.
func Import(gdb *gorm.DB, base, archivePath string, root CandidateRoot) (string, error) {
	if root.Info == nil || root.Info.EntitySlug == "" {
		return "", apperr.New(apperr.InvalidInput, "candidate root has no classification")
	}
	entity, err := catalog.EntityBySlug(gdb, root.Info.EntitySlug)
	if err != nil {
		return "", err
	}
	var category db.Category
	if err := gdb.First(&category, entity.CategoryID).Error; err != nil {
		return "", apperr.Wrap(apperr.Catalog, err, "reading category of entity %q", entity.Slug)
	}

	folder := strings.TrimSpace(root.Info.ModName)
	if folder == "" {
		return "", apperr.New(apperr.InvalidInput, "candidate root has no usable name")
	}
	rel := path.Join(category.Slug, entity.Slug, folder)

	var existing db.Asset
	err = gdb.First(&existing, "entity_id = ? AND folder_name = ?", entity.ID, rel).Error
	if err == nil {
		return "", apperr.New(apperr.Conflict, "an asset already exists at %q", rel)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.Wrap(apperr.Catalog, err, "checking destination %q", rel)
	}
	if res := scanner.Resolve(base, rel); res.State != scanner.Orphaned {
		return "", apperr.New(apperr.Conflict, "a folder already exists at %q", res.ActualPath)
	}

	destDir := filepath.Join(base, filepath.FromSlash(rel))
	if err := extractRoot(archivePath, root.Path, destDir); err != nil {
		os.RemoveAll(destDir)
		return "", err
	}

	asset := &db.Asset{
		EntityID:      entity.ID,
		Name:          root.Info.ModName,
		Description:   root.Info.Description,
		FolderName:    rel,
		ImageFilename: root.Info.ImageFilename,
		Author:        root.Info.Author,
		CategoryTag:   root.Info.TypeTag,
	}
	if err := catalog.InsertAsset(gdb, asset); err != nil {
		os.RemoveAll(destDir)
		return "", err
	}

	logger.Log.Infow("Imported mod from archive",
		zap.String("archive", archivePath),
		zap.String("root", root.Path),
		zap.String("folder", rel),
	)
	return rel, nil
}

// extractRoot writes every archive entry under internalRoot into destDir,
// preserving the tree below the root. Entries with unsafe names are skipped
// during analysis already, but the guard runs again here.
func extractRoot(archivePath, internalRoot, destDir string) error {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return apperr.Wrap(apperr.Filesystem, err, "opening archive %q", archivePath)
	}
	defer reader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return apperr.Wrap(apperr.Filesystem, err, "creating %q", destDir)
	}

	prefix := ""
	if internalRoot != "" {
		prefix = internalRoot + "/"
	}
	extracted := 0
	for _, file := range reader.File {
		name := path.Clean(strings.ReplaceAll(file.Name, "\\", "/"))
		if !validEntryName(name) {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		rel := strings.TrimPrefix(name, prefix)
		if rel == "" || rel == "." {
			continue
		}
		target := filepath.Join(destDir, filepath.FromSlash(rel))

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return apperr.Wrap(apperr.Filesystem, err, "creating %q", target)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return apperr.Wrap(apperr.Filesystem, err, "creating parent of %q", target)
		}
		if err := copyEntry(file, target); err != nil {
			return err
		}
		extracted++
	}
	if extracted == 0 {
		return apperr.New(apperr.InvalidInput, "archive root %q contains no files", internalRoot)
	}
	return nil
}

func copyEntry(file *zip.File, target string) error {
	rc, err := file.Open()
	if err != nil {
		return apperr.Wrap(apperr.Filesystem, err, "reading archive entry %q", file.Name)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return apperr.Wrap(apperr.Filesystem, err, "writing %q", target)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return apperr.Wrap(apperr.Filesystem, err, "extracting %q", file.Name)
	}
	return nil
}
