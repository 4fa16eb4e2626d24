// Package archive analyzes downloaded mod archives and imports them into the
// managed mods tree. Only zip archives are handled; analysis is read-only,
// import extracts one candidate root into its deduced category/entity
// directory and registers it in the catalog.
package archive

import (
	"archive/zip"
	"io"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"modshelf/apperr"
	"modshelf/catalog"
	"modshelf/logger"
	"modshelf/scanner"
)

// descriptor files larger than this are almost certainly not mod metadata.
const maxDescriptorSize = 1 << 20

// CandidateRoot is one likely mod inside an archive: a directory that
// directly contains a descriptor file. Path is the internal directory with
// forward slashes ("" when the descriptor sits at the archive top level).
type CandidateRoot struct {
	Path       string
	Descriptor string
	Preview    string
	FileCount  int
	Info       *scanner.DeducedInfo
}

// Analysis is the result of probing one archive.
type Analysis struct {
	ArchivePath string
	Roots       []CandidateRoot
}

// Analyze opens a zip archive and returns every candidate mod root it
// contains, each classified from its descriptor contents and internal
// folder name. Archives with no descriptor anywhere yield zero roots, which
// callers treat as "not a mod archive".
func Analyze(archivePath string, maps *catalog.Maps, fallbackCategory string) (*Analysis, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, apperr.Wrap(apperr.Filesystem, err, "opening archive %q", archivePath)
	}
	defer reader.Close()

	type dirInfo struct {
		descriptors []string // internal paths, sorted later
		previewRank int
		preview     string
		fileCount   int
	}
	dirs := map[string]*dirInfo{}

	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}
		name := path.Clean(strings.ReplaceAll(file.Name, "\\", "/"))
		if !validEntryName(name) {
			logger.Log.Warnw("Skipping archive entry with unsafe path", zap.String("entry", file.Name))
			continue
		}
		dir := path.Dir(name)
		if dir == "." {
			dir = ""
		}
		info := dirs[dir]
		if info == nil {
			info = &dirInfo{previewRank: -1}
			dirs[dir] = info
		}
		info.fileCount++
		base := path.Base(name)
		if strings.EqualFold(path.Ext(base), scanner.DescriptorExt) {
			info.descriptors = append(info.descriptors, name)
		}
		if rank, ok := scanner.PreviewRank(base); ok {
			if info.previewRank == -1 || rank < info.previewRank {
				info.previewRank = rank
				info.preview = name
			}
		}
	}

	analysis := &Analysis{ArchivePath: archivePath}
	roots := make([]string, 0, len(dirs))
	for dir, info := range dirs {
		if len(info.descriptors) > 0 {
			roots = append(roots, dir)
		}
	}
	sort.Strings(roots)

	for _, dir := range roots {
		info := dirs[dir]
		sort.Strings(info.descriptors)
		descriptor := info.descriptors[0]

		folderName := path.Base(dir)
		if dir == "" {
			// Top-level mod: fall back to the archive's own name.
			folderName = strings.TrimSuffix(path.Base(strings.ReplaceAll(archivePath, "\\", "/")), path.Ext(archivePath))
		}

		data, err := readEntry(&reader.Reader, descriptor)
		if err != nil {
			logger.Log.Warnw("Could not read descriptor from archive",
				zap.String("entry", descriptor),
				zap.Error(err),
			)
			data = nil
		}
		deduced := scanner.DeduceFromDescriptor(data, folderName, maps, fallbackCategory)
		if info.preview != "" {
			deduced.ImageFilename = path.Base(info.preview)
		}

		// Files in subdirectories of the root belong to the same mod.
		fileCount := 0
		for other, otherInfo := range dirs {
			if dir == "" || strings.HasPrefix(other+"/", dir+"/") {
				fileCount += otherInfo.fileCount
			}
		}

		analysis.Roots = append(analysis.Roots, CandidateRoot{
			Path:       dir,
			Descriptor: descriptor,
			Preview:    info.preview,
			FileCount:  fileCount,
			Info:       deduced,
		})
	}
	return analysis, nil
}

// validEntryName rejects absolute paths and parent traversal so a crafted
// archive cannot write outside the extraction directory.
func validEntryName(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

func readEntry(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if path.Clean(strings.ReplaceAll(file.Name, "\\", "/")) != name {
			continue
		}
		if file.UncompressedSize64 > maxDescriptorSize {
			return nil, apperr.New(apperr.InvalidInput, "descriptor %q exceeds %d bytes", name, maxDescriptorSize)
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxDescriptorSize))
	}
	return nil, apperr.New(apperr.NotFound, "entry %q not found in archive", name)
}
