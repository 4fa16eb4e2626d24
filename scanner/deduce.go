package scanner

import (
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/ini.v1"

	"modshelf/catalog"
	"modshelf/db"
	"modshelf/logger"
)

// DeducedInfo is the best-effort classification and display metadata for one
// candidate mod folder.
type DeducedInfo struct {
	EntitySlug    string
	ModName       string
	TypeTag       string
	Author        string
	Description   string
	ImageFilename string
}

// descriptorSections are scanned in this order; when several carry the same
// key, the later section wins.
var descriptorSections = []string{"Mod", "Settings", "Info", "General"}

// nameCleanupRE strips versioning and disabled markers from display names.
var nameCleanupRE = regexp.MustCompile(`(?i)(_v\d+(\.\d+)*|_DISABLED|DISABLED_|\(disabled\))`)

// CleanModName strips version suffixes and disabled markers from a raw name,
// falling back to the input when nothing is left.
func CleanModName(raw string) string {
	cleaned := strings.TrimSpace(nameCleanupRE.ReplaceAllString(raw, ""))
	if cleaned == "" {
		return raw
	}
	return cleaned
}

// DeduceModInfo classifies one candidate mod folder. It combines, in
// priority order: directory-ancestry matching, descriptor-file hints, and a
// fuzzy category fallback over the first path component. It never fails on
// missing signal — the weakest outcome is the configured fallback category's
// "other" bucket. The second return value is false only when the folder has
// no usable name component.
func DeduceModInfo(modDir, base string, maps *catalog.Maps, fallbackCategory string) (*DeducedInfo, bool) {
	leaf := filepath.Base(modDir)
	if leaf == "" || leaf == "." || leaf == string(filepath.Separator) {
		return nil, false
	}

	info := &DeducedInfo{ModName: leaf}
	if image, ok := FindPreviewImage(modDir); ok {
		info.ImageFilename = image
	}

	// 1. Ancestry walk: parents of the candidate, up to (not including) the
	// base root. First match wins and is never overwritten; at each level a
	// slug match is preferred over a display-name match.
	entitySlug, categorySlug := walkAncestry(modDir, base, maps)

	// 2. Descriptor hints.
	entityHint, categoryHint := parseDescriptor(modDir, info)

	resolveDeduction(info, leaf, firstComponent(modDir, base),
		entitySlug, categorySlug, entityHint, categoryHint, maps, fallbackCategory)
	return info, true
}

// DeduceFromDescriptor classifies a mod from raw descriptor contents alone,
// for candidates that have no on-disk ancestry yet (archive entries). The
// folder name stands in for both the display name and the fuzzy-category
// component.
func DeduceFromDescriptor(data []byte, folderName string, maps *catalog.Maps, fallbackCategory string) *DeducedInfo {
	info := &DeducedInfo{ModName: folderName}
	var entityHint, categoryHint string
	if len(data) > 0 {
		if cfg, err := ini.Load(data); err == nil {
			entityHint, categoryHint = applyDescriptor(cfg, info)
		} else {
			logger.Log.Debugw("Could not parse descriptor contents", zap.Error(err))
		}
	}
	resolveDeduction(info, folderName, folderName,
		"", "", entityHint, categoryHint, maps, fallbackCategory)
	return info
}

// resolveDeduction finishes a classification: resolves hints where ancestry
// found nothing, runs the fallback chain, and cleans the display name.
func resolveDeduction(info *DeducedInfo, leaf, fuzzyComponent,
	entitySlug, categorySlug, entityHint, categoryHint string,
	maps *catalog.Maps, fallbackCategory string) {

	if entitySlug == "" && entityHint != "" {
		entitySlug = resolveEntityHint(entityHint, maps)
	}
	if categorySlug == "" && categoryHint != "" {
		categorySlug = resolveCategoryHint(categoryHint, maps)
	}

	if entitySlug == "" {
		if categorySlug == "" {
			categorySlug = fuzzyCategory(fuzzyComponent, maps)
		}
		if categorySlug == "" {
			categorySlug = fallbackCategory
			logger.Log.Infow("No classification signal, using fallback category",
				zap.String("folder", leaf),
				zap.String("category", categorySlug),
			)
		}
		entitySlug = categorySlug + db.OtherEntitySuffix
	}
	info.EntitySlug = entitySlug
	info.ModName = CleanModName(info.ModName)
}

// walkAncestry checks each parent directory name against the entity and
// category maps, stopping at the base root.
func walkAncestry(modDir, base string, maps *catalog.Maps) (entitySlug, categorySlug string) {
	base = filepath.Clean(base)
	for dir := filepath.Dir(filepath.Clean(modDir)); len(dir) > len(base); dir = filepath.Dir(dir) {
		if !strings.HasPrefix(dir, base) {
			break
		}
		name := filepath.Base(dir)
		lower := strings.ToLower(name)
		if entitySlug == "" {
			if _, ok := maps.EntityIDBySlug[name]; ok {
				entitySlug = name
			} else if slug, ok := maps.EntitySlugByName[lower]; ok {
				entitySlug = slug
			}
		}
		if categorySlug == "" {
			if _, ok := maps.CategoryIDBySlug[name]; ok {
				categorySlug = name
			} else if slug, ok := maps.CategorySlugByName[lower]; ok {
				categorySlug = slug
			}
		}
	}
	return entitySlug, categorySlug
}

// parseDescriptor reads the first descriptor file in modDir, filling display
// fields on info and returning the raw entity/category hints.
func parseDescriptor(modDir string, info *DeducedInfo) (entityHint, categoryHint string) {
	descriptorPath, ok := firstDescriptor(modDir)
	if !ok {
		return "", ""
	}
	cfg, err := ini.Load(descriptorPath)
	if err != nil {
		// Unparseable descriptors degrade to folder-name deduction.
		logger.Log.Debugw("Could not parse descriptor file",
			zap.String("path", descriptorPath),
			zap.Error(err),
		)
		return "", ""
	}
	return applyDescriptor(cfg, info)
}

// applyDescriptor fills display fields from a parsed descriptor and returns
// its raw entity/category hints.
func applyDescriptor(cfg *ini.File, info *DeducedInfo) (entityHint, categoryHint string) {
	for _, sectionName := range descriptorSections {
		section, err := cfg.GetSection(sectionName)
		if err != nil {
			continue
		}
		if v := firstKey(section, "Name", "ModName"); v != "" {
			info.ModName = v
		}
		if v := firstKey(section, "Author"); v != "" {
			info.Author = v
		}
		if v := firstKey(section, "Description"); v != "" {
			info.Description = v
		}
		if v := firstKey(section, "Type", "Category"); v != "" {
			info.TypeTag = v
			categoryHint = v
		}
		if v := firstKey(section, "Target", "Entity", "Character"); v != "" {
			entityHint = v
		}
	}
	return entityHint, categoryHint
}

func firstKey(section *ini.Section, names ...string) string {
	for _, name := range names {
		if section.HasKey(name) {
			if v := strings.TrimSpace(section.Key(name).String()); v != "" {
				return v
			}
		}
	}
	return ""
}

func resolveEntityHint(hint string, maps *catalog.Maps) string {
	if _, ok := maps.EntityIDBySlug[hint]; ok {
		return hint
	}
	if slug, ok := maps.EntitySlugByName[strings.ToLower(hint)]; ok {
		return slug
	}
	logger.Log.Infow("Descriptor entity hint matches no known entity", zap.String("hint", hint))
	return ""
}

func resolveCategoryHint(hint string, maps *catalog.Maps) string {
	if _, ok := maps.CategoryIDBySlug[hint]; ok {
		return hint
	}
	if slug, ok := maps.CategorySlugByName[strings.ToLower(hint)]; ok {
		return slug
	}
	logger.Log.Infow("Descriptor category hint matches no known category", zap.String("hint", hint))
	return ""
}

// fuzzyCategory matches a path component against known categories with
// bidirectional prefix containment, case-insensitively. Slugs are checked
// before names, and candidates are sorted so the first match is
// deterministic regardless of map iteration order.
func fuzzyCategory(component string, maps *catalog.Maps) string {
	if component == "" {
		return ""
	}
	lower := strings.ToLower(component)

	slugs := make([]string, 0, len(maps.CategoryIDBySlug))
	for slug := range maps.CategoryIDBySlug {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	for _, slug := range slugs {
		if containsPrefix(lower, strings.ToLower(slug)) {
			return slug
		}
	}

	names := make([]string, 0, len(maps.CategorySlugByName))
	for name := range maps.CategorySlugByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if containsPrefix(lower, name) {
			return maps.CategorySlugByName[name]
		}
	}
	return ""
}

// containsPrefix reports whether either string is a prefix of the other.
func containsPrefix(a, b string) bool {
	return strings.HasPrefix(a, b) || strings.HasPrefix(b, a)
}

// firstComponent returns the first path component of modDir relative to
// base, or "" when modDir is not below base.
func firstComponent(modDir, base string) string {
	rel, err := filepath.Rel(base, modDir)
	if err != nil {
		return ""
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	for {
		dir := path.Dir(rel)
		if dir == "." || dir == "/" {
			return rel
		}
		rel = dir
	}
}
