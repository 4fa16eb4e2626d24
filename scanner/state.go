package scanner

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"modshelf/apperr"
)

// DisabledPrefix is the literal filename prefix marking a mod folder as
// disabled. Only the leaf component carries it; the parent path is unchanged.
const DisabledPrefix = "DISABLED_"

// State is the derived on-disk state of an asset.
type State int

const (
	Enabled State = iota
	Disabled
	Orphaned // folder exists in neither enabled nor disabled form
)

func (s State) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Disabled:
		return "disabled"
	default:
		return "orphaned"
	}
}

// Resolution is the outcome of checking a canonical relative path against
// the mods base directory.
type Resolution struct {
	State        State
	ActualPath   string // absolute path currently on disk; empty when orphaned
	EnabledPath  string // absolute candidate path in enabled form
	DisabledPath string // absolute candidate path in disabled form
	RelOnDisk    string // relative path as currently named on disk, forward slashes
}

// Resolve determines the on-disk state for the canonical relative path rel.
// The enabled form takes precedence if both candidate paths exist.
func Resolve(base, rel string) Resolution {
	rel = strings.ReplaceAll(rel, "\\", "/")
	filename := path.Base(rel)
	parent := path.Dir(rel)
	disabledName := DisabledPrefix + filename

	res := Resolution{
		EnabledPath: filepath.Join(base, filepath.FromSlash(rel)),
	}
	disabledRel := disabledName
	if parent != "." && parent != "/" && parent != "" {
		disabledRel = parent + "/" + disabledName
	}
	res.DisabledPath = filepath.Join(base, filepath.FromSlash(disabledRel))

	switch {
	case isDir(res.EnabledPath):
		res.State = Enabled
		res.ActualPath = res.EnabledPath
		res.RelOnDisk = rel
	case isDir(res.DisabledPath):
		res.State = Disabled
		res.ActualPath = res.DisabledPath
		res.RelOnDisk = disabledRel
	default:
		res.State = Orphaned
	}
	return res
}

// Toggle flips the enabled state of the folder behind the canonical relative
// path rel with a single rename. The catalog is untouched: it only ever
// stores the enabled-form path. Returns the new enabled state.
func Toggle(base, rel string) (bool, error) {
	res := Resolve(base, rel)
	switch res.State {
	case Enabled:
		if err := os.Rename(res.EnabledPath, res.DisabledPath); err != nil {
			return false, apperr.Wrap(apperr.Filesystem, err, "renaming %q to %q", res.EnabledPath, res.DisabledPath)
		}
		return false, nil
	case Disabled:
		if err := os.Rename(res.DisabledPath, res.EnabledPath); err != nil {
			return false, apperr.Wrap(apperr.Filesystem, err, "renaming %q to %q", res.DisabledPath, res.EnabledPath)
		}
		return true, nil
	default:
		return false, apperr.New(apperr.OrphanedAsset,
			"folder for %q not found on disk (checked %q and %q); was it moved or deleted?",
			rel, res.EnabledPath, res.DisabledPath)
	}
}

// CanonicalRel converts an absolute mod folder path into the canonical
// relative path stored in the catalog: relative to base, forward slashes,
// and with any disabled marker stripped from the leaf component.
func CanonicalRel(base, dir string) (string, error) {
	rel, err := filepath.Rel(base, dir)
	if err != nil {
		return "", apperr.Wrap(apperr.Filesystem, err, "computing path of %q relative to %q", dir, base)
	}
	rel = filepath.ToSlash(rel)
	parent := path.Dir(rel)
	leaf := strings.TrimPrefix(path.Base(rel), DisabledPrefix)
	if parent == "." || parent == "/" {
		return leaf, nil
	}
	return parent + "/" + leaf, nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
