// Package discover resolves a design file path to a decoded universal
// netlist: it dispatches on the file's extension and, for Cadence designs,
// walks the surrounding subtree for the companion netlist triple.
package discover

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/netlens/netlens/internal/altium"
	"github.com/netlens/netlens/internal/cadence"
	"github.com/netlens/netlens/internal/netlist"
)

// SupportedExtensions lists the design file kinds the loader accepts.
var SupportedExtensions = []string{".SchDoc", ".PrjPcb", ".dsn", ".cpm"}

// Cadence companion file names.
const (
	netFileName  = "pstxnet.dat"
	partFileName = "pstxprt.dat"
	chipFileName = "pstchip.dat"
)

// defaultIgnore are subtree patterns skipped while searching for the
// Cadence triple.
var defaultIgnore = []string{
	"**/.git/**",
	"**/backup/**",
	"**/*.bak/**",
}

// Loader decodes design files into universal models.
type Loader struct {
	ignore []glob.Glob
	// Progress, when set, is called once per schematic document decoded
	// from a multi-sheet project.
	Progress func(doc string)
}

// NewLoader builds a loader with the given extra ignore patterns on top of
// the defaults.
func NewLoader(ignorePatterns []string) (*Loader, error) {
	l := &Loader{}
	for _, pattern := range append(append([]string{}, defaultIgnore...), ignorePatterns...) {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("bad ignore pattern %q: %w", pattern, err)
		}
		l.ignore = append(l.ignore, g)
	}
	return l, nil
}

// Load decodes the design at path, dispatching on its extension.
func (l *Loader) Load(path string) (*netlist.Netlist, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".schdoc":
		return altium.ParseSchDoc(path)
	case ".prjpcb":
		return altium.ParseProject(path, l.Progress)
	case ".dsn", ".cpm":
		files, err := l.FindCadenceFiles(filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		return cadence.ParseDesign(*files)
	default:
		return nil, fmt.Errorf("unsupported design file %q: supported extensions are %s",
			filepath.Base(path), strings.Join(SupportedExtensions, ", "))
	}
}

// FindCadenceFiles walks the subtree under root for the companion triple.
// Each file is taken from the first place the walk finds it, so the three
// may come from different directories; an incomplete triple is fatal.
func (l *Loader) FindCadenceFiles(root string) (*cadence.Files, error) {
	found := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && l.ignored(filepath.ToSlash(rel)) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		switch name {
		case netFileName, partFileName, chipFileName:
			if _, ok := found[name]; !ok {
				found[name] = path
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search for netlist files under %s: %w", root, err)
	}

	var missing []string
	for _, name := range []string{netFileName, partFileName, chipFileName} {
		if _, ok := found[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) == 3 {
		return nil, fmt.Errorf("no Cadence netlist files discovered under %s", root)
	}
	if len(missing) > 0 {
		return nil, cadence.MissingFilesError(missing)
	}
	return &cadence.Files{
		Net:  found[netFileName],
		Part: found[partFileName],
		Chip: found[chipFileName],
	}, nil
}

func (l *Loader) ignored(relPath string) bool {
	for _, g := range l.ignore {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}
