package altium

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/netlens/netlens/internal/netlist"
)

// ProjectDocuments reads an Altium .PrjPcb project file (an INI-like text
// file) and returns the schematic document paths it references, resolved
// relative to the project's directory.
func ProjectDocuments(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open project file: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var docs []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "DocumentPath=") {
			continue
		}
		rel := strings.TrimPrefix(line, "DocumentPath=")
		rel = strings.TrimSpace(rel)
		if rel == "" || !strings.EqualFold(filepath.Ext(rel), ".schdoc") {
			continue
		}
		// Project files written on Windows use backslash separators.
		rel = strings.ReplaceAll(rel, `\`, string(filepath.Separator))
		docs = append(docs, filepath.Join(dir, rel))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("project %s references no schematic documents", filepath.Base(path))
	}
	return docs, nil
}

// ParseProject decodes every schematic document of a .PrjPcb project and
// merges the per-sheet models into one. Nets sharing a name connect across
// sheets; progress is reported through the optional callback.
func ParseProject(path string, progress func(doc string)) (*netlist.Netlist, error) {
	docs, err := ProjectDocuments(path)
	if err != nil {
		return nil, err
	}
	model := netlist.New()
	for _, doc := range docs {
		if progress != nil {
			progress(doc)
		}
		sheet, err := ParseSchDoc(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(doc), err)
		}
		model.Merge(sheet)
	}
	return model, nil
}
