package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bastiangx/unialias/internal/utils"
	"github.com/charmbracelet/log"
)

// Info describes one dataset found in a directory.
type Info struct {
	Name     string
	DataPath string
	// DocPath is empty when the dataset ships no help page.
	DocPath string
	Size    int64
}

// Catalog lists the datasets in dir sorted by name.
func Catalog(dir string) ([]Info, error) {
	pattern := filepath.Join(dir, "*"+DataExt)
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to scan for dataset files: %w", err)
	}

	infos := make([]Info, 0, len(files))
	for _, file := range files {
		stat, err := os.Stat(file)
		if err != nil || stat.IsDir() {
			log.Warnf("Skipping dataset %s: %v", file, err)
			continue
		}
		name := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		info := Info{
			Name:     name,
			DataPath: file,
			Size:     stat.Size(),
		}
		if doc := filepath.Join(dir, name+DocExt); utils.FileExists(doc) {
			info.DocPath = doc
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name < infos[j].Name
	})
	return infos, nil
}

// ReadDoc returns the Markdown help page of a dataset, or a short
// placeholder when it has none.
func ReadDoc(info Info) (string, error) {
	if info.DocPath == "" {
		return fmt.Sprintf("# %s\n\n_No help page for this dataset._\n", info.Name), nil
	}
	data, err := os.ReadFile(info.DocPath)
	if err != nil {
		return "", fmt.Errorf("failed to read help page %s: %w", info.DocPath, err)
	}
	return string(data), nil
}
