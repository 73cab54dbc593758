// Package photos selects gallery source images and derives thumbnail names.
package photos

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// WebExt is the extension every thumbnail is written with.
const WebExt = ".webp"

var sourcePattern = regexp.MustCompile(`(?i)^photo(\d+)\.(webp|jpg|jpeg|png)$`)

// Source is a matched source image on disk.
type Source struct {
	Name  string // base name, e.g. photo12.jpg
	Path  string // full path inside the input directory
	Index int64  // numeric photo index; -1 when it overflows int64
}

// IsSource reports whether name follows the photo<N>.<ext> convention.
func IsSource(name string) bool {
	return sourcePattern.MatchString(name)
}

// Index extracts N from photo<N>.<ext>.
func Index(name string) (int64, bool) {
	m := sourcePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return -1, true
	}
	return n, true
}

// ThumbName returns the thumbnail file name for a source name. Sources that
// are already WebP keep their name; everything else gets the stem plus .webp.
func ThumbName(name string) string {
	ext := filepath.Ext(name)
	if strings.EqualFold(ext, WebExt) {
		return name
	}
	return strings.TrimSuffix(name, ext) + WebExt
}

// Stem returns the file name without its extension.
func Stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// List returns the matching regular files in dir, ordered by photo index and
// then by name. Directories, hidden files and other names are skipped.
func List(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	sources := make([]Source, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		idx, ok := Index(name)
		if !ok {
			continue
		}
		sources = append(sources, Source{
			Name:  name,
			Path:  filepath.Join(dir, name),
			Index: idx,
		})
	}

	Sort(sources)
	return sources, nil
}

// Sort orders sources by numeric index, falling back to name.
func Sort(sources []Source) {
	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].Index != sources[j].Index {
			return sources[i].Index < sources[j].Index
		}
		return sources[i].Name < sources[j].Name
	})
}

// Expected returns the set of thumbnail names the given sources produce.
func Expected(sources []Source) map[string]Source {
	out := make(map[string]Source, len(sources))
	for _, s := range sources {
		out[ThumbName(s.Name)] = s
	}
	return out
}
