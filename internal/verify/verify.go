// Package verify compares the input and output directories and, optionally,
// the gallery page that links to them.
package verify

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dtnitsch/portfolio-thumbs/pkg/fetcher"
	"github.com/dtnitsch/portfolio-thumbs/pkg/photos"
)

// Report lists everything out of sync between sources and thumbnails.
type Report struct {
	Sources int `json:"sources" yaml:"sources"`
	// Missing are sources with no thumbnail.
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	// Stale are thumbnails whose source no longer exists.
	Stale []string `json:"stale,omitempty" yaml:"stale,omitempty"`
	// Unresolved are page references to photos with no thumbnail.
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Pruned     []string `json:"pruned,omitempty" yaml:"pruned,omitempty"`
}

// OK is true when nothing is missing, stale or unresolved.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0 && len(r.Unresolved) == 0
}

// Check lists sources without a thumbnail and thumbnails without a source.
// Hidden files in the output directory, including in-flight temp files, are
// ignored.
func Check(inputDir, outputDir string) (*Report, error) {
	sources, err := photos.List(inputDir)
	if err != nil {
		return nil, err
	}
	expected := photos.Expected(sources)

	present := make(map[string]bool)
	entries, err := os.ReadDir(outputDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		present[entry.Name()] = true
	}

	report := &Report{Sources: len(sources)}
	for _, src := range sources {
		if !present[photos.ThumbName(src.Name)] {
			report.Missing = append(report.Missing, src.Name)
		}
	}
	for name := range present {
		if !strings.EqualFold(filepath.Ext(name), photos.WebExt) {
			continue
		}
		if _, ok := expected[name]; !ok {
			report.Stale = append(report.Stale, name)
		}
	}
	sort.Strings(report.Stale)
	return report, nil
}

// embeddedRef finds photo file names inside script bodies and arbitrary
// attribute values, as in a bundled gallery's `thumb: "/photos/thumbs/photo1.webp"`.
var embeddedRef = regexp.MustCompile(`(?i)(?:^|[^a-z0-9_])(photo\d+\.(?:webp|jpe?g|png))\b`)

// PageRefs returns the photo source names referenced by a page without
// duplicates: img/source tags first, then links, then names embedded in
// scripts and other attributes.
func PageRefs(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var refs []string
	add := func(ref string) {
		ref = strings.TrimSpace(ref)
		if i := strings.IndexAny(ref, "?#"); i >= 0 {
			ref = ref[:i]
		}
		name := path.Base(ref)
		if name == "" || !photos.IsSource(name) || seen[name] {
			return
		}
		seen[name] = true
		refs = append(refs, name)
	}

	doc.Find("img, source").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "data-src"} {
			if v, ok := s.Attr(attr); ok {
				add(v)
			}
		}
		if srcset, ok := s.Attr("srcset"); ok {
			for _, candidate := range strings.Split(srcset, ",") {
				if fields := strings.Fields(candidate); len(fields) > 0 {
					add(fields[0])
				}
			}
		}
	})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		add(s.AttrOr("href", ""))
	})

	scan := func(text string) {
		for _, m := range embeddedRef.FindAllStringSubmatch(text, -1) {
			add(m[1])
		}
	}
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scan(s.Text())
	})
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range s.Nodes[0].Attr {
			scan(attr.Val)
		}
	})

	return refs
}

// CheckPage adds to report every photo referenced by the page at location
// (a file path or http(s) URL) whose thumbnail is not in outputDir.
func CheckPage(ctx context.Context, report *Report, location, outputDir string) error {
	doc, err := fetcher.NewFetcher().GetPage(ctx, location)
	if err != nil {
		return err
	}
	for _, ref := range PageRefs(doc) {
		thumb := filepath.Join(outputDir, photos.ThumbName(ref))
		if _, err := os.Stat(thumb); err != nil {
			report.Unresolved = append(report.Unresolved, ref)
		}
	}
	return nil
}

// Prune removes the stale thumbnails listed in report. onRemove, if set, is
// called with each removed path.
func Prune(report *Report, outputDir string, onRemove func(string) error) error {
	for _, name := range report.Stale {
		p := filepath.Join(outputDir, name)
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
		if onRemove != nil {
			if err := onRemove(p); err != nil {
				return err
			}
		}
		report.Pruned = append(report.Pruned, name)
	}
	report.Stale = nil
	return nil
}
