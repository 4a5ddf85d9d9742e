// Package presets holds named, pre-sized layouts for mkfs: a block size,
// inode count and data-block count good for a given image size. Loaded from
// an embedded CSV with github.com/gocarina/gocsv.
package presets

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

// Preset names one named mkfs layout.
type Preset struct {
	Slug       string `csv:"slug"`
	Name       string `csv:"name"`
	BlockSize  int    `csv:"block_size"`
	Inodes     int    `csv:"inodes"`
	DataBlocks int    `csv:"data_blocks"`
}

//go:embed presets.csv
var rawCSV string

var bySlug map[string]Preset

func init() {
	bySlug = make(map[string]Preset)
	err := gocsv.UnmarshalToCallback(strings.NewReader(rawCSV), func(p Preset) error {
		if _, exists := bySlug[p.Slug]; exists {
			return fmt.Errorf("presets: duplicate slug %q", p.Slug)
		}
		bySlug[p.Slug] = p
		return nil
	})
	if err != nil {
		panic(fmt.Sprintf("presets: malformed embedded CSV: %v", err))
	}
}

// Get looks up a named preset. The error mirrors
// disks.GetPredefinedDiskGeometry's "no predefined disk geometry" message.
func Get(slug string) (Preset, error) {
	p, ok := bySlug[slug]
	if !ok {
		return Preset{}, fmt.Errorf("no predefined image preset exists with slug %q", slug)
	}
	return p, nil
}

// Names returns every known preset slug.
func Names() []string {
	names := make([]string, 0, len(bySlug))
	for slug := range bySlug {
		names = append(names, slug)
	}
	return names
}
