// AtlasPack - Sprite Atlas Packer
//
// A command line tool for packing sprite images into texture atlas pages
// with a JSON manifest, optional deduplication, trimming, and layout reports.
//
// Build:
//   go build -o atlaspack ./cmd/atlaspack
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o atlaspack.exe ./cmd/atlaspack
//   GOOS=darwin  GOARCH=amd64 go build -o atlaspack-darwin ./cmd/atlaspack

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/atlaspack/internal/export"
	"github.com/piwi3910/atlaspack/internal/importer"
	"github.com/piwi3910/atlaspack/internal/model"
	"github.com/piwi3910/atlaspack/internal/packer"
	"github.com/piwi3910/atlaspack/internal/project"
)

type cliOpts struct {
	outDir     string
	name       string
	list       string
	preset     string
	pdfPath    string
	maxSize    int
	padding    int
	trim       bool
	powerOfTwo bool
	dedupe     bool
	edges      bool
	savePreset string
	exportData string
	importData string
}

func parseCLIOpts() cliOpts {
	var opt cliOpts
	flag.StringVar(&opt.outDir, "out", ".", "Output directory for pages and manifest")
	flag.StringVar(&opt.name, "name", "atlas", "Atlas name, used for page and manifest file names")
	flag.StringVar(&opt.list, "list", "", "Sprite list file (.csv or .xlsx) mapping images to names and clip rects")
	flag.StringVar(&opt.preset, "preset", "", "Apply a named settings preset (builtin or user)")
	flag.StringVar(&opt.pdfPath, "pdf", "", "Also write a PDF layout report to this path")
	flag.IntVar(&opt.maxSize, "max", 0, "Maximum page width/height in pixels")
	flag.IntVar(&opt.padding, "pad", 0, "Pixel gap reserved per placed sprite")
	flag.BoolVar(&opt.trim, "trim", true, "Trim transparent borders from sprites")
	flag.BoolVar(&opt.powerOfTwo, "pot", false, "Round page dimensions up to powers of two")
	flag.BoolVar(&opt.dedupe, "dedupe", false, "Deduplicate pixel-identical sprites")
	flag.BoolVar(&opt.edges, "edges", false, "Duplicate edge pixels into padding gutters (needs -pad >= 2)")
	flag.StringVar(&opt.savePreset, "save-preset", "", "Save the effective settings as a user preset with this name")
	flag.StringVar(&opt.exportData, "export-data", "", "Export app config and presets to a backup file and exit")
	flag.StringVar(&opt.importData, "import-data", "", "Import app config and presets from a backup file and exit")
	flag.Parse()
	return opt
}

func main() {
	opt := parseCLIOpts()

	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load config, using defaults: %v\n", err)
		config = model.DefaultAppConfig()
	}
	presets, err := project.LoadDefaultPresets()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not load presets: %v\n", err)
	}

	if opt.exportData != "" {
		if err := project.ExportAllData(opt.exportData, config, presets); err != nil {
			fatal(err)
		}
		fmt.Printf("Exported app data to %s\n", opt.exportData)
		return
	}
	if opt.importData != "" {
		backup, err := project.ImportAllData(opt.importData)
		if err != nil {
			fatal(err)
		}
		if err := project.SaveAppConfig(project.DefaultConfigPath(), backup.Config); err != nil {
			fatal(err)
		}
		if err := project.SaveDefaultPresets(backup.Presets); err != nil {
			fatal(err)
		}
		fmt.Printf("Imported app data from %s\n", opt.importData)
		return
	}

	settings := model.DefaultSettings()
	config.ApplyToSettings(&settings)

	if opt.preset != "" {
		p := model.ResolvePreset(presets, opt.preset)
		if p == nil {
			fatal(fmt.Errorf("unknown preset %q", opt.preset))
		}
		settings = p.Settings
	}
	applyFlagOverrides(&settings, opt)

	if opt.savePreset != "" {
		presets.Add(model.NewPackPreset(opt.savePreset, "saved from command line", settings))
		if err := project.SaveDefaultPresets(presets); err != nil {
			fatal(err)
		}
		fmt.Printf("Saved preset %q\n", opt.savePreset)
	}

	sprites, ok := collectSprites(opt)
	if !ok {
		os.Exit(1)
	}
	if len(sprites) == 0 {
		if opt.savePreset != "" {
			return
		}
		fmt.Fprintln(os.Stderr, "No input images. Pass PNG files as arguments or use -list.")
		flag.Usage()
		os.Exit(2)
	}

	p := packer.New(settings)
	for _, s := range sprites {
		buf, err := importer.LoadImage(s.File)
		if err != nil {
			fatal(err)
		}
		if s.Clip != nil {
			p.AddRect(s.Name, buf, *s.Clip)
		} else {
			p.Add(s.Name, buf)
		}
	}

	result, err := p.Pack()
	if err != nil {
		var sizeErr *packer.SizeError
		if errors.As(err, &sizeErr) {
			fatal(fmt.Errorf("%w (raise -max or shrink the image)", sizeErr))
		}
		fatal(err)
	}

	pages, err := export.WritePages(opt.outDir, opt.name, result)
	if err != nil {
		fatal(err)
	}

	atlas := model.NewAtlas(opt.name, settings, pages, result.Entries)
	manifestPath := filepath.Join(opt.outDir, opt.name+".json")
	if err := export.WriteManifest(manifestPath, atlas); err != nil {
		fatal(err)
	}

	if opt.pdfPath != "" {
		if err := export.ExportPDF(opt.pdfPath, opt.name, result, settings); err != nil {
			fatal(err)
		}
	}

	config.AddRecentAtlas(manifestPath)
	if err := project.SaveAppConfig(project.DefaultConfigPath(), config); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	}

	printSummary(atlas, result)
}

// applyFlagOverrides copies explicitly-set flags over the effective settings,
// so config and preset values only act as defaults.
func applyFlagOverrides(settings *model.PackSettings, opt cliOpts) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max":
			settings.MaxSize = opt.maxSize
		case "pad":
			settings.Padding = opt.padding
		case "trim":
			settings.Trim = opt.trim
		case "pot":
			settings.PowerOfTwo = opt.powerOfTwo
		case "dedupe":
			settings.CombineDuplicates = opt.dedupe
		case "edges":
			settings.DuplicateEdges = opt.edges
		}
	})
}

// collectSprites builds the input list from positional arguments and the
// optional -list file. Returns false if the list file had errors.
func collectSprites(opt cliOpts) ([]importer.SpriteRef, bool) {
	var sprites []importer.SpriteRef
	for _, path := range flag.Args() {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		sprites = append(sprites, importer.SpriteRef{File: path, Name: name})
	}

	if opt.list != "" {
		imported := importer.ImportFile(opt.list)
		for _, w := range imported.Warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
		if len(imported.Errors) > 0 {
			for _, e := range imported.Errors {
				fmt.Fprintf(os.Stderr, "Error: %s\n", e)
			}
			return nil, false
		}
		// List file paths are relative to the list's directory.
		base := filepath.Dir(opt.list)
		for _, s := range imported.Sprites {
			if !filepath.IsAbs(s.File) {
				s.File = filepath.Join(base, s.File)
			}
			sprites = append(sprites, s)
		}
	}
	return sprites, true
}

func printSummary(atlas model.Atlas, result model.PackResult) {
	fmt.Printf("Packed %d sprites onto %d page(s), %.1f%% occupancy\n",
		len(result.Entries), len(result.Pages), result.TotalOccupancy())
	for i, page := range atlas.Pages {
		fmt.Printf("  page %d: %s (%dx%d, %.1f%%)\n",
			i, page.File, page.Width, page.Height, result.Occupancy(i))
	}
	fmt.Printf("Manifest: %s (atlas id %s)\n", atlas.Name+".json", atlas.ID)
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
