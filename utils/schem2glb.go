package utils

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/voxelsplace/schemglb/api"
	"github.com/voxelsplace/schemglb/config"
	"github.com/voxelsplace/schemglb/schem"
	"github.com/voxelsplace/schemglb/texture"
)

// openSources opens the resource packs named on the command line followed by
// the configured ones. Earlier packs win.
func openSources(cfg *config.Config, packs []string) ([]texture.Source, error) {
	paths := append(append([]string(nil), packs...), cfg.ResourcePacks...)
	sources := make([]texture.Source, 0, len(paths))
	for _, p := range paths {
		src, err := texture.OpenSource(p)
		if err != nil {
			return nil, fmt.Errorf("resource pack %s: %w", p, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// loadStructure reads a schematic file, applying the size guard before parsing.
func loadStructure(path string, opts api.Options) (*schem.Structure, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", schem.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	if err := api.CheckSize(len(data), opts); err != nil {
		return nil, err
	}
	return schem.LoadStructureFromBytes(data)
}

// convertFile runs the full pipeline on one schematic file.
func convertFile(cfg *config.Config, inPath string, packs []string) (*api.Output, error) {
	opts := api.OptionsFromConfig(cfg)
	s, err := loadStructure(inPath, opts)
	if err != nil {
		return nil, err
	}
	sources, err := openSources(cfg, packs)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := api.Run(s, sources, opts)
	if err != nil {
		return nil, err
	}
	log.Printf("%s: %dx%dx%d, %d faces, %d textures, took %d ms",
		inPath, s.Width(), s.Height(), s.Length(), out.Faces, out.Textures, time.Since(start).Milliseconds())
	return out, nil
}

// RunSchem2GLB converts a .schem file to a .glb file.
func RunSchem2GLB(cfg *config.Config, inPath, outPath string, packs []string) error {
	out, err := convertFile(cfg, inPath, packs)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out.Asset.Bytes, 0o644)
}
