package utils

import (
	"os"

	"github.com/voxelsplace/schemglb/config"
)

// RunAtlas writes the texture atlas built for a .schem file as PNG.
func RunAtlas(cfg *config.Config, inPath, outPath string, packs []string) (err error) {
	out, err := convertFile(cfg, inPath, packs)
	if err != nil {
		return err
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return out.Atlas.EncodePNG(f)
}
