package utils

import (
	"encoding/json"
	"os"

	"github.com/voxelsplace/schemglb/api"
	"github.com/voxelsplace/schemglb/config"
)

// RunPreview writes the viewer parameters for a .schem file as JSON.
func RunPreview(cfg *config.Config, inPath, outPath string, packs []string) error {
	out, err := convertFile(cfg, inPath, packs)
	if err != nil {
		return err
	}
	p := api.NewPreviewPayload(out.Asset.Bytes, out.Asset.Center, out.Asset.Size)
	data, err := json.MarshalIndent(p.ViewerParams(api.PreviewOptionsFromConfig(cfg.Viewer)), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
