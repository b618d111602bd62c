package api

import (
	"errors"
	"fmt"

	"github.com/voxelsplace/schemglb/atlas"
	"github.com/voxelsplace/schemglb/config"
	"github.com/voxelsplace/schemglb/glb"
	"github.com/voxelsplace/schemglb/mesh"
	"github.com/voxelsplace/schemglb/schem"
	"github.com/voxelsplace/schemglb/texture"
)

// ErrTooLarge is returned for structure inputs above the configured ceiling.
var ErrTooLarge = errors.New("api: structure input too large")

// Options configures one pipeline run.
type Options struct {
	MaxInputBytes int64
	Atlas         atlas.Options
	Normalizer    schem.Normalizer // nil leaves the palette untouched
}

func DefaultOptions() Options {
	return Options{
		MaxInputBytes: config.DefaultMaxInputBytes,
		Atlas:         atlas.DefaultOptions(),
		Normalizer:    schem.DefaultAliases,
	}
}

// OptionsFromConfig maps a loaded configuration onto pipeline options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxInputBytes: cfg.MaxInputBytes,
		Atlas:         cfg.AtlasOptions(),
		Normalizer:    cfg.Normalizer(),
	}
}

// Output carries every intermediate product of a run.
type Output struct {
	Structure *schem.Structure
	Faces     int
	Textures  int
	Buffers   *mesh.Buffers
	Atlas     *atlas.Result
	Asset     *glb.Result
}

// Run converts a decoded structure into a GLB. Each call owns a fresh
// resolver, so concurrent runs share no state.
func Run(s *schem.Structure, sources []texture.Source, opts Options) (*Output, error) {
	s = schem.Normalize(s, opts.Normalizer)
	r := texture.NewResolver(sources...)
	faces := mesh.CullFaces(s, r)

	textures := r.Cache().Textures()
	tiles := make([]atlas.Tile, len(textures))
	for i, t := range textures {
		tiles[i] = atlas.Tile{Key: t.Key, Image: t.Image}
	}
	a := atlas.Build(tiles, opts.Atlas)
	buf := mesh.Build(faces, a.Rects)
	asset, err := glb.Encode(buf, a)
	if err != nil {
		return nil, err
	}
	return &Output{
		Structure: s,
		Faces:     len(faces),
		Textures:  len(textures),
		Buffers:   buf,
		Atlas:     a,
		Asset:     asset,
	}, nil
}

// CheckSize rejects inputs above the ceiling before any parsing.
func CheckSize(n int, opts Options) error {
	if opts.MaxInputBytes > 0 && int64(n) > opts.MaxInputBytes {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, n, opts.MaxInputBytes)
	}
	return nil
}

// Convert runs the pipeline on in-memory inputs. Each pack is a zipped
// resource pack; earlier packs take priority.
func Convert(schemBytes []byte, packs [][]byte, opts Options) (*Output, error) {
	if err := CheckSize(len(schemBytes), opts); err != nil {
		return nil, err
	}
	s, err := schem.LoadStructureFromBytes(schemBytes)
	if err != nil {
		return nil, err
	}
	var sources []texture.Source
	for i, p := range packs {
		if len(p) == 0 {
			continue
		}
		src, err := texture.NewZipSourceFromBytes(p)
		if err != nil {
			return nil, fmt.Errorf("resource pack %d: %w", i, err)
		}
		sources = append(sources, src)
	}
	return Run(s, sources, opts)
}

// SchemToGLB converts .schem bytes (and optional zipped resource packs) to .glb bytes.
func SchemToGLB(schemBytes []byte, packs ...[]byte) ([]byte, error) {
	out, err := Convert(schemBytes, packs, DefaultOptions())
	if err != nil {
		return nil, err
	}
	return out.Asset.Bytes, nil
}
