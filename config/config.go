package config

import (
	"fmt"
	"maps"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/schemglb/atlas"
	"github.com/voxelsplace/schemglb/schem"
)

// DefaultMaxInputBytes is the structure size ceiling applied before parsing.
const DefaultMaxInputBytes = 50 << 20

type Config struct {
	MaxInputBytes int64             `yaml:"max_input_bytes"`
	Atlas         AtlasConfig       `yaml:"atlas"`
	ResourcePacks []string          `yaml:"resource_packs"`
	Aliases       map[string]string `yaml:"aliases"`
	Cache         CacheConfig       `yaml:"cache"`
	Viewer        ViewerConfig      `yaml:"viewer"`
}

type AtlasConfig struct {
	TileSize int  `yaml:"tile_size"`
	Padding  int  `yaml:"padding"`
	Legacy   bool `yaml:"legacy"`
}

type CacheConfig struct {
	Enabled     bool   `yaml:"enabled"`
	MaxEntries  int    `yaml:"max_entries"`
	Compression string `yaml:"compression"` // zstd, zlib or none
	File        string `yaml:"file"`
}

// ViewerConfig holds the preview parameters. Angles are in degrees.
type ViewerConfig struct {
	SunAzimuth       float64 `yaml:"sun_azimuth"`
	SunElevation     float64 `yaml:"sun_elevation"`
	MaxDPR           float64 `yaml:"max_dpr"`
	RenderScale      float64 `yaml:"render_scale"`
	MaxDrawDistance  float64 `yaml:"max_draw_distance"`
	ShowGrid         bool    `yaml:"show_grid"`
	Wireframe        bool    `yaml:"wireframe"`
	AmbientOcclusion bool    `yaml:"ambient_occlusion"`
}

func Default() *Config {
	return &Config{
		MaxInputBytes: DefaultMaxInputBytes,
		Atlas: AtlasConfig{
			TileSize: atlas.DefaultTileSize,
			Padding:  atlas.DefaultPadding,
		},
		Cache: CacheConfig{
			Enabled:     true,
			MaxEntries:  256,
			Compression: "zstd",
		},
		Viewer: ViewerConfig{
			SunAzimuth:       60,
			SunElevation:     35,
			MaxDPR:           1.6,
			RenderScale:      1.0,
			MaxDrawDistance:  512,
			ShowGrid:         true,
			Wireframe:        false,
			AmbientOcclusion: true,
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MaxInputBytes <= 0 {
		return fmt.Errorf("max_input_bytes must be positive")
	}
	if c.Atlas.TileSize <= 0 {
		return fmt.Errorf("atlas.tile_size must be positive")
	}
	if c.Atlas.TileSize < 2 && !c.Atlas.Legacy {
		return fmt.Errorf("atlas.tile_size must be at least 2 unless atlas.legacy is set")
	}
	if c.Atlas.Padding < 0 {
		return fmt.Errorf("atlas.padding must not be negative")
	}
	switch c.Cache.Compression {
	case "zstd", "zlib", "none":
	default:
		return fmt.Errorf("cache.compression %q is not one of zstd, zlib, none", c.Cache.Compression)
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	if c.Viewer.SunElevation < -90 || c.Viewer.SunElevation > 90 {
		return fmt.Errorf("viewer.sun_elevation %v out of [-90, 90]", c.Viewer.SunElevation)
	}
	if c.Viewer.MaxDPR <= 0 || c.Viewer.RenderScale <= 0 || c.Viewer.MaxDrawDistance <= 0 {
		return fmt.Errorf("viewer.max_dpr, render_scale and max_draw_distance must be positive")
	}
	return nil
}

func (c *Config) AtlasOptions() atlas.Options {
	return atlas.Options{TileSize: c.Atlas.TileSize, Padding: c.Atlas.Padding, Legacy: c.Atlas.Legacy}
}

// Normalizer returns the built-in alias table extended by the configured aliases.
func (c *Config) Normalizer() schem.AliasNormalizer {
	n := maps.Clone(schem.DefaultAliases)
	maps.Copy(n, c.Aliases)
	return n
}
