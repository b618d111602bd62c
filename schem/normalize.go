package schem

import (
	"errors"
	"strings"
)

// Normalizer rewrites a block descriptor into a canonical form.
type Normalizer interface {
	Normalize(Block) (Block, error)
}

// Normalize returns a Structure with every palette entry passed through n.
// Bounds and grid are shared with s. Entries n cannot handle are kept as-is.
func Normalize(s *Structure, n Normalizer) *Structure {
	if n == nil {
		return s
	}
	palette := make([]Block, len(s.Palette))
	for i, b := range s.Palette {
		nb, err := n.Normalize(b)
		if err != nil {
			palette[i] = b
			continue
		}
		palette[i] = nb
	}
	return s.WithPalette(palette)
}

// AliasNormalizer renames identifiers through a lookup table. Keys and values
// without a namespace are treated as "minecraft:". Properties are kept.
type AliasNormalizer map[string]string

// ErrNoAlias is returned for identifiers the table does not cover.
var ErrNoAlias = errors.New("schem: no alias")

func qualify(name string) string {
	if strings.Contains(name, ":") {
		return name
	}
	return "minecraft:" + name
}

func (a AliasNormalizer) Normalize(b Block) (Block, error) {
	to, ok := a[b.Name]
	if !ok && b.Namespace() == "minecraft" {
		to, ok = a[b.Path()]
		if !ok {
			to, ok = a[qualify(b.Path())]
		}
	}
	if !ok {
		return b, ErrNoAlias
	}
	return Block{Name: qualify(to), Properties: b.Properties}, nil
}

// DefaultAliases maps pre-flattening and renamed identifiers to current ones.
var DefaultAliases = AliasNormalizer{
	"minecraft:grass":            "minecraft:short_grass",
	"minecraft:grass_path":       "minecraft:dirt_path",
	"minecraft:stone_slab":       "minecraft:smooth_stone_slab",
	"minecraft:sign":             "minecraft:oak_sign",
	"minecraft:wall_sign":        "minecraft:oak_wall_sign",
	"minecraft:snow_layer":       "minecraft:snow",
	"minecraft:web":              "minecraft:cobweb",
	"minecraft:stonebrick":       "minecraft:stone_bricks",
	"minecraft:planks":           "minecraft:oak_planks",
	"minecraft:log":              "minecraft:oak_log",
	"minecraft:leaves":           "minecraft:oak_leaves",
	"minecraft:brick_block":      "minecraft:bricks",
	"minecraft:lit_pumpkin":      "minecraft:jack_o_lantern",
	"minecraft:melon_block":      "minecraft:melon",
	"minecraft:quartz_ore":       "minecraft:nether_quartz_ore",
	"minecraft:red_nether_brick": "minecraft:red_nether_bricks",
}
