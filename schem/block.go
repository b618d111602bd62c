package schem

import (
	"maps"
	"sort"
	"strings"
)

// Block is one palette entry: a namespaced identifier plus its block-state properties.
type Block struct {
	Name       string
	Properties map[string]string
}

// Air is the descriptor used for empty and out-of-range voxels.
var Air = Block{Name: "minecraft:air"}

var transparentPrefixes = []string{
	"minecraft:glass",
	"minecraft:ice",
	"minecraft:water",
	"minecraft:kelp",
	"minecraft:torch",
}

var transparentNames = map[string]bool{
	"minecraft:barrier":  true,
	"minecraft:light":    true,
	"minecraft:cave_air": true,
	"minecraft:void_air": true,
}

// ParseBlockState parses "id" or "id[k=v,flag,...]". A token without '=' is a
// boolean flag and maps to "true".
func ParseBlockState(state string) Block {
	open := strings.IndexByte(state, '[')
	if open < 0 {
		return Block{Name: state}
	}
	b := Block{Name: state[:open], Properties: map[string]string{}}
	props := strings.TrimRight(state[open+1:], "]")
	for _, part := range strings.Split(props, ",") {
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			b.Properties[part] = "true"
			continue
		}
		b.Properties[k] = v
	}
	return b
}

// CacheKey is the canonical identity used for texture and model caching:
// the identifier, or identifier[k1=v1,k2=v2] with keys sorted.
func (b Block) CacheKey() string {
	if len(b.Properties) == 0 {
		return b.Name
	}
	keys := make([]string, 0, len(b.Properties))
	for k := range b.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(b.Name)
	sb.WriteByte('[')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(b.Properties[k])
	}
	sb.WriteByte(']')
	return sb.String()
}

func (b Block) String() string { return b.CacheKey() }

// Equal reports whether both identifier and property mapping match.
func (b Block) Equal(o Block) bool {
	if b.Name != o.Name || len(b.Properties) != len(o.Properties) {
		return false
	}
	return maps.Equal(b.Properties, o.Properties)
}

// Namespace returns the part before ':' ("minecraft" when absent).
func (b Block) Namespace() string {
	if ns, _, ok := strings.Cut(b.Name, ":"); ok {
		return ns
	}
	return "minecraft"
}

// Path returns the identifier without its namespace.
func (b Block) Path() string {
	if _, p, ok := strings.Cut(b.Name, ":"); ok {
		return p
	}
	return b.Name
}

func (b Block) IsAir() bool {
	return strings.HasSuffix(b.Name, ":air") || b.Name == "air" || b.Name == "minecraft:air"
}

// IsTransparent reports whether faces behind this block stay visible.
func (b Block) IsTransparent() bool {
	if b.IsAir() {
		return true
	}
	for _, p := range transparentPrefixes {
		if strings.HasPrefix(b.Name, p) {
			return true
		}
	}
	return transparentNames[b.Name]
}
