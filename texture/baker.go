package texture

import (
	"bytes"
	"crypto/sha1"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"log"

	"github.com/voxelsplace/schemglb/schem"
)

// Baker turns a block descriptor into a unit cube. Implementations store any
// image they resolve in c and report false when they cannot handle b.
type Baker interface {
	Bake(b schem.Block, c *Cache) (*BakedBlock, bool)
}

// PackBaker looks textures up in resource packs, first source first.
type PackBaker struct {
	Sources []Source
}

func (p *PackBaker) Bake(b schem.Block, c *Cache) (*BakedBlock, bool) {
	ns, base := b.Namespace(), b.Path()
	var keys [6]string
	first := ""
	for _, f := range Faces {
		for _, name := range candidates(base, f) {
			key := normalizeTexturePath(ns, name)
			if p.load(key, c) {
				keys[f] = key
				break
			}
		}
		if first == "" {
			first = keys[f]
		}
	}
	if first == "" {
		return nil, false
	}
	for f := range keys {
		if keys[f] == "" {
			keys[f] = first
		}
	}
	keys = orient(keys, b.Properties["axis"])
	return &BakedBlock{Faces: unitCube(keys), TextureKey: first}, true
}

// load resolves key into c, remembering misses so each path is read once.
func (p *PackBaker) load(key string, c *Cache) bool {
	if _, ok := c.images[key]; ok {
		return true
	}
	if _, ok := c.missing[key]; ok {
		return false
	}
	for _, src := range p.Sources {
		for _, path := range packPaths(key) {
			data, ok := src.ReadBytes(path)
			if !ok {
				continue
			}
			img, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				log.Printf("texture: skipping %s: %v", path, err)
				continue
			}
			c.putImage(key, img)
			return true
		}
	}
	c.missing[key] = struct{}{}
	return false
}

// orient lays the end texture on the faces perpendicular to a log-style axis.
func orient(keys [6]string, axis string) [6]string {
	var pos, neg Face
	switch axis {
	case "x":
		pos, neg = East, West
	case "z":
		pos, neg = South, North
	default:
		return keys
	}
	top, bottom, side := keys[Up], keys[Down], keys[East]
	var out [6]string
	for _, f := range Faces {
		out[f] = side
	}
	out[pos], out[neg] = top, bottom
	return out
}

// FallbackTileSize is the edge length of synthesized color tiles.
const FallbackTileSize = 16

// FallbackBaker paints every block a solid color derived from its cache key.
type FallbackBaker struct{}

func (FallbackBaker) Bake(b schem.Block, c *Cache) (*BakedBlock, bool) {
	key := b.CacheKey()
	if _, ok := c.images[key]; !ok {
		tile := image.NewNRGBA(image.Rect(0, 0, FallbackTileSize, FallbackTileSize))
		draw.Draw(tile, tile.Bounds(), image.NewUniform(KeyColor(key)), image.Point{}, draw.Src)
		c.putImage(key, tile)
	}
	keys := [6]string{key, key, key, key, key, key}
	return &BakedBlock{Faces: unitCube(keys), TextureKey: key}, true
}

// KeyColor derives an opaque color from the first three bytes of SHA-1(key),
// each lifted by 64 so dark hashes stay visible.
func KeyColor(key string) color.NRGBA {
	sum := sha1.Sum([]byte(key))
	return color.NRGBA{R: sum[0] + 64, G: sum[1] + 64, B: sum[2] + 64, A: 255}
}

// Resolver bakes blocks through its bakers in order and memoizes the result
// per cache key. One Resolver serves one pipeline run.
type Resolver struct {
	bakers []Baker
	cache  *Cache
}

// NewResolver builds a resolver that tries the given resource packs before
// falling back to hashed colors.
func NewResolver(sources ...Source) *Resolver {
	r := &Resolver{cache: NewCache()}
	if len(sources) > 0 {
		r.bakers = append(r.bakers, &PackBaker{Sources: sources})
	}
	r.bakers = append(r.bakers, FallbackBaker{})
	return r
}

func (r *Resolver) Bake(b schem.Block) *BakedBlock {
	key := b.CacheKey()
	if bb, ok := r.cache.Block(key); ok {
		return bb
	}
	for _, baker := range r.bakers {
		if bb, ok := baker.Bake(b, r.cache); ok {
			r.cache.putBlock(key, bb)
			return bb
		}
	}
	bb, _ := FallbackBaker{}.Bake(b, r.cache)
	r.cache.putBlock(key, bb)
	return bb
}

func (r *Resolver) Cache() *Cache { return r.cache }
