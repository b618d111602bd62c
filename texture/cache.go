package texture

import "image"

// Texture is one decoded image addressed by its texture key.
type Texture struct {
	Key   string
	Image image.Image
}

// Cache holds everything resolved during one pipeline run: baked blocks by
// cache key and images by texture key. Entries are never replaced once set.
// A Cache is not safe for concurrent use.
type Cache struct {
	blocks  map[string]*BakedBlock
	images  map[string]image.Image
	order   []string
	missing map[string]struct{}
}

func NewCache() *Cache {
	return &Cache{
		blocks:  make(map[string]*BakedBlock),
		images:  make(map[string]image.Image),
		missing: make(map[string]struct{}),
	}
}

func (c *Cache) Block(cacheKey string) (*BakedBlock, bool) {
	b, ok := c.blocks[cacheKey]
	return b, ok
}

func (c *Cache) putBlock(cacheKey string, b *BakedBlock) {
	if _, ok := c.blocks[cacheKey]; !ok {
		c.blocks[cacheKey] = b
	}
}

func (c *Cache) Image(key string) (image.Image, bool) {
	img, ok := c.images[key]
	return img, ok
}

func (c *Cache) putImage(key string, img image.Image) {
	if _, ok := c.images[key]; ok {
		return
	}
	c.images[key] = img
	c.order = append(c.order, key)
}

// Textures lists cached images in the order they were first resolved.
func (c *Cache) Textures() []Texture {
	out := make([]Texture, len(c.order))
	for i, k := range c.order {
		out[i] = Texture{Key: k, Image: c.images[k]}
	}
	return out
}

// Blocks is the number of distinct baked block identities.
func (c *Cache) Blocks() int { return len(c.blocks) }
