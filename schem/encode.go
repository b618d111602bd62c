package schem

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
)

const spongeVersion = 2

// EncodeOptions selects the block-data field and outer compression.
type EncodeOptions struct {
	// Legacy writes BlockStates (int64 words) instead of BlockData.
	Legacy bool
	// Gzip wraps the NBT payload, as structure files on disk usually are.
	Gzip bool
}

type blockDataContainer struct {
	Version    int32            `nbt:"Version"`
	Width      int16            `nbt:"Width"`
	Height     int16            `nbt:"Height"`
	Length     int16            `nbt:"Length"`
	PaletteMax int32            `nbt:"PaletteMax"`
	Palette    map[string]int32 `nbt:"Palette"`
	BlockData  []byte           `nbt:"BlockData"`
}

type blockStatesContainer struct {
	Version     int32            `nbt:"Version"`
	Width       int16            `nbt:"Width"`
	Height      int16            `nbt:"Height"`
	Length      int16            `nbt:"Length"`
	PaletteMax  int32            `nbt:"PaletteMax"`
	Palette     map[string]int32 `nbt:"Palette"`
	BlockStates []int64          `nbt:"BlockStates"`
}

// EncodeStructure writes s in the container shape LoadStructureFromBytes reads.
// Palette entries with the same cache key are merged and voxels outside the
// palette are written as air.
func EncodeStructure(s *Structure, opts EncodeOptions) ([]byte, error) {
	w, h, l := s.Bounds.Size()
	if w > math.MaxInt16 || h > math.MaxInt16 || l > math.MaxInt16 {
		return nil, fmt.Errorf("schem: structure %dx%dx%d too large to encode", w, h, l)
	}

	states := make(map[string]int32, len(s.Palette))
	remap := make([]int32, len(s.Palette))
	var airID int32 = -1
	intern := func(b Block) int32 {
		key := b.CacheKey()
		if id, ok := states[key]; ok {
			return id
		}
		id := int32(len(states))
		states[key] = id
		return id
	}
	for i, b := range s.Palette {
		remap[i] = intern(b)
	}

	values := make([]int32, w*h*l)
	for i := range values {
		x := i % w
		z := (i / w) % l
		y := i / (w * l)
		id := s.Voxels[s.Index(x, y, z)]
		if id < 0 || int(id) >= len(remap) {
			if airID < 0 {
				airID = intern(Air)
			}
			values[i] = airID
			continue
		}
		values[i] = remap[id]
	}

	stream := EncodeBlockData(values, len(states))
	var v any
	if opts.Legacy {
		v = blockStatesContainer{
			Version: spongeVersion, Width: int16(w), Height: int16(h), Length: int16(l),
			PaletteMax: int32(len(states)), Palette: states, BlockStates: packLongs(stream),
		}
	} else {
		v = blockDataContainer{
			Version: spongeVersion, Width: int16(w), Height: int16(h), Length: int16(l),
			PaletteMax: int32(len(states)), Palette: states, BlockData: stream,
		}
	}

	var buf bytes.Buffer
	if !opts.Gzip {
		if err := nbt.NewEncoder(&buf).Encode(v, "Schematic"); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	zw := gzip.NewWriter(&buf)
	if err := nbt.NewEncoder(zw).Encode(v, "Schematic"); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveStructure writes a gzip-compressed structure file.
func SaveStructure(s *Structure, path string) error {
	data, err := EncodeStructure(s, EncodeOptions{Gzip: true})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
