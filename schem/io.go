package schem

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
)

var (
	// ErrNotFound is returned when the structure input does not exist.
	ErrNotFound = errors.New("schem: structure not found")
	// ErrFormat is returned when the container carries neither BlockData nor
	// BlockStates, or declares a grid larger than MaxVoxels.
	ErrFormat = errors.New("schem: malformed structure")
)

// MaxVoxels caps the declared grid size of a decoded structure.
const MaxVoxels = 1 << 27

// container mirrors the compound fields read from a structure file.
type container struct {
	Width       int32            `nbt:"Width"`
	Height      int32            `nbt:"Height"`
	Length      int32            `nbt:"Length"`
	Palette     map[string]int32 `nbt:"Palette"`
	BlockData   nbt.RawMessage   `nbt:"BlockData"`
	BlockStates nbt.RawMessage   `nbt:"BlockStates"`
}

// LoadStructure reads and decodes a structure file from disk.
func LoadStructure(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}
	return LoadStructureFromBytes(data)
}

// LoadStructureFromBytes decodes a structure container held in memory.
// Gzip-compressed input is inflated first.
func LoadStructureFromBytes(data []byte) (*Structure, error) {
	if len(data) == 0 {
		return nil, ErrNotFound
	}
	var r io.Reader = bytes.NewReader(data)
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("schem: gzip: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	var c container
	if _, err := nbt.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("schem: decode nbt: %w", err)
	}
	return c.structure()
}

func (c *container) structure() (*Structure, error) {
	w, h, l := max(int(c.Width), 0), max(int(c.Height), 0), max(int(c.Length), 0)

	var stream []byte
	switch {
	case c.BlockData.Data != nil:
		if err := c.BlockData.Unmarshal(&stream); err != nil {
			return nil, fmt.Errorf("schem: BlockData: %w", err)
		}
	case c.BlockStates.Data != nil:
		var words []int64
		if err := c.BlockStates.Unmarshal(&words); err != nil {
			return nil, fmt.Errorf("schem: BlockStates: %w", err)
		}
		stream = expandLongs(words)
	default:
		return nil, fmt.Errorf("%w: no BlockData or BlockStates", ErrFormat)
	}

	total, ok := voxelCount(w, h, l)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d exceeds %d voxels", ErrFormat, w, h, l, MaxVoxels)
	}
	palette := buildPalette(c.Palette)
	values := DecodeBlockData(stream, len(c.Palette), total)

	s := &Structure{Bounds: BoundsFromSize(w, h, l), Palette: palette, Voxels: make([]int32, total)}
	for i, v := range values {
		x := i % w
		z := (i / w) % l
		y := i / (w * l)
		s.Voxels[s.Index(x, y, z)] = v
	}
	return s, nil
}

// buildPalette orders entries by id. Gaps in the id range become air so that
// a voxel value always indexes its own id. Ids the bitstream cannot encode
// fall back to ascending-id order, one slot per entry.
func buildPalette(states map[string]int32) []Block {
	names := slices.Sorted(maps.Keys(states))
	limit := 1 << BitsPerBlock(len(states))
	maxID := -1
	for _, id := range states {
		maxID = max(maxID, int(id))
	}

	if maxID >= limit {
		slices.SortStableFunc(names, func(a, b string) int { return cmp.Compare(states[a], states[b]) })
		palette := make([]Block, 0, len(names))
		for _, name := range names {
			if states[name] >= 0 {
				palette = append(palette, ParseBlockState(name))
			}
		}
		return palette
	}

	palette := make([]Block, maxID+1)
	for i := range palette {
		palette[i] = Air
	}
	for _, name := range names {
		if id := states[name]; id >= 0 {
			palette[id] = ParseBlockState(name)
		}
	}
	return palette
}

// voxelCount returns w*h*l, or false when it exceeds MaxVoxels.
func voxelCount(w, h, l int) (int, bool) {
	if w == 0 || h == 0 || l == 0 {
		return 0, true
	}
	if w > MaxVoxels || h > MaxVoxels/w || l > MaxVoxels/(w*h) {
		return 0, false
	}
	return w * h * l, true
}
