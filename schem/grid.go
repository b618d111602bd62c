package schem

// Bounds holds inclusive min/max voxel coordinates per axis.
type Bounds struct {
	MinX, MinY, MinZ int
	MaxX, MaxY, MaxZ int
}

// BoundsFromSize returns bounds anchored at the origin for a w*h*l grid.
func BoundsFromSize(w, h, l int) Bounds {
	return Bounds{MaxX: w - 1, MaxY: h - 1, MaxZ: l - 1}
}

// Size returns max-min+1 per axis, never negative.
func (b Bounds) Size() (w, h, l int) {
	return max(b.MaxX-b.MinX+1, 0), max(b.MaxY-b.MinY+1, 0), max(b.MaxZ-b.MinZ+1, 0)
}

// Structure is a decoded voxel structure. Voxels is dense with shape
// (width, height, length) indexed [x][y][z]; values outside the palette are air.
type Structure struct {
	Bounds  Bounds
	Palette []Block
	Voxels  []int32
}

// NewStructure allocates an all-air grid (every voxel set to -1).
func NewStructure(w, h, l int, palette []Block) *Structure {
	s := &Structure{Bounds: BoundsFromSize(w, h, l), Palette: palette}
	s.Voxels = make([]int32, max(w, 0)*max(h, 0)*max(l, 0))
	for i := range s.Voxels {
		s.Voxels[i] = -1
	}
	return s
}

func (s *Structure) Width() int  { w, _, _ := s.Bounds.Size(); return w }
func (s *Structure) Height() int { _, h, _ := s.Bounds.Size(); return h }
func (s *Structure) Length() int { _, _, l := s.Bounds.Size(); return l }

// Index returns the flat offset of (x,y,z). Callers check bounds first.
func (s *Structure) Index(x, y, z int) int {
	_, h, l := s.Bounds.Size()
	return (x*h+y)*l + z
}

// Contains reports whether (x,y,z) lies inside the grid.
func (s *Structure) Contains(x, y, z int) bool {
	w, h, l := s.Bounds.Size()
	return x >= 0 && x < w && y >= 0 && y < h && z >= 0 && z < l
}

// At returns the palette id at (x,y,z), or -1 outside the grid.
func (s *Structure) At(x, y, z int) int32 {
	if !s.Contains(x, y, z) {
		return -1
	}
	return s.Voxels[s.Index(x, y, z)]
}

// Set stores a palette id at (x,y,z); out-of-grid writes are ignored.
func (s *Structure) Set(x, y, z int, id int32) {
	if s.Contains(x, y, z) {
		s.Voxels[s.Index(x, y, z)] = id
	}
}

// Entry resolves a palette id; invalid ids resolve to Air.
func (s *Structure) Entry(id int32) Block {
	if id < 0 || int(id) >= len(s.Palette) {
		return Air
	}
	return s.Palette[id]
}

func (s *Structure) BlockAt(x, y, z int) Block { return s.Entry(s.At(x, y, z)) }

// WithPalette returns a Structure sharing bounds and grid with a replaced palette.
func (s *Structure) WithPalette(palette []Block) *Structure {
	return &Structure{Bounds: s.Bounds, Palette: palette, Voxels: s.Voxels}
}
