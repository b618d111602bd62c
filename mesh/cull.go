package mesh

import (
	"github.com/voxelsplace/schemglb/schem"
	"github.com/voxelsplace/schemglb/texture"
)

// BlockBaker resolves one block identity to its textured unit cube.
// *texture.Resolver satisfies it.
type BlockBaker interface {
	Bake(b schem.Block) *texture.BakedBlock
}

// CullFaces walks every voxel once and keeps only the faces whose neighbor is
// transparent or outside the grid, translated to the voxel's position.
func CullFaces(s *schem.Structure, b BlockBaker) []texture.BakedFace {
	n := len(s.Palette)
	air := make([]bool, n)
	transparent := make([]bool, n)
	for i, e := range s.Palette {
		air[i] = e.IsAir()
		transparent[i] = e.IsTransparent()
	}
	baked := make([]*texture.BakedBlock, n)

	open := func(x, y, z int) bool {
		id := s.At(x, y, z)
		if id < 0 || int(id) >= n {
			return true
		}
		return transparent[id]
	}

	var faces []texture.BakedFace
	w, h, l := s.Bounds.Size()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			for z := 0; z < l; z++ {
				id := s.Voxels[s.Index(x, y, z)]
				if id < 0 || int(id) >= n || air[id] {
					continue
				}
				if baked[id] == nil {
					baked[id] = b.Bake(s.Palette[id])
				}
				for _, f := range texture.Faces {
					dx, dy, dz := f.Offset()
					if open(x+dx, y+dy, z+dz) {
						faces = append(faces, baked[id].Face(f).Offset(float32(x), float32(y), float32(z)))
					}
				}
			}
		}
	}
	return faces
}
