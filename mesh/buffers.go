package mesh

import (
	"github.com/voxelsplace/schemglb/atlas"
	"github.com/voxelsplace/schemglb/texture"
)

// Buffers holds flat vertex and index data ready for encoding.
type Buffers struct {
	Positions []float32 // 3 per vertex
	Normals   []float32 // 3 per vertex
	UVs       []float32 // 2 per vertex
	Indices   []uint32
}

var quadIndices = [6]uint32{0, 1, 2, 0, 2, 3}

// Build assembles faces into buffers, remapping each face's unit UVs into the
// atlas rectangle of its texture. Faces with no rectangle are dropped.
func Build(faces []texture.BakedFace, rects map[string]atlas.Rect) *Buffers {
	b := &Buffers{
		Positions: make([]float32, 0, len(faces)*12),
		Normals:   make([]float32, 0, len(faces)*12),
		UVs:       make([]float32, 0, len(faces)*8),
		Indices:   make([]uint32, 0, len(faces)*6),
	}
	var base uint32
	for _, f := range faces {
		r, ok := rects[f.TextureKey]
		if !ok {
			continue
		}
		for i := 0; i < 4; i++ {
			b.Positions = append(b.Positions, f.Positions[i][:]...)
			b.Normals = append(b.Normals, f.Normal[:]...)
			u, v := f.UVs[i][0], f.UVs[i][1]
			b.UVs = append(b.UVs, r.U0+(r.U1-r.U0)*u, r.V0+(r.V1-r.V0)*v)
		}
		for _, idx := range quadIndices {
			b.Indices = append(b.Indices, base+idx)
		}
		base += 4
	}
	return b
}

func (b *Buffers) VertexCount() int { return len(b.Positions) / 3 }

// Bounds returns the per-axis min and max of all positions; ok is false when
// there are no vertices.
func (b *Buffers) Bounds() (lo, hi [3]float32, ok bool) {
	if len(b.Positions) < 3 {
		return lo, hi, false
	}
	copy(lo[:], b.Positions[:3])
	copy(hi[:], b.Positions[:3])
	for i := 3; i+2 < len(b.Positions); i += 3 {
		for a := 0; a < 3; a++ {
			lo[a] = min(lo[a], b.Positions[i+a])
			hi[a] = max(hi[a], b.Positions[i+a])
		}
	}
	return lo, hi, true
}

// Vec3s regroups a flat float slice into triples.
func Vec3s(flat []float32) [][3]float32 {
	out := make([][3]float32, len(flat)/3)
	for i := range out {
		out[i] = [3]float32{flat[3*i], flat[3*i+1], flat[3*i+2]}
	}
	return out
}

// Vec2s regroups a flat float slice into pairs.
func Vec2s(flat []float32) [][2]float32 {
	out := make([][2]float32, len(flat)/2)
	for i := range out {
		out[i] = [2]float32{flat[2*i], flat[2*i+1]}
	}
	return out
}
