package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/schemglb/atlas"
	"github.com/voxelsplace/schemglb/mesh"
)

const (
	Magic     uint32 = 0x46546C67 // "glTF"
	Version   uint32 = 2
	ChunkJSON uint32 = 0x4E4F534A // "JSON"
	ChunkBIN  uint32 = 0x004E4942 // "BIN\0"

	headerLen      = 12
	chunkHeaderLen = 8
)

// Generator is written to asset.generator.
const Generator = "schemglb"

// Result is an encoded GLB plus the bounding box of its positions.
type Result struct {
	Bytes        []byte
	Center, Size [3]float32
}

// Encode serializes mesh buffers and the atlas into a single GLB. An empty
// mesh yields a JSON-only container with no primitives.
func Encode(b *mesh.Buffers, a *atlas.Result) (*Result, error) {
	if b == nil || b.VertexCount() == 0 {
		return encodeEmpty()
	}

	var img bytes.Buffer
	if err := a.EncodePNG(&img); err != nil {
		return nil, fmt.Errorf("glb: encode atlas: %w", err)
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator

	// Buffer regions are written in this order: positions, normals, uvs, indices, image.
	posAccessor := modeler.WritePosition(doc, mesh.Vec3s(b.Positions))
	normalAccessor := modeler.WriteNormal(doc, mesh.Vec3s(b.Normals))
	uvAccessor := modeler.WriteTextureCoord(doc, mesh.Vec2s(b.UVs))
	indicesAccessor := modeler.WriteIndices(doc, b.Indices)
	imageIdx, err := modeler.WriteImage(doc, "atlas", "image/png", &img)
	if err != nil {
		return nil, fmt.Errorf("glb: write image: %w", err)
	}

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION:   posAccessor,
			gltf.NORMAL:     normalAccessor,
			gltf.TEXCOORD_0: uvAccessor,
		},
		Indices:  gltf.Index(indicesAccessor),
		Material: gltf.Index(0),
	}
	pbr := &gltf.PBRMetallicRoughness{
		BaseColorTexture: &gltf.TextureInfo{Index: 0},
		MetallicFactor:   gltf.Float(0),
		RoughnessFactor:  gltf.Float(1),
	}
	material := &gltf.Material{Name: "atlas", PBRMetallicRoughness: pbr}
	if a.Image.Opaque() {
		material.AlphaMode = gltf.AlphaOpaque
	} else {
		material.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = []*gltf.Material{material}
	doc.Samplers = []*gltf.Sampler{{
		MagFilter: gltf.MagLinear,
		MinFilter: gltf.MinLinearMipMapLinear,
		WrapS:     gltf.WrapRepeat,
		WrapT:     gltf.WrapRepeat,
	}}
	doc.Textures = []*gltf.Texture{{Sampler: gltf.Index(0), Source: gltf.Index(imageIdx)}}
	doc.Meshes = []*gltf.Mesh{{Name: "structure", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	bin := pad(doc.Buffers[0].Data, 0)
	doc.Buffers = []*gltf.Buffer{{ByteLength: len(bin)}}

	out, err := frame(doc, bin)
	if err != nil {
		return nil, err
	}
	res := &Result{Bytes: out}
	lo, hi, _ := b.Bounds()
	for i := 0; i < 3; i++ {
		res.Center[i] = (lo[i] + hi[i]) / 2
		res.Size[i] = hi[i] - lo[i]
	}
	return res, nil
}

func encodeEmpty() (*Result, error) {
	doc := gltf.NewDocument()
	doc.Asset.Generator = Generator
	doc.Buffers = []*gltf.Buffer{{ByteLength: 0}}
	doc.Meshes = []*gltf.Mesh{{Name: "structure", Primitives: []*gltf.Primitive{}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	out, err := frame(doc, nil)
	if err != nil {
		return nil, err
	}
	return &Result{Bytes: out}, nil
}

// frame writes the 12-byte header, the JSON chunk and, when bin is non-empty,
// the BIN chunk. bin must already be 4-byte aligned.
func frame(doc *gltf.Document, bin []byte) ([]byte, error) {
	js, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("glb: marshal json: %w", err)
	}
	js = pad(js, ' ')

	total := headerLen + chunkHeaderLen + len(js)
	if len(bin) > 0 {
		total += chunkHeaderLen + len(bin)
	}
	var buf bytes.Buffer
	buf.Grow(total)
	_ = binary.Write(&buf, binary.LittleEndian, [3]uint32{Magic, Version, uint32(total)})
	_ = binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(js)), ChunkJSON})
	_, _ = buf.Write(js)
	if len(bin) > 0 {
		_ = binary.Write(&buf, binary.LittleEndian, [2]uint32{uint32(len(bin)), ChunkBIN})
		_, _ = buf.Write(bin)
	}
	return buf.Bytes(), nil
}

// pad extends data with fill bytes up to a multiple of 4.
func pad(data []byte, fill byte) []byte {
	for len(data)%4 != 0 {
		data = append(data, fill)
	}
	return data
}
