package glb

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image/png"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/schemglb/atlas"
	"github.com/voxelsplace/schemglb/mesh"
	"github.com/voxelsplace/schemglb/schem"
	"github.com/voxelsplace/schemglb/texture"
)

func encodeStructure(t *testing.T, s *schem.Structure) *Result {
	t.Helper()
	r := texture.NewResolver()
	faces := mesh.CullFaces(s, r)
	var tiles []atlas.Tile
	for _, tx := range r.Cache().Textures() {
		tiles = append(tiles, atlas.Tile{Key: tx.Key, Image: tx.Image})
	}
	a := atlas.Build(tiles, atlas.DefaultOptions())
	res, err := Encode(mesh.Build(faces, a.Rects), a)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return res
}

func singleStone() *schem.Structure {
	s := schem.NewStructure(1, 1, 1, []schem.Block{schem.Air, {Name: "minecraft:stone"}})
	s.Set(0, 0, 0, 1)
	return s
}

func rawJSON(t *testing.T, c *Container) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(c.JSON, &m); err != nil {
		t.Fatalf("json: %v", err)
	}
	return m
}

func TestSingleBlockScenario(t *testing.T) {
	res := encodeStructure(t, singleStone())
	if res.Center != [3]float32{0.5, 0.5, 0.5} || res.Size != [3]float32{1, 1, 1} {
		t.Fatalf("center = %v, size = %v", res.Center, res.Size)
	}

	c, err := ReadContainer(res.Bytes)
	if err != nil {
		t.Fatalf("ReadContainer: %v", err)
	}
	if c.BIN == nil || len(c.BIN)%4 != 0 || len(c.JSON)%4 != 0 {
		t.Fatalf("chunk lengths json=%d bin=%d", len(c.JSON), len(c.BIN))
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(res.Bytes)).Decode(doc); err != nil {
		t.Fatalf("gltf decode: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("meshes = %d", len(doc.Meshes))
	}
	prim := doc.Meshes[0].Primitives[0]
	for _, attr := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0} {
		if _, ok := prim.Attributes[attr]; !ok {
			t.Errorf("missing attribute %s", attr)
		}
	}
	if got := doc.Accessors[prim.Attributes[gltf.POSITION]].Count; got != 24 {
		t.Errorf("position count = %d, want 24", got)
	}
	if prim.Indices == nil || doc.Accessors[*prim.Indices].Count != 36 {
		t.Errorf("index accessor = %v", prim.Indices)
	}
	if len(doc.Materials) != 1 || doc.Materials[0].PBRMetallicRoughness.BaseColorTexture == nil {
		t.Fatal("material has no base color texture")
	}
	if len(doc.Images) != 1 || doc.Images[0].MimeType != "image/png" {
		t.Fatalf("images = %v", doc.Images)
	}
	if doc.Samplers[0].MagFilter != gltf.MagLinear || doc.Samplers[0].MinFilter != gltf.MinLinearMipMapLinear {
		t.Fatalf("sampler = %+v", doc.Samplers[0])
	}
}

func TestBufferLayout(t *testing.T) {
	res := encodeStructure(t, singleStone())
	c, err := ReadContainer(res.Bytes)
	if err != nil {
		t.Fatalf("ReadContainer: %v", err)
	}
	m := rawJSON(t, c)
	views := m["bufferViews"].([]any)
	if len(views) != 5 {
		t.Fatalf("bufferViews = %d, want 5", len(views))
	}
	wantTargets := []float64{34962, 34962, 34962, 34963, 0}
	prevEnd := 0.0
	for i, v := range views {
		view := v.(map[string]any)
		off, _ := view["byteOffset"].(float64)
		n := view["byteLength"].(float64)
		if int(off)%4 != 0 || off < prevEnd {
			t.Errorf("view %d offset %v (prev end %v)", i, off, prevEnd)
		}
		prevEnd = off + n
		target, _ := view["target"].(float64)
		if target != wantTargets[i] {
			t.Errorf("view %d target = %v, want %v", i, target, wantTargets[i])
		}
	}
	for i, n := range []float64{24 * 12, 24 * 12, 24 * 8, 36 * 4} {
		if got := views[i].(map[string]any)["byteLength"].(float64); got != n {
			t.Errorf("view %d length = %v, want %v", i, got, n)
		}
	}
	if int(prevEnd) > len(c.BIN) {
		t.Fatalf("views end at %v past BIN chunk of %d", prevEnd, len(c.BIN))
	}
	buf := m["buffers"].([]any)[0].(map[string]any)
	if int(buf["byteLength"].(float64)) != len(c.BIN) {
		t.Fatalf("buffer byteLength = %v, BIN = %d", buf["byteLength"], len(c.BIN))
	}

	img := views[4].(map[string]any)
	off, _ := img["byteOffset"].(float64)
	pngData := c.BIN[int(off) : int(off)+int(img["byteLength"].(float64))]
	if _, err := png.Decode(bytes.NewReader(pngData)); err != nil {
		t.Fatalf("embedded atlas: %v", err)
	}

	pos := m["accessors"].([]any)[0].(map[string]any)
	if len(pos["min"].([]any)) != 3 || len(pos["max"].([]any)) != 3 {
		t.Fatalf("position accessor bounds = %v %v", pos["min"], pos["max"])
	}
}

func TestEmptyMesh(t *testing.T) {
	s := schem.NewStructure(2, 2, 2, []schem.Block{schem.Air})
	res := encodeStructure(t, s)
	if res.Center != ([3]float32{}) || res.Size != ([3]float32{}) {
		t.Fatalf("center = %v, size = %v", res.Center, res.Size)
	}
	c, err := ReadContainer(res.Bytes)
	if err != nil {
		t.Fatalf("ReadContainer: %v", err)
	}
	if c.BIN != nil {
		t.Fatalf("empty mesh has a %d byte BIN chunk", len(c.BIN))
	}
	m := rawJSON(t, c)
	if views, ok := m["bufferViews"].([]any); ok && len(views) != 0 {
		t.Fatalf("bufferViews = %v", views)
	}
	if acc, ok := m["accessors"].([]any); ok && len(acc) != 0 {
		t.Fatalf("accessors = %v", acc)
	}
	if n := m["buffers"].([]any)[0].(map[string]any)["byteLength"]; n != nil && n.(float64) != 0 {
		t.Fatalf("buffer byteLength = %v", n)
	}
	meshes := m["meshes"].([]any)
	if prims, _ := meshes[0].(map[string]any)["primitives"].([]any); len(prims) != 0 {
		t.Fatalf("primitives = %v", prims)
	}
	doc, err := c.Document()
	if err != nil || len(doc.Meshes) != 1 {
		t.Fatalf("Document: %v", err)
	}

	if res, err := Encode(nil, nil); err != nil || len(res.Bytes) == 0 {
		t.Fatalf("Encode(nil) = %v", err)
	}
}

func TestContainerIntegrity(t *testing.T) {
	structures := []*schem.Structure{singleStone()}
	big := schem.NewStructure(5, 3, 4, []schem.Block{{Name: "minecraft:stone"}, {Name: "minecraft:glass"}, {Name: "minecraft:oak_planks"}})
	for i := range big.Voxels {
		big.Voxels[i] = int32(i%4) - 1
	}
	structures = append(structures, big, schem.NewStructure(1, 1, 1, nil))
	for i, s := range structures {
		data := encodeStructure(t, s).Bytes
		if got := binary.LittleEndian.Uint32(data[8:]); int(got) != len(data) {
			t.Errorf("structure %d: declared %d, actual %d", i, got, len(data))
		}
		if binary.LittleEndian.Uint32(data[0:]) != Magic || binary.LittleEndian.Uint32(data[4:]) != 2 {
			t.Errorf("structure %d: bad header", i)
		}
		jsonLen := binary.LittleEndian.Uint32(data[12:])
		if jsonLen%4 != 0 || binary.LittleEndian.Uint32(data[16:]) != ChunkJSON {
			t.Errorf("structure %d: json chunk length %d", i, jsonLen)
		}
		if rest := data[20+jsonLen:]; len(rest) > 0 {
			if n := binary.LittleEndian.Uint32(rest); n%4 != 0 || binary.LittleEndian.Uint32(rest[4:]) != ChunkBIN {
				t.Errorf("structure %d: bin chunk length %d", i, n)
			}
		}
		if _, err := ReadContainer(data); err != nil {
			t.Errorf("structure %d: %v", i, err)
		}
	}
}

func TestReadContainerRejects(t *testing.T) {
	good := encodeStructure(t, singleStone()).Bytes
	corrupt := func(f func([]byte)) []byte {
		b := append([]byte(nil), good...)
		f(b)
		return b
	}
	tests := map[string][]byte{
		"short":     good[:10],
		"magic":     corrupt(func(b []byte) { b[0] = 'x' }),
		"version":   corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[4:], 1) }),
		"length":    corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[8:], 7) }),
		"truncated": good[:len(good)-4],
		"chunk":     corrupt(func(b []byte) { binary.LittleEndian.PutUint32(b[12:], 3) }),
	}
	for name, data := range tests {
		if _, err := ReadContainer(data); !errors.Is(err, ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", name, err)
		}
	}
}

func TestDocumentReferences(t *testing.T) {
	res := encodeStructure(t, singleStone())
	c, err := ReadContainer(res.Bytes)
	if err != nil {
		t.Fatalf("ReadContainer: %v", err)
	}
	doc, err := c.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if len(doc.Scenes) != 1 || len(doc.Scenes[0].Nodes) != 1 || doc.Scenes[0].Nodes[0] != 0 {
		t.Fatalf("scene nodes = %v", doc.Scenes)
	}
	if doc.Nodes[0].Mesh == nil || *doc.Nodes[0].Mesh != 0 {
		t.Fatalf("node mesh = %v", doc.Nodes[0].Mesh)
	}
	if len(doc.Buffers) != 1 || doc.Buffers[0].ByteLength != len(c.BIN) {
		t.Fatalf("buffer byteLength = %d, BIN = %d", doc.Buffers[0].ByteLength, len(c.BIN))
	}
	tex := doc.Textures[0]
	if tex.Source == nil || *tex.Source != 0 || tex.Sampler == nil || *tex.Sampler != 0 {
		t.Fatalf("texture = %+v", tex)
	}
	prim := doc.Meshes[0].Primitives[0]
	seen := map[int]bool{}
	for _, attr := range []string{gltf.POSITION, gltf.NORMAL, gltf.TEXCOORD_0} {
		seen[prim.Attributes[attr]] = true
	}
	seen[*prim.Indices] = true
	if len(seen) != 4 || prim.Material == nil || *prim.Material != 0 {
		t.Fatalf("primitive references = %v, material %v", prim.Attributes, prim.Material)
	}
}
