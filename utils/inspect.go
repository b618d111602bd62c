package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/voxelsplace/schemglb/glb"
)

// RunInspect validates a .glb file and prints a summary of its contents to w.
func RunInspect(inPath string, w io.Writer) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	c, err := glb.ReadContainer(data)
	if err != nil {
		return err
	}
	doc, err := c.Document()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "glTF v%d, %d bytes (JSON %d, BIN %d)\n", c.Version, c.Length, len(c.JSON), len(c.BIN))
	if doc.Asset.Generator != "" {
		fmt.Fprintf(w, "generator: %s\n", doc.Asset.Generator)
	}
	fmt.Fprintf(w, "buffers: %d, bufferViews: %d, accessors: %d\n", len(doc.Buffers), len(doc.BufferViews), len(doc.Accessors))
	for _, m := range doc.Meshes {
		fmt.Fprintf(w, "mesh %q: %d primitives\n", m.Name, len(m.Primitives))
		for _, p := range m.Primitives {
			if idx, ok := p.Attributes["POSITION"]; ok && int(idx) < len(doc.Accessors) {
				a := doc.Accessors[idx]
				fmt.Fprintf(w, "  vertices: %d, min %v, max %v\n", a.Count, a.Min, a.Max)
			}
			if p.Indices != nil && int(*p.Indices) < len(doc.Accessors) {
				fmt.Fprintf(w, "  triangles: %d\n", doc.Accessors[*p.Indices].Count/3)
			}
		}
	}
	for _, m := range doc.Materials {
		fmt.Fprintf(w, "material %q: alpha %v\n", m.Name, m.AlphaMode)
	}
	for _, img := range doc.Images {
		fmt.Fprintf(w, "image %q: %s\n", img.Name, img.MimeType)
	}
	return nil
}
