package atlas

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func solid(c color.NRGBA, size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func tiles(n int) []Tile {
	out := make([]Tile, n)
	for i := range out {
		out[i] = Tile{
			Key:   fmt.Sprintf("minecraft:block/t%d", i),
			Image: solid(color.NRGBA{R: uint8(i * 10), G: 100, B: 200, A: 255}, 16),
		}
	}
	return out
}

func overlaps(a, b Rect) bool {
	return a.U0 < b.U1 && b.U0 < a.U1 && a.V0 < b.V1 && b.V0 < a.V1
}

func TestRectsContainedAndDisjoint(t *testing.T) {
	for _, opts := range []Options{
		{TileSize: 32, Padding: 6},
		{TileSize: 32, Padding: 6, Legacy: true},
		{TileSize: 2, Padding: 1},
		{TileSize: 1, Padding: 6},
		{TileSize: 1, Legacy: true},
	} {
		for n := 1; n <= 17; n++ {
			res := Build(tiles(n), opts)
			if len(res.Rects) != n {
				t.Fatalf("n=%d: %d rects", n, len(res.Rects))
			}
			var all []Rect
			for key, r := range res.Rects {
				if !(0 <= r.U0 && r.U0 < r.U1 && r.U1 <= 1 && 0 <= r.V0 && r.V0 < r.V1 && r.V1 <= 1) {
					t.Fatalf("%+v n=%d: %s rect %+v out of range", opts, n, key, r)
				}
				for _, o := range all {
					if overlaps(r, o) {
						t.Fatalf("%+v n=%d: %+v overlaps %+v", opts, n, r, o)
					}
				}
				all = append(all, r)
			}
		}
	}
}

func TestLayout(t *testing.T) {
	tests := []struct {
		n, w, h int
	}{
		{1, 44, 44},
		{2, 88, 44},
		{4, 88, 88},
		{5, 132, 88},
		{10, 176, 132},
	}
	for _, tt := range tests {
		res := Build(tiles(tt.n), DefaultOptions())
		if b := res.Image.Bounds(); b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("n=%d: atlas %dx%d, want %dx%d", tt.n, b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}
}

func TestHalfTexelInset(t *testing.T) {
	res := Build(tiles(1), DefaultOptions())
	r := res.Rects["minecraft:block/t0"]
	want := Rect{U0: 6.5 / 44, V0: 6.5 / 44, U1: 37.5 / 44, V1: 37.5 / 44}
	if r != want {
		t.Fatalf("rect = %+v, want %+v", r, want)
	}

	legacy := Build(tiles(2), Options{TileSize: 32, Legacy: true})
	if got := legacy.Rects["minecraft:block/t1"]; got != (Rect{U0: 0.5, V0: 0, U1: 1, V1: 1}) {
		t.Fatalf("legacy rect = %+v", got)
	}
}

func TestPaddingReplicatesEdges(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	red := color.NRGBA{R: 255, A: 255}
	green := color.NRGBA{G: 255, A: 255}
	img.SetNRGBA(0, 0, red)
	img.SetNRGBA(1, 0, green)
	img.SetNRGBA(0, 1, red)
	img.SetNRGBA(1, 1, green)

	res := Build([]Tile{{Key: "k", Image: img}}, Options{TileSize: 4, Padding: 2})
	out := res.Image
	if out.Bounds().Dx() != 8 {
		t.Fatalf("atlas width = %d", out.Bounds().Dx())
	}
	checks := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, red},   // corner
		{0, 4, red},   // left border
		{7, 4, green}, // right border
		{3, 0, red},   // top border over left half
		{4, 7, green}, // bottom border over right half
		{2, 2, red},
		{5, 5, green},
	}
	for _, c := range checks {
		if got := out.NRGBAAt(c.x, c.y); got != c.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestEmptyAtlas(t *testing.T) {
	res := Build(nil, DefaultOptions())
	if len(res.Rects) != 1 || res.Rects[DefaultKey] != (Rect{0, 0, 1, 1}) {
		t.Fatalf("rects = %v", res.Rects)
	}
	if b := res.Image.Bounds(); b.Dx() != DefaultTileSize || b.Dy() != DefaultTileSize {
		t.Fatalf("blank tile = %v", b)
	}
	if got := res.Image.NRGBAAt(5, 5); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Fatalf("blank tile color = %v", got)
	}
}

func TestEncodePNG(t *testing.T) {
	res := Build(tiles(3), DefaultOptions())
	var buf bytes.Buffer
	if err := res.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds() != res.Image.Bounds() {
		t.Fatalf("bounds = %v, want %v", img.Bounds(), res.Image.Bounds())
	}
}

func TestSinglePixelTilesKeepPositiveArea(t *testing.T) {
	res := Build([]Tile{{Key: "a"}}, Options{TileSize: 1})
	r := res.Rects["a"]
	if r != (Rect{0, 0, 1, 1}) {
		t.Fatalf("rect = %+v, want the whole 1px tile", r)
	}
}
