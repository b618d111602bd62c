package atlas

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
)

const (
	DefaultTileSize = 32
	DefaultPadding  = 6
)

// DefaultKey names the single rectangle of an atlas built from no tiles.
const DefaultKey = "default"

// Rect is a UV rectangle in [0,1] texture space.
type Rect struct {
	U0, V0, U1, V1 float32
}

// Tile is one source image to place in the atlas.
type Tile struct {
	Key   string
	Image image.Image
}

// Options controls the atlas layout. Legacy drops the padding border and the
// half-texel inset. Tiles under 2px are never inset.
type Options struct {
	TileSize int
	Padding  int
	Legacy   bool
}

func DefaultOptions() Options {
	return Options{TileSize: DefaultTileSize, Padding: DefaultPadding}
}

// Result is the packed image and the UV rectangle of every key.
type Result struct {
	Image *image.NRGBA
	Rects map[string]Rect
}

// Build packs tiles row-major in the given order on a ceil(sqrt(n)) column grid.
func Build(tiles []Tile, opts Options) *Result {
	ts := opts.TileSize
	if ts <= 0 {
		ts = DefaultTileSize
	}
	pad := max(opts.Padding, 0)
	if opts.Legacy {
		pad = 0
	}

	if len(tiles) == 0 {
		blank := image.NewNRGBA(image.Rect(0, 0, ts, ts))
		draw.Draw(blank, blank.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		return &Result{Image: blank, Rects: map[string]Rect{DefaultKey: {0, 0, 1, 1}}}
	}

	n := len(tiles)
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	rows := (n + cols - 1) / cols
	stride := ts + 2*pad
	width, height := cols*stride, rows*stride
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	rects := make(map[string]Rect, n)

	for i, t := range tiles {
		left := (i%cols)*stride + pad
		top := (i/cols)*stride + pad
		inner := image.Rect(left, top, left+ts, top+ts)
		if t.Image != nil {
			draw.NearestNeighbor.Scale(out, inner, t.Image, t.Image.Bounds(), draw.Src, nil)
		}
		if pad > 0 {
			extendEdges(out, inner, pad)
		}

		w, h := float32(width), float32(height)
		// a 1px tile has no texel center to inset to
		if opts.Legacy || ts < 2 {
			rects[t.Key] = Rect{
				U0: float32(inner.Min.X) / w, V0: float32(inner.Min.Y) / h,
				U1: float32(inner.Max.X) / w, V1: float32(inner.Max.Y) / h,
			}
			continue
		}
		rects[t.Key] = Rect{
			U0: (float32(inner.Min.X) + 0.5) / w, V0: (float32(inner.Min.Y) + 0.5) / h,
			U1: (float32(inner.Max.X) - 0.5) / w, V1: (float32(inner.Max.Y) - 0.5) / h,
		}
	}
	return &Result{Image: out, Rects: rects}
}

// extendEdges replicates the outermost pixels of inner into a pad-wide border.
func extendEdges(img *image.NRGBA, inner image.Rectangle, pad int) {
	for y := inner.Min.Y - pad; y < inner.Max.Y+pad; y++ {
		sy := min(max(y, inner.Min.Y), inner.Max.Y-1)
		for x := inner.Min.X - pad; x < inner.Max.X+pad; x++ {
			if image.Pt(x, y).In(inner) {
				continue
			}
			sx := min(max(x, inner.Min.X), inner.Max.X-1)
			img.SetNRGBA(x, y, img.NRGBAAt(sx, sy))
		}
	}
}

// EncodePNG writes the atlas image as PNG.
func (r *Result) EncodePNG(w io.Writer) error {
	return png.Encode(w, r.Image)
}
