package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"log"
	"maps"
	"math"
	"slices"

	"github.com/voxelsplace/schemglb/cache"
	"github.com/voxelsplace/schemglb/config"
	"github.com/voxelsplace/schemglb/glb"
	"github.com/voxelsplace/schemglb/schem"
)

// PreviewOptions are the viewer settings passed through to the renderer.
// Angles are in radians.
type PreviewOptions struct {
	SunAzimuth       float64
	SunElevation     float64
	MaxDPR           float64
	RenderScale      float64
	MaxDrawDistance  float64
	ShowGrid         bool
	Wireframe        bool
	AmbientOcclusion bool
}

// PreviewOptionsFromConfig converts the configured viewer settings, given in
// degrees.
func PreviewOptionsFromConfig(v config.ViewerConfig) PreviewOptions {
	return PreviewOptions{
		SunAzimuth:       v.SunAzimuth * math.Pi / 180,
		SunElevation:     v.SunElevation * math.Pi / 180,
		MaxDPR:           v.MaxDPR,
		RenderScale:      v.RenderScale,
		MaxDrawDistance:  v.MaxDrawDistance,
		ShowGrid:         v.ShowGrid,
		Wireframe:        v.Wireframe,
		AmbientOcclusion: v.AmbientOcclusion,
	}
}

// PreviewPayload is an encoded asset ready for a browser viewer.
type PreviewPayload struct {
	Base64GLB string
	Center    [3]float32
	Size      [3]float32
}

type ViewerBounds struct {
	Center [3]float32 `json:"center"`
	Size   [3]float32 `json:"size"`
}

// ViewerParams is everything a browser viewer needs to display one asset.
type ViewerParams struct {
	GLB              string       `json:"base64_glb"`
	SunAz            float64      `json:"sunAz"`
	SunEl            float64      `json:"sunEl"`
	MaxDPR           float64      `json:"maxDPR"`
	RenderScale      float64      `json:"renderScale"`
	MaxDistance      float64      `json:"maxDistance"`
	ShowGrid         bool         `json:"showGrid"`
	Wireframe        bool         `json:"wireframe"`
	AmbientOcclusion bool         `json:"ambientOcclusion"`
	Bounds           ViewerBounds `json:"bounds"`
}

const glbDataURL = "data:model/gltf-binary;base64,"

func NewPreviewPayload(glbBytes []byte, center, size [3]float32) *PreviewPayload {
	return &PreviewPayload{
		Base64GLB: base64.StdEncoding.EncodeToString(glbBytes),
		Center:    center,
		Size:      size,
	}
}

func (p *PreviewPayload) ViewerParams(o PreviewOptions) ViewerParams {
	return ViewerParams{
		GLB:              glbDataURL + p.Base64GLB,
		SunAz:            o.SunAzimuth,
		SunEl:            o.SunElevation,
		MaxDPR:           o.MaxDPR,
		RenderScale:      o.RenderScale,
		MaxDistance:      o.MaxDrawDistance,
		ShowGrid:         o.ShowGrid,
		Wireframe:        o.Wireframe,
		AmbientOcclusion: o.AmbientOcclusion,
		Bounds:           ViewerBounds{Center: p.Center, Size: p.Size},
	}
}

// BuildPreview converts a structure and an optional zipped resource pack into
// a preview payload.
func BuildPreview(schemBytes, packBytes []byte, opts Options) (*PreviewPayload, error) {
	out, err := Convert(schemBytes, [][]byte{packBytes}, opts)
	if err != nil {
		return nil, err
	}
	return NewPreviewPayload(out.Asset.Bytes, out.Asset.Center, out.Asset.Size), nil
}

// Service builds previews for a host and deduplicates identical requests
// through an optional content-addressed cache. Safe for concurrent use.
type Service struct {
	opts  Options
	cache *cache.Cache
}

// NewService returns a service; c may be nil to disable caching.
func NewService(opts Options, c *cache.Cache) *Service {
	return &Service{opts: opts, cache: c}
}

func (s *Service) key(schemBytes, packBytes []byte) uint64 {
	a := s.opts.Atlas
	return cache.Key(schemBytes, packBytes,
		[]byte(fmt.Sprintf("%d/%d/%t", a.TileSize, a.Padding, a.Legacy)),
		normalizerKey(s.opts.Normalizer))
}

// normalizerKey identifies a normalizer for cache keys. Alias tables are
// listed in sorted order; other normalizers are identified by type.
func normalizerKey(n schem.Normalizer) []byte {
	switch n := n.(type) {
	case nil:
		return nil
	case schem.AliasNormalizer:
		var b bytes.Buffer
		for _, k := range slices.Sorted(maps.Keys(n)) {
			fmt.Fprintf(&b, "%s=%s\n", k, n[k])
		}
		return b.Bytes()
	}
	return []byte(fmt.Sprintf("%T", n))
}

// Preview returns the payload for one request. ctx is checked before work
// starts; a run in progress is not interrupted.
func (s *Service) Preview(ctx context.Context, schemBytes, packBytes []byte) (*PreviewPayload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := CheckSize(len(schemBytes), s.opts); err != nil {
		return nil, err
	}

	var key uint64
	if s.cache != nil {
		key = s.key(schemBytes, packBytes)
		if data, ok := s.cache.Get(key); ok {
			if p, err := decodeCached(data); err == nil {
				return p, nil
			}
		}
	}

	out, err := Convert(schemBytes, [][]byte{packBytes}, s.opts)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Put(key, encodeCached(out)); err != nil {
			log.Printf("api: cache put: %v", err)
		}
	}
	return NewPreviewPayload(out.Asset.Bytes, out.Asset.Center, out.Asset.Size), nil
}

// Cached entries hold center and size ahead of the GLB bytes.
func encodeCached(out *Output) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, out.Asset.Center)
	_ = binary.Write(&buf, binary.LittleEndian, out.Asset.Size)
	_, _ = buf.Write(out.Asset.Bytes)
	return buf.Bytes()
}

// CachedAsset decodes a cache entry written by Service.
func CachedAsset(data []byte) (*glb.Result, error) {
	r := bytes.NewReader(data)
	res := &glb.Result{}
	if err := binary.Read(r, binary.LittleEndian, &res.Center); err != nil {
		return nil, fmt.Errorf("cached asset: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &res.Size); err != nil {
		return nil, fmt.Errorf("cached asset: %w", err)
	}
	res.Bytes = data[len(data)-r.Len():]
	return res, nil
}

func decodeCached(data []byte) (*PreviewPayload, error) {
	res, err := CachedAsset(data)
	if err != nil {
		return nil, err
	}
	return NewPreviewPayload(res.Bytes, res.Center, res.Size), nil
}
