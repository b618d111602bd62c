package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression selects how entry payloads are stored.
type Compression uint8

const (
	CompNone Compression = 0
	CompZlib Compression = 1
	CompZstd Compression = 2
)

func ParseCompression(s string) (Compression, error) {
	switch s {
	case "none", "":
		return CompNone, nil
	case "zlib":
		return CompZlib, nil
	case "zstd":
		return CompZstd, nil
	}
	return 0, fmt.Errorf("cache: unknown compression %q", s)
}

const (
	packMagic   = "GLBCACHE"
	packVersion = 1
)

// ErrCorrupt reports a cache file that cannot be parsed.
var ErrCorrupt = errors.New("cache: corrupt pack")

// Key hashes the inputs of one pipeline run. Each part is length-prefixed so
// moving bytes between parts changes the key.
func Key(parts ...[]byte) uint64 {
	d := xxhash.New()
	var n [8]byte
	for _, p := range parts {
		binary.LittleEndian.PutUint64(n[:], uint64(len(p)))
		_, _ = d.Write(n[:])
		_, _ = d.Write(p)
	}
	return d.Sum64()
}

type entry struct {
	comp    Compression
	payload []byte
}

// Cache is a bounded, content-addressed store of encoded outputs. Least
// recently used entries are evicted first. Safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	comp    Compression
	max     int
	entries map[uint64]entry
	order   []uint64 // oldest first

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New returns a cache holding at most maxEntries entries (0 means unbounded).
func New(maxEntries int, comp Compression) (*Cache, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Cache{comp: comp, max: maxEntries, entries: make(map[uint64]entry), enc: enc, dec: dec}, nil
}

func (c *Cache) Get(key uint64) ([]byte, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		c.touch(key)
	}
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	data, err := c.decompress(e)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Put(key uint64, data []byte) error {
	payload, err := c.compress(c.comp, data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insert(key, entry{comp: c.comp, payload: payload})
	return nil
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys lists the stored keys, least recently used first.
func (c *Cache) Keys() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

func (c *Cache) insert(key uint64, e entry) {
	if _, ok := c.entries[key]; ok {
		c.touch(key)
	} else {
		c.order = append(c.order, key)
	}
	c.entries[key] = e
	for c.max > 0 && len(c.order) > c.max {
		delete(c.entries, c.order[0])
		c.order = c.order[1:]
	}
}

func (c *Cache) touch(key uint64) {
	if i := slices.Index(c.order, key); i >= 0 {
		c.order = append(slices.Delete(c.order, i, i+1), key)
	}
}

func (c *Cache) compress(comp Compression, data []byte) ([]byte, error) {
	switch comp {
	case CompNone:
		return slices.Clone(data), nil
	case CompZlib:
		var buf bytes.Buffer
		zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
		if _, err := zw.Write(data); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CompZstd:
		return c.enc.EncodeAll(data, nil), nil
	}
	return nil, fmt.Errorf("cache: unsupported compression %d", comp)
}

func (c *Cache) decompress(e entry) ([]byte, error) {
	switch e.comp {
	case CompNone:
		return slices.Clone(e.payload), nil
	case CompZlib:
		zr, err := zlib.NewReader(bytes.NewReader(e.payload))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case CompZstd:
		return c.dec.DecodeAll(e.payload, nil)
	}
	return nil, fmt.Errorf("cache: unsupported compression %d", e.comp)
}

// Marshal encodes every entry, oldest first, into a cache pack:
// magic, version, count, then per entry key, compression, length, payload.
func (c *Cache) Marshal() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out bytes.Buffer
	out.WriteString(packMagic)
	_ = binary.Write(&out, binary.LittleEndian, uint8(packVersion))
	_ = binary.Write(&out, binary.LittleEndian, uint32(len(c.order)))
	for _, key := range c.order {
		e := c.entries[key]
		_ = binary.Write(&out, binary.LittleEndian, key)
		_ = binary.Write(&out, binary.LittleEndian, uint8(e.comp))
		_ = binary.Write(&out, binary.LittleEndian, uint32(len(e.payload)))
		_, _ = out.Write(e.payload)
	}
	return out.Bytes()
}

// Unmarshal adds the entries of a cache pack. Entries keep the compression
// they were stored with.
func (c *Cache) Unmarshal(data []byte) error {
	if len(data) < len(packMagic)+5 || string(data[:len(packMagic)]) != packMagic {
		return fmt.Errorf("%w: bad magic", ErrCorrupt)
	}
	r := bytes.NewReader(data[len(packMagic):])
	var version uint8
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return err
	}
	if version != packVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrCorrupt, version)
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return err
	}
	if int64(n)*13 > int64(r.Len()) {
		return fmt.Errorf("%w: %d entries in %d bytes", ErrCorrupt, n, r.Len())
	}
	loaded := make([]uint64, 0, n)
	entries := make(map[uint64]entry, n)
	for i := uint32(0); i < n; i++ {
		var key uint64
		var comp uint8
		var plen uint32
		if err := binary.Read(r, binary.LittleEndian, &key); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCorrupt, i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &comp); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCorrupt, i, err)
		}
		if Compression(comp) > CompZstd {
			return fmt.Errorf("%w: entry %d: compression %d", ErrCorrupt, i, comp)
		}
		if err := binary.Read(r, binary.LittleEndian, &plen); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCorrupt, i, err)
		}
		if int64(plen) > int64(r.Len()) {
			return fmt.Errorf("%w: entry %d: length %d", ErrCorrupt, i, plen)
		}
		payload := make([]byte, plen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return fmt.Errorf("%w: entry %d: %v", ErrCorrupt, i, err)
		}
		loaded = append(loaded, key)
		entries[key] = entry{comp: Compression(comp), payload: payload}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range loaded {
		c.insert(key, entries[key])
	}
	return nil
}

// LoadFile reads a pack written by SaveFile. A missing file is not an error.
func (c *Cache) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return c.Unmarshal(data)
}

func (c *Cache) SaveFile(path string) error {
	return os.WriteFile(path, c.Marshal(), 0o644)
}
