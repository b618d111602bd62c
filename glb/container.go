package glb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
)

// ErrInvalid reports a GLB whose framing does not validate.
var ErrInvalid = errors.New("glb: invalid container")

// Container is a parsed GLB: its header fields and raw chunk payloads.
type Container struct {
	Version uint32
	Length  uint32
	JSON    []byte
	BIN     []byte // nil when the container has no binary chunk
}

// ReadContainer checks the header magic, version and declared length and
// splits the chunks. Chunk lengths must be multiples of 4.
func ReadContainer(data []byte) (*Container, error) {
	if len(data) < headerLen+chunkHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalid, len(data))
	}
	le := binary.LittleEndian
	if m := le.Uint32(data[0:]); m != Magic {
		return nil, fmt.Errorf("%w: magic %#x", ErrInvalid, m)
	}
	c := &Container{Version: le.Uint32(data[4:]), Length: le.Uint32(data[8:])}
	if c.Version != Version {
		return nil, fmt.Errorf("%w: version %d", ErrInvalid, c.Version)
	}
	if int(c.Length) != len(data) {
		return nil, fmt.Errorf("%w: declared length %d, have %d", ErrInvalid, c.Length, len(data))
	}

	off := headerLen
	for off < len(data) {
		if len(data)-off < chunkHeaderLen {
			return nil, fmt.Errorf("%w: truncated chunk header at %d", ErrInvalid, off)
		}
		n, kind := int(le.Uint32(data[off:])), le.Uint32(data[off+4:])
		off += chunkHeaderLen
		if n%4 != 0 || n > len(data)-off {
			return nil, fmt.Errorf("%w: chunk length %d at %d", ErrInvalid, n, off)
		}
		chunk := data[off : off+n]
		off += n
		switch kind {
		case ChunkJSON:
			if c.JSON != nil {
				return nil, fmt.Errorf("%w: duplicate JSON chunk", ErrInvalid)
			}
			c.JSON = chunk
		case ChunkBIN:
			if c.JSON == nil {
				return nil, fmt.Errorf("%w: BIN chunk before JSON", ErrInvalid)
			}
			c.BIN = chunk
		}
	}
	if c.JSON == nil {
		return nil, fmt.Errorf("%w: missing JSON chunk", ErrInvalid)
	}
	return c, nil
}

// Document decodes the JSON chunk and attaches the binary chunk to buffer 0.
func (c *Container) Document() (*gltf.Document, error) {
	doc := new(gltf.Document)
	if err := json.Unmarshal(c.JSON, doc); err != nil {
		return nil, fmt.Errorf("glb: decode json: %w", err)
	}
	if len(doc.Buffers) > 0 && c.BIN != nil {
		doc.Buffers[0].Data = c.BIN
	}
	return doc, nil
}
