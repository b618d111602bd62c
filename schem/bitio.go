package schem

import "math/bits"

// bitWriter packs fixed-width values LSB-first into bytes.
type bitWriter struct {
	buf []byte
	acc uint64
	n   uint8
}

func newBitWriter(sizeHint int) *bitWriter { return &bitWriter{buf: make([]byte, 0, sizeHint)} }

func (w *bitWriter) writeBits(v uint64, width uint8) {
	w.acc |= (v & ((1 << width) - 1)) << w.n
	w.n += width
	for w.n >= 8 {
		w.buf = append(w.buf, byte(w.acc&0xFF))
		w.acc >>= 8
		w.n -= 8
	}
}

func (w *bitWriter) bytes() []byte {
	if w.n > 0 {
		w.buf = append(w.buf, byte(w.acc&0xFF))
		w.acc = 0
		w.n = 0
	}
	return w.buf
}

// bitReader is a little-endian bit accumulator fed one byte at a time.
type bitReader struct {
	data []byte
	acc  uint64
	n    uint8
	pos  int
}

func newBitReader(b []byte) *bitReader { return &bitReader{data: b} }

// readBits returns false once the stream cannot supply width more bits.
func (r *bitReader) readBits(width uint8) (uint64, bool) {
	for r.n < width {
		if r.pos >= len(r.data) {
			return 0, false
		}
		r.acc |= uint64(r.data[r.pos]) << r.n
		r.n += 8
		r.pos++
	}
	v := r.acc & ((1 << width) - 1)
	r.acc >>= width
	r.n -= width
	return v, true
}

// BitsPerBlock returns max(4, bitlength(paletteSize-1)).
func BitsPerBlock(paletteSize int) int {
	if paletteSize <= 1 {
		return 4
	}
	return max(4, bits.Len(uint(paletteSize-1)))
}

// DecodeBlockData unpacks total fixed-width palette ids from data. A short
// stream is not an error: the remaining values are left as 0 (air).
func DecodeBlockData(data []byte, paletteSize, total int) []int32 {
	values := make([]int32, max(total, 0))
	width := uint8(BitsPerBlock(paletteSize))
	br := newBitReader(data)
	for i := range values {
		v, ok := br.readBits(width)
		if !ok {
			break
		}
		values[i] = int32(v)
	}
	return values
}

// EncodeBlockData is the inverse of DecodeBlockData.
func EncodeBlockData(values []int32, paletteSize int) []byte {
	width := uint8(BitsPerBlock(paletteSize))
	bw := newBitWriter((len(values)*int(width) + 7) / 8)
	for _, v := range values {
		bw.writeBits(uint64(uint32(v)), width)
	}
	return bw.bytes()
}

// expandLongs turns legacy BlockStates words into their little-endian byte stream.
func expandLongs(words []int64) []byte {
	out := make([]byte, 0, len(words)*8)
	for _, w := range words {
		u := uint64(w)
		for i := 0; i < 8; i++ {
			out = append(out, byte(u>>(8*i)))
		}
	}
	return out
}

// packLongs groups a byte stream into little-endian words, zero-padding the tail.
func packLongs(data []byte) []int64 {
	words := make([]int64, (len(data)+7)/8)
	for i, b := range data {
		words[i/8] |= int64(uint64(b) << (8 * (i % 8)))
	}
	return words
}
