// Package wire defines the payload structs carried by every packet id in
// constants.protocol.go and their binary encode/decode, one struct per
// direction named after spec §6's table. Encoding is manual
// encoding/binary field-by-field packing, the same idiom la2go's
// clientpackets/serverpackets packages use (no generic serialization
// library is wired here — the wire format is this spec's own fixed
// per-id schema, not a general-purpose document format, and none of the
// pack's examples serialize a hand-rolled game packet with a third-party
// codec either).
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer accumulates a payload in wire order.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *Writer) Bool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *Writer) Float64(v float64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf = append(w.buf, b[:]...)
}

// String writes a uint16 byte-length prefix followed by the UTF-8 bytes.
func (w *Writer) String(s string) {
	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(s)))
	w.buf = append(w.buf, lenBuf[:]...)
	w.buf = append(w.buf, s...)
}

// StringSlice writes a uint16 element count followed by each String.
func (w *Writer) StringSlice(ss []string) {
	var n [2]byte
	binary.LittleEndian.PutUint16(n[:], uint16(len(ss)))
	w.buf = append(w.buf, n[:]...)
	for _, s := range ss {
		w.String(s)
	}
}

// Reader decodes a payload in the order it was written.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps payload for decoding.
func NewReader(payload []byte) *Reader {
	return &Reader{buf: payload}
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return fmt.Errorf("wire: short payload, need %d more bytes at offset %d (len %d)", n, r.pos, len(r.buf))
	}
	return nil
}

func (r *Reader) Int32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.LittleEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) Bool() (bool, error) {
	if err := r.need(1); err != nil {
		return false, err
	}
	v := r.buf[r.pos] != 0
	r.pos++
	return v, nil
}

func (r *Reader) Float64() (float64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := math.Float64frombits(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v, nil
}

func (r *Reader) String() (string, error) {
	if err := r.need(2); err != nil {
		return "", err
	}
	n := int(binary.LittleEndian.Uint16(r.buf[r.pos:]))
	r.pos += 2
	if err := r.need(n); err != nil {
		return "", err
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

func (r *Reader) StringSlice() ([]string, error) {
	if err := r.need(2); err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint16(r.buf[r.pos:]))
	r.pos += 2
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s, err := r.String()
		if err != nil {
			return nil, fmt.Errorf("string slice element %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
