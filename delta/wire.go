// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package delta

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/jsonarena/jsonarena"
)

// Marshal and Unmarshal provide one concrete, length-prefixed binary framing
// for Encoded, built on encoding/binary varints, as a convenience. Callers
// free to pick their own framing (CBOR, MessagePack, gob, ...) can ignore
// this file entirely and serialize the Encoded struct directly.
//
// No CBOR/MessagePack library is reachable from anything retrieved for this
// module without fabricating a dependency, so this framing is hand-rolled
// rather than borrowed; see DESIGN.md.

var bufferPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 4096)) },
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}

// Marshal renders e as a length-prefixed binary stream.
func Marshal(e Encoded) []byte {
	buf := getBuffer()
	defer putBuffer(buf)

	var scratch [binary.MaxVarintLen64]byte

	putUvarint := func(x uint64) {
		n := binary.PutUvarint(scratch[:], x)
		buf.Write(scratch[:n])
	}
	putVarint := func(x int64) {
		n := binary.PutVarint(scratch[:], x)
		buf.Write(scratch[:n])
	}

	putUvarint(uint64(len(e.Strings)))
	for _, s := range e.Strings {
		putUvarint(uint64(len(s)))
		buf.WriteString(s)
	}

	putUvarint(uint64(len(e.Arrays)))
	for _, arr := range e.Arrays {
		putUvarint(uint64(len(arr)))
		for _, vd := range arr {
			writeValueDelta(buf, &scratch, putVarint, vd)
		}
	}

	putUvarint(uint64(len(e.Objects)))
	for _, obj := range e.Objects {
		putUvarint(uint64(len(obj)))
		for _, ed := range obj {
			putVarint(int64(ed.KeyDelta))
			writeValueDelta(buf, &scratch, putVarint, ed.Value)
		}
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

func writeValueDelta(buf *bytes.Buffer, scratch *[binary.MaxVarintLen64]byte, putVarint func(int64), vd ValueDelta) {
	buf.WriteByte(byte(vd.Tag))
	switch vd.Tag {
	case jsonarena.TagNull:
	case jsonarena.TagBool:
		if vd.B {
			buf.WriteByte(1)
		} else {
			buf.WriteByte(0)
		}
	case jsonarena.TagU64:
		putVarint(vd.U)
	case jsonarena.TagI64:
		putVarint(vd.I)
	case jsonarena.TagF64:
		binary.LittleEndian.PutUint64(scratch[:8], math.Float64bits(vd.F))
		buf.Write(scratch[:8])
	case jsonarena.TagString:
		putVarint(int64(vd.S))
	case jsonarena.TagArray:
		putVarint(int64(vd.A))
	case jsonarena.TagObject:
		putVarint(int64(vd.O))
	}
}

// Unmarshal parses the framing Marshal produces.
func Unmarshal(data []byte) (Encoded, error) {
	r := &byteReader{buf: data}

	nStrings, err := r.uvarint()
	if err != nil {
		return Encoded{}, fmt.Errorf("delta: reading string count: %w", err)
	}
	strs := make([]string, nStrings)
	for i := range strs {
		n, err := r.uvarint()
		if err != nil {
			return Encoded{}, fmt.Errorf("delta: reading string %d length: %w", i, err)
		}
		s, err := r.bytes(int(n))
		if err != nil {
			return Encoded{}, fmt.Errorf("delta: reading string %d: %w", i, err)
		}
		strs[i] = string(s)
	}

	nArrays, err := r.uvarint()
	if err != nil {
		return Encoded{}, fmt.Errorf("delta: reading array count: %w", err)
	}
	arrays := make([][]ValueDelta, nArrays)
	for i := range arrays {
		n, err := r.uvarint()
		if err != nil {
			return Encoded{}, fmt.Errorf("delta: reading array %d length: %w", i, err)
		}
		elems := make([]ValueDelta, n)
		for j := range elems {
			vd, err := readValueDelta(r)
			if err != nil {
				return Encoded{}, fmt.Errorf("delta: reading array %d element %d: %w", i, j, err)
			}
			elems[j] = vd
		}
		arrays[i] = elems
	}

	nObjects, err := r.uvarint()
	if err != nil {
		return Encoded{}, fmt.Errorf("delta: reading object count: %w", err)
	}
	objects := make([][]ObjectEntryDelta, nObjects)
	for i := range objects {
		n, err := r.uvarint()
		if err != nil {
			return Encoded{}, fmt.Errorf("delta: reading object %d length: %w", i, err)
		}
		entries := make([]ObjectEntryDelta, n)
		for j := range entries {
			kd, err := r.varint()
			if err != nil {
				return Encoded{}, fmt.Errorf("delta: reading object %d entry %d key delta: %w", i, j, err)
			}
			vd, err := readValueDelta(r)
			if err != nil {
				return Encoded{}, fmt.Errorf("delta: reading object %d entry %d value: %w", i, j, err)
			}
			entries[j] = ObjectEntryDelta{KeyDelta: int32(kd), Value: vd}
		}
		objects[i] = entries
	}

	return Encoded{Strings: strs, Arrays: arrays, Objects: objects}, nil
}

func readValueDelta(r *byteReader) (ValueDelta, error) {
	tagByte, err := r.byte()
	if err != nil {
		return ValueDelta{}, err
	}
	tag := jsonarena.Tag(tagByte)
	vd := ValueDelta{Tag: tag}
	switch tag {
	case jsonarena.TagNull:
	case jsonarena.TagBool:
		b, err := r.byte()
		if err != nil {
			return ValueDelta{}, err
		}
		vd.B = b != 0
	case jsonarena.TagU64:
		x, err := r.varint()
		if err != nil {
			return ValueDelta{}, err
		}
		vd.U = x
	case jsonarena.TagI64:
		x, err := r.varint()
		if err != nil {
			return ValueDelta{}, err
		}
		vd.I = x
	case jsonarena.TagF64:
		bits, err := r.fixed64()
		if err != nil {
			return ValueDelta{}, err
		}
		vd.F = math.Float64frombits(bits)
	case jsonarena.TagString:
		x, err := r.varint()
		if err != nil {
			return ValueDelta{}, err
		}
		vd.S = int32(x)
	case jsonarena.TagArray:
		x, err := r.varint()
		if err != nil {
			return ValueDelta{}, err
		}
		vd.A = int32(x)
	case jsonarena.TagObject:
		x, err := r.varint()
		if err != nil {
			return ValueDelta{}, err
		}
		vd.O = int32(x)
	default:
		return ValueDelta{}, fmt.Errorf("delta: unrecognized tag byte %d", tagByte)
	}
	return vd, nil
}

// byteReader is a minimal cursor over a byte slice. Varints are decoded in
// place with binary.Uvarint/Varint on the remaining bytes, without wrapping
// data in a bytes.Reader.
type byteReader struct {
	buf []byte
	pos int
}

func (r *byteReader) byte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("delta: unexpected end of input")
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *byteReader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("delta: unexpected end of input")
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *byteReader) fixed64() (uint64, error) {
	b, err := r.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *byteReader) uvarint() (uint64, error) {
	x, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("delta: malformed uvarint")
	}
	r.pos += n
	return x, nil
}

func (r *byteReader) varint() (int64, error) {
	x, n := binary.Varint(r.buf[r.pos:])
	if n <= 0 {
		return 0, fmt.Errorf("delta: malformed varint")
	}
	r.pos += n
	return x, nil
}
