// Package asm filters compiler assembly output and extracts label blocks from it.
package asm

import (
	"go.trai.ch/vimasm/internal/core/domain"
	"go.trai.ch/zerr"
)

// InitialBufferSize is the starting capacity of a Buffer.
const InitialBufferSize = 4 * 4096

// Buffer is a growable byte buffer with a hard upper bound.
// Capacity doubles on overflow; growing past the bound fails with
// domain.ErrBufferOverflow instead of allocating.
type Buffer struct {
	data []byte
	max  int
}

// NewBuffer returns an empty buffer that never grows beyond maxBytes.
// A non-positive maxBytes selects domain.DefaultMaxBufferBytes.
func NewBuffer(maxBytes int) *Buffer {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxBufferBytes
	}
	return &Buffer{
		data: make([]byte, 0, min(InitialBufferSize, maxBytes)),
		max:  maxBytes,
	}
}

// Write appends p, growing the buffer as needed.
// On overflow nothing is appended.
func (b *Buffer) Write(p []byte) (int, error) {
	if err := b.reserve(len(p)); err != nil {
		return 0, err
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	if err := b.reserve(1); err != nil {
		return err
	}
	b.data = append(b.data, c)
	return nil
}

func (b *Buffer) reserve(n int) error {
	need := len(b.data) + n
	if need > b.max {
		return zerr.With(zerr.With(zerr.Wrap(domain.ErrBufferOverflow, "buffer full"), "limit", b.max), "required", need)
	}
	if need <= cap(b.data) {
		return nil
	}

	newCap := max(cap(b.data), 1)
	for newCap < need {
		newCap *= 2
	}
	newCap = min(newCap, b.max)

	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
	return nil
}

// Bytes returns the buffered data. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the current capacity.
func (b *Buffer) Cap() int {
	return cap(b.data)
}
