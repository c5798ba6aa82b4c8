// Package bitmap tracks which resource indexes of a pool are checked out.
package bitmap

import "math/bits"

const wordSize = 64

// Bitmap is a fixed-length set of bits. A set bit marks a checked-out resource.
// It is not safe for concurrent use.
type Bitmap struct {
	words []uint64
	n     int
	count int
}

// New returns a Bitmap of n bits, all clear.
func New(n int) *Bitmap {
	if n < 0 {
		n = 0
	}
	return &Bitmap{
		words: make([]uint64, (n+wordSize-1)/wordSize),
		n:     n,
	}
}

// Len returns the number of bits in b.
func (b *Bitmap) Len() int {
	return b.n
}

// Count returns the number of set bits.
func (b *Bitmap) Count() int {
	return b.count
}

// IsSet reports whether bit i is set. Out of range positions are reported as clear.
func (b *Bitmap) IsSet(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.words[i/wordSize]&(1<<(i%wordSize)) != 0
}

// Set sets bit i and reports whether it changed.
func (b *Bitmap) Set(i int) bool {
	if i < 0 || i >= b.n || b.IsSet(i) {
		return false
	}
	b.words[i/wordSize] |= 1 << (i % wordSize)
	b.count++
	return true
}

// Clear clears bit i and reports whether it changed.
func (b *Bitmap) Clear(i int) bool {
	if !b.IsSet(i) {
		return false
	}
	b.words[i/wordSize] &^= 1 << (i % wordSize)
	b.count--
	return true
}

// FirstClear returns the lowest clear bit, or -1 if every bit is set.
func (b *Bitmap) FirstClear() int {
	for w, word := range b.words {
		if word == ^uint64(0) {
			continue
		}
		i := w*wordSize + bits.TrailingZeros64(^word)
		if i >= b.n {
			return -1
		}
		return i
	}
	return -1
}
