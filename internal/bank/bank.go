// Package bank implements the Column-Bank Store (C1): a flat, 2D
// addressable grid of accumulator slots organized as B banks of D slots
// each, with one occupancy bit per slot. It is the sole owner of its
// storage; no other component may alias it.
package bank

import (
	"math/bits"

	"github.com/kelindar/bitmap"
)

const wordBits = 64

type slot struct {
	value int32
}

// Store is the Column-Bank Store. bank(col) = col >> log2(depth),
// addr(col) = col mod depth. The invariant bitmap[bank][addr] ==
// slot[bank][addr].occupied holds at all times; occupancy is owned by the
// bitmaps, not by a flag on slot, which is what lets FindNextOccupied work
// by masking the starting word and scanning whole words after it.
type Store struct {
	banks int
	depth int
	words int // depth/64, rounded up

	slots []slot            // banks*depth, row-major by bank
	occ   []bitmap.Bitmap   // one occupancy bitmap per bank, depth bits each
}

// New builds a store with the given number of banks and slots per bank.
// Both must be powers of two.
func New(banks, depth int) *Store {
	words := (depth + wordBits - 1) / wordBits
	s := &Store{
		banks: banks,
		depth: depth,
		words: words,
		slots: make([]slot, banks*depth),
		occ:   make([]bitmap.Bitmap, banks),
	}
	for b := range s.occ {
		s.occ[b] = make(bitmap.Bitmap, words)
	}
	return s
}

func (s *Store) Banks() int { return s.banks }
func (s *Store) Depth() int { return s.depth }

func (s *Store) index(bank, addr int) int { return bank*s.depth + addr }

// Occupied reports whether the slot at (bank, addr) currently holds a value.
func (s *Store) Occupied(bank, addr int) bool {
	w, bit := addr/wordBits, uint(addr%wordBits)
	return s.occ[bank][w]&(1<<bit) != 0
}

// Write sets the slot to value and marks it occupied, overwriting any
// previous value.
func (s *Store) Write(bank, addr int, value int32) {
	s.slots[s.index(bank, addr)].value = value
	w, bit := addr/wordBits, uint(addr%wordBits)
	s.occ[bank][w] |= 1 << bit
}

// Accumulate adds delta to the slot's value with wrapping 32-bit signed
// arithmetic. The slot must already be occupied; callers (the Fill
// Engine) always check Occupied first, so this never needs to mark
// occupancy itself.
func (s *Store) Accumulate(bank, addr int, delta int32) {
	i := s.index(bank, addr)
	s.slots[i].value = int32(uint32(s.slots[i].value) + uint32(delta))
}

// Value returns the slot's current value. Undefined if the slot is not
// occupied.
func (s *Store) Value(bank, addr int) int32 {
	return s.slots[s.index(bank, addr)].value
}

// Clear unoccupies the slot at (bank, addr). Its value becomes undefined.
func (s *Store) Clear(bank, addr int) {
	w, bit := addr/wordBits, uint(addr%wordBits)
	s.occ[bank][w] &^= 1 << bit
}

// FindNextOccupied returns the lowest addr >= from that is occupied in the
// given bank, or ok=false if there is none. It works by masking off the
// bits below from in the bank's current word, then taking the bank's
// lowest remaining set bit across words — a constant-time-ish operation
// for a fixed word width.
func (s *Store) FindNextOccupied(bank, from int) (addr int, ok bool) {
	if from >= s.depth {
		return 0, false
	}
	startWord := from / wordBits
	startBit := uint(from % wordBits)

	word := s.occ[bank][startWord] &^ ((uint64(1) << startBit) - 1)
	if word != 0 {
		return startWord*wordBits + bits.TrailingZeros64(word), true
	}
	for w := startWord + 1; w < s.words; w++ {
		if s.occ[bank][w] != 0 {
			return w*wordBits + bits.TrailingZeros64(s.occ[bank][w]), true
		}
	}
	return 0, false
}

// BankEmpty reports whether every slot in the bank is unoccupied.
func (s *Store) BankEmpty(bank int) bool {
	for _, w := range s.occ[bank] {
		if w != 0 {
			return false
		}
	}
	return true
}
