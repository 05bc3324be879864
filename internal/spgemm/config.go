package spgemm

import "math/bits"

// Config holds the engine's compile-time-constant-like parameters. In this
// software implementation they are ordinary runtime values, but they are
// expected to be set once at construction and never changed afterward.
type Config struct {
	Banks     int // number of banks, power of two
	Depth     int // slots per bank, power of two
	ValueBits int // width of the accumulator; documented, enforced via int32
	IndexBits int // width of row/col; documented, enforced via uint16
}

// DefaultConfig matches the reference hardware: 8 banks of 256 slots,
// supporting columns [0, 2048).
func DefaultConfig() Config {
	return Config{Banks: 8, Depth: 256, ValueBits: 32, IndexBits: 16}
}

func (c Config) maxCol() int { return c.Banks * c.Depth }

// bank and addr implement the bit-slice mapping: bank selects the high
// bits of col, addr the low bits, with depth's log2 as the split point.
func (c Config) bank(col uint16) int { return int(col) >> bits.TrailingZeros(uint(c.Depth)) }
func (c Config) addr(col uint16) int { return int(col) & (c.Depth - 1) }
