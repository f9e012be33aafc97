// Package random provides a seedable pseudorandom generator built on the
// MT19937 Mersenne twister.
//
// A Random is not safe for concurrent use. Give each consumer its own
// instance rather than sharing one, so that seeding one consumer never
// shifts another's sequence.
package random

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mathext/prng"
)

type Random struct {
	r *rand.Rand
}

// New returns a generator whose sequence is fully determined by seed.
func New(seed uint64) *Random {
	src := prng.NewMT19937()
	src.Seed(seed)
	return &Random{r: rand.New(src)}
}

// NewFromTime returns a generator seeded from the wall clock.
func NewFromTime() *Random {
	return New(uint64(time.Now().UnixNano()))
}

// Seed resets the generator to the start of the sequence for seed.
func (r *Random) Seed(seed uint64) {
	r.r.Seed(seed)
}

// Int63n returns a uniform value in [0, n). It panics if n <= 0.
func (r *Random) Int63n(n int64) int64 {
	return r.r.Int63n(n)
}

// IntBetween returns a uniform value in [low, high]. It panics if
// high < low.
func (r *Random) IntBetween(low, high int64) int64 {
	if high < low {
		panic("random: invalid range for IntBetween")
	}
	span := uint64(high-low) + 1
	if span == 0 {
		// [MinInt64, MaxInt64]
		return int64(r.r.Uint64())
	}
	return low + int64(r.r.Uint64n(span))
}

func (r *Random) Int63() int64 {
	return r.r.Int63()
}

func (r *Random) Uint64() uint64 {
	return r.r.Uint64()
}

// Float64 returns a uniform value in [0.0, 1.0).
func (r *Random) Float64() float64 {
	return r.r.Float64()
}

// Float32 returns a uniform value in [0.0, 1.0).
func (r *Random) Float32() float32 {
	return r.r.Float32()
}

// Gaussian returns a normally distributed value with mean 0 and standard
// deviation 1.
func (r *Random) Gaussian() float64 {
	return r.r.NormFloat64()
}

func (r *Random) Bool() bool {
	return r.r.Uint64()&1 == 0
}

// Bytes returns n random bytes.
func (r *Random) Bytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(r.r.Uint64n(256))
	}
	return b
}
