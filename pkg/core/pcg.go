package core

import "math/bits"

// pcgMultiplier is the 64-bit LCG multiplier used by PCG32
const pcgMultiplier = 6364136223846793005

// PCG32 is a seedable PCG-XSH-RR generator: a 64-bit LCG state advanced per draw
// with a 32-bit output permuted by xorshift and a data-dependent rotation.
//
// A PCG32 is not safe for concurrent use. The renderer gives every pixel its own
// instance so output does not depend on scheduling.
type PCG32 struct {
	state uint64
	inc   uint64
}

// NewPCG32 creates a generator seeded with the given state and stream selector
func NewPCG32(initState, initSeq uint64) *PCG32 {
	rng := &PCG32{}
	rng.Seed(initState, initSeq)
	return rng
}

// Seed resets the generator. The increment is derived from initSeq and forced odd,
// and the state is stepped before and after mixing in initState.
func (p *PCG32) Seed(initState, initSeq uint64) {
	p.state = 0
	p.inc = (initSeq << 1) | 1
	p.Uint32()
	p.state += initState
	p.Uint32()
}

// Uint32 returns the next 32 bits of output
func (p *PCG32) Uint32() uint32 {
	old := p.state
	p.state = old*pcgMultiplier + p.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Uint32Between returns a value in [lo, hi) using modulo reduction.
// The result is slightly biased when hi-lo is not a power of two.
func (p *PCG32) Uint32Between(lo, hi uint32) uint32 {
	return lo + p.Uint32()%(hi-lo)
}

// Float64 returns a float in [0, 1) built from the top 24 bits of one draw
func (p *PCG32) Float64() float64 {
	return float64(p.Uint32()>>8) / float64(1<<24)
}

// FloatBetween returns a float in [lo, hi)
func (p *PCG32) FloatBetween(lo, hi float64) float64 {
	return lo + p.Float64()*(hi-lo)
}
