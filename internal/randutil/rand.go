package randutil

import (
	crand "crypto/rand"
	"encoding/binary"
	rand "math/rand/v2"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// Every reproducible stream in the table (deck shuffles, bot noise, equity
// workers) derives its two PCG seeds here.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// FromSeed returns New(seed) when seed is non-zero and an entropy-seeded
// source otherwise. A zero seed is how the CLI says "no --seed given".
func FromSeed(seed int64) *rand.Rand {
	if seed != 0 {
		return New(seed)
	}
	return Entropy()
}

// Entropy returns a source seeded from crypto/rand.
func Entropy() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic("randutil: reading entropy: " + err.Error())
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// Derive returns a child source from parent. Children drawn in the same order
// from the same parent are identical across runs.
func Derive(parent *rand.Rand) *rand.Rand {
	return New(parent.Int64())
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
