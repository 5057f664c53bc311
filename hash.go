package fptable

import "github.com/cespare/xxhash/v2"

// seededHash computes a 64-bit hash of data under the given seed. The
// teacher's journal package checksums segments with xxhash.Sum64, but
// xxhash v2 exposes no seed parameter on its digest, so the seed is
// folded into the input ahead of the hashed bytes instead of the state.
func seededHash(seed uint64, data []byte) uint64 {
	d := xxhash.New()
	var seedBuf [8]byte
	putUint64LE(seedBuf[:], seed)
	d.Write(seedBuf[:])
	d.Write(data)
	return d.Sum64()
}

func putUint64LE(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
