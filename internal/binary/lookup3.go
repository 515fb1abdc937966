package binary

import "math/bits"

// Lookup3 computes Bob Jenkins' hashlittle over data with a zero seed. HDF5
// uses it for every checksummed metadata block (superblock v2+, OHDR, OCHK).
func Lookup3(data []byte) uint32 {
	seed := 0xdeadbeef + uint32(len(data))
	a, b, c := seed, seed, seed

	// The final block (1..12 bytes) always goes through the tail, never the
	// loop, so a 12 byte input gets a single final mix.
	k := data
	for len(k) > 12 {
		a += le32(k[0:4])
		b += le32(k[4:8])
		c += le32(k[8:12])
		a, b, c = mix(a, b, c)
		k = k[12:]
	}
	if len(k) == 0 {
		return c
	}

	var tail [12]byte
	copy(tail[:], k)
	a += le32(tail[0:4])
	if len(k) > 4 {
		b += le32(tail[4:8])
	}
	if len(k) > 8 {
		c += le32(tail[8:12])
	}
	_, _, c = final(a, b, c)
	return c
}

// VerifyLookup3 reports whether data hashes to want.
func VerifyLookup3(data []byte, want uint32) bool {
	return Lookup3(data) == want
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func mix(a, b, c uint32) (uint32, uint32, uint32) {
	a -= c
	a ^= bits.RotateLeft32(c, 4)
	c += b
	b -= a
	b ^= bits.RotateLeft32(a, 6)
	a += c
	c -= b
	c ^= bits.RotateLeft32(b, 8)
	b += a
	a -= c
	a ^= bits.RotateLeft32(c, 16)
	c += b
	b -= a
	b ^= bits.RotateLeft32(a, 19)
	a += c
	c -= b
	c ^= bits.RotateLeft32(b, 4)
	b += a
	return a, b, c
}

func final(a, b, c uint32) (uint32, uint32, uint32) {
	c ^= b
	c -= bits.RotateLeft32(b, 14)
	a ^= c
	a -= bits.RotateLeft32(c, 11)
	b ^= a
	b -= bits.RotateLeft32(a, 25)
	c ^= b
	c -= bits.RotateLeft32(b, 16)
	a ^= c
	a -= bits.RotateLeft32(c, 4)
	b ^= a
	b -= bits.RotateLeft32(a, 14)
	c ^= b
	c -= bits.RotateLeft32(b, 24)
	return a, b, c
}
