package avroskema

import (
	"fmt"

	"github.com/multiformats/go-multihash"
)

// rabinEmpty is the CRC-64-AVRO seed and polynomial.
const rabinEmpty uint64 = 0xc15d213aa4d7a795

var rabinTable = func() [256]uint64 {
	var t [256]uint64
	for i := range t {
		fp := uint64(i)
		for k := 0; k < 8; k++ {
			fp = (fp >> 1) ^ (rabinEmpty & -(fp & 1))
		}
		t[i] = fp
	}
	return t
}()

func rabin(b []byte) uint64 {
	fp := rabinEmpty
	for _, c := range b {
		fp = (fp >> 8) ^ rabinTable[byte(fp)^c]
	}
	return fp
}

// Fingerprint returns the CRC-64-AVRO fingerprint of the Parsing Canonical
// Form of s. It matches the fingerprints of other Avro implementations.
func Fingerprint(s Schema) uint64 { return rabin([]byte(s.ParsingCanonicalForm())) }

// FingerprintText returns the CRC-64-AVRO fingerprint of the canonical text
// of s. Unlike Fingerprint it tells apart schemas that differ only in field
// defaults.
func FingerprintText(s Schema) uint64 { return rabin([]byte(s.String())) }

// FingerprintSHA256 returns the SHA-256 digest of the Parsing Canonical Form
// of s as a multihash.
func FingerprintSHA256(s Schema) (multihash.Multihash, error) {
	mh, err := multihash.Sum([]byte(s.ParsingCanonicalForm()), multihash.SHA2_256, -1)
	if err != nil {
		return nil, fmt.Errorf("hashing canonical form: %w", err)
	}
	return mh, nil
}
