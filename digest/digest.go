// Package digest checks the byte-reader contract of spec.md §6 ("Must
// deliver the same byte sequence on both passes") by hashing the stream
// during the frequency pass and re-hashing it during the parse pass,
// then comparing sums.
//
// Dispatches generically over crypto.Hash for every algorithm that
// registers itself with the standard hash.Hash interface, plus a
// dedicated path for blake3, which does not implement crypto.Hash and so
// needs its own case.
package digest

import (
	"bytes"
	"crypto"
	_ "crypto/sha256" // registers crypto.SHA256
	_ "crypto/sha512" // registers crypto.SHA512
	"fmt"
	"hash"

	_ "golang.org/x/crypto/blake2b"   // registers crypto.BLAKE2b_256
	_ "golang.org/x/crypto/blake2s"   // registers crypto.BLAKE2s_256
	_ "golang.org/x/crypto/ripemd160" // registers crypto.RIPEMD160
	_ "golang.org/x/crypto/sha3"      // registers crypto.SHA3_256

	"lukechampine.com/blake3"
)

// Algorithm selects a digest implementation. Blake3 is handled separately
// since it does not implement crypto.Hash; every other value dispatches
// through crypto.Hash.New().
type Algorithm struct {
	name   string
	std    crypto.Hash
	blake3 bool
}

var (
	SHA256     = Algorithm{name: "sha256", std: crypto.SHA256}
	SHA512     = Algorithm{name: "sha512", std: crypto.SHA512}
	Blake2b256 = Algorithm{name: "blake2b-256", std: crypto.BLAKE2b_256}
	Blake2s256 = Algorithm{name: "blake2s-256", std: crypto.BLAKE2s_256}
	SHA3_256   = Algorithm{name: "sha3-256", std: crypto.SHA3_256}
	RIPEMD160  = Algorithm{name: "ripemd160", std: crypto.RIPEMD160}
	Blake3     = Algorithm{name: "blake3-256", blake3: true}
)

// String returns the algorithm's display name, used in error messages.
func (a Algorithm) String() string { return a.name }

// Digest is a running hash over one pass of the byte stream.
type Digest struct {
	algo Algorithm
	std  hash.Hash
	b3   *blake3.Hasher
}

// New starts a running digest for algo.
func New(algo Algorithm) *Digest {
	d := &Digest{algo: algo}
	if algo.blake3 {
		d.b3 = blake3.New(32, nil)
		return d
	}
	if !algo.std.Available() {
		panic(fmt.Sprintf("digest: algorithm %s not registered (missing blank import)", algo))
	}
	d.std = algo.std.New()
	return d
}

// Write feeds bytes into the running digest. It never returns an error,
// matching the hash.Hash contract both underlying implementations satisfy.
func (d *Digest) Write(p []byte) (int, error) {
	if d.b3 != nil {
		return d.b3.Write(p)
	}
	return d.std.Write(p)
}

// Sum returns the current digest value.
func (d *Digest) Sum() []byte {
	if d.b3 != nil {
		return d.b3.Sum(nil)
	}
	return d.std.Sum(nil)
}

// Verify compares two digests computed over what should be the same byte
// stream (the frequency pass and the parse pass) and reports a mismatch
// as an error, operationalizing the §6 byte-reader contract as a runtime
// check instead of an unchecked assumption.
func Verify(frequencyPass, parsePass *Digest) error {
	a, b := frequencyPass.Sum(), parsePass.Sum()
	if !bytes.Equal(a, b) {
		return fmt.Errorf("digest: byte reader delivered different bytes across passes (%s pass1=%x pass2=%x)", frequencyPass.algo, a, b)
	}
	return nil
}
