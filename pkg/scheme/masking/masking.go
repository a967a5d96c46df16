// Package masking implements the three LinearMaskingScheme variants: None,
// Full, and ChaCha. Each variant is a plain struct carrying its own fixed
// parameters and a Mask/CombineMasks method pair; none of them needs to know
// about the scheme engine that dispatches to it, which is what lets
// pkg/scheme wire them in as interface values without this package importing
// anything above pkg/crypto.
package masking

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"

	"golang.org/x/crypto/chacha20"

	"github.com/luxfi/sda/pkg/crypto"
	"github.com/luxfi/sda/pkg/sdaerr"
)

// Kind tags which masking variant is in play.
type Kind int

const (
	None Kind = iota
	Full
	ChaCha
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Full:
		return "full"
	case ChaCha:
		return "chacha"
	default:
		return "unknown"
	}
}

// Scheme is the common surface of every masking variant: the Masker and
// MaskCombiner roles from the design notes, collapsed onto one small
// interface since every variant needs both halves.
type Scheme interface {
	Kind() Kind
	HasMask() bool
	Modulus() int64
	// Mask produces a fresh mask for one participation's secrets, returning
	// the masked secrets and an opaque payload the recipient can later use
	// (with CombineMasks) to recover the mask. HasMask()==false schemes
	// return a nil payload and the secrets unchanged.
	Mask(secrets []int64) (payload []byte, masked []int64, err error)
	// CombineMasks expands and sums a set of participants' mask payloads
	// (one per participation that contributed to the snapshot being
	// revealed), returning the combined mask mod Modulus().
	CombineMasks(payloads [][]byte) ([]int64, error)
	// Unmask subtracts a combined mask from a combined masked sum,
	// element-wise mod Modulus().
	Unmask(maskedSum, combinedMask []int64) []int64
}

// NoneScheme implements Scheme for LinearMaskingScheme::None: the participant
// contributes the secret vector directly and no recipient encryption is
// produced.
type NoneScheme struct{}

func (NoneScheme) Kind() Kind      { return None }
func (NoneScheme) HasMask() bool   { return false }
func (NoneScheme) Modulus() int64  { return 0 }
func (NoneScheme) Mask(secrets []int64) ([]byte, []int64, error) {
	return nil, secrets, nil
}
func (NoneScheme) CombineMasks(payloads [][]byte) ([]int64, error) { return nil, nil }
func (NoneScheme) Unmask(maskedSum, _ []int64) []int64             { return maskedSum }

// FullScheme implements Scheme for LinearMaskingScheme::Full: a fresh uniform
// mask vector in [0,M)^N per participation.
type FullScheme struct {
	ModulusValue int64
}

func (FullScheme) Kind() Kind            { return Full }
func (FullScheme) HasMask() bool         { return true }
func (f FullScheme) Modulus() int64      { return f.ModulusValue }

func (f FullScheme) Mask(secrets []int64) ([]byte, []int64, error) {
	mask := make([]int64, len(secrets))
	masked := make([]int64, len(secrets))
	for i, s := range secrets {
		m, err := uniformFieldElement(f.ModulusValue)
		if err != nil {
			return nil, nil, fmt.Errorf("masking: sample full mask: %w", err)
		}
		mask[i] = m
		masked[i] = modAdd(s, m, f.ModulusValue)
	}
	payload := crypto.EncodeShares(int64sToUint64s(mask))
	return payload, masked, nil
}

func (f FullScheme) CombineMasks(payloads [][]byte) ([]int64, error) {
	var combined []int64
	for _, payload := range payloads {
		mask, err := decodePayload(payload)
		if err != nil {
			return nil, sdaerr.Wrap("masking.FullScheme.CombineMasks", sdaerr.CryptoFailure, err)
		}
		combined = addMasks(combined, mask, f.ModulusValue)
	}
	return combined, nil
}

func (f FullScheme) Unmask(maskedSum, combinedMask []int64) []int64 {
	return subtractMod(maskedSum, combinedMask, f.ModulusValue)
}

// ChaChaScheme implements LinearMaskingScheme::ChaCha: the participant
// transmits a random seed (not the expanded mask); both sides expand the
// same seed into the same mask with a ChaCha20 keystream, so identical seeds
// always yield identical masks regardless of platform.
type ChaChaScheme struct {
	ModulusValue int64
	Dimension    int
	SeedBitsize  int
}

func (ChaChaScheme) Kind() Kind         { return ChaCha }
func (ChaChaScheme) HasMask() bool      { return true }
func (c ChaChaScheme) Modulus() int64   { return c.ModulusValue }

func (c ChaChaScheme) Mask(secrets []int64) ([]byte, []int64, error) {
	seed, err := c.randomSeed()
	if err != nil {
		return nil, nil, err
	}
	mask, err := c.expand(seed)
	if err != nil {
		return nil, nil, err
	}
	masked := make([]int64, len(secrets))
	for i, s := range secrets {
		m := int64(0)
		if i < len(mask) {
			m = mask[i]
		}
		masked[i] = modAdd(s, m, c.ModulusValue)
	}
	return seed, masked, nil
}

func (c ChaChaScheme) CombineMasks(payloads [][]byte) ([]int64, error) {
	var combined []int64
	for _, seed := range payloads {
		mask, err := c.expand(seed)
		if err != nil {
			return nil, err
		}
		combined = addMasks(combined, mask, c.ModulusValue)
	}
	return combined, nil
}

func (c ChaChaScheme) Unmask(maskedSum, combinedMask []int64) []int64 {
	return subtractMod(maskedSum, combinedMask, c.ModulusValue)
}

func (c ChaChaScheme) randomSeed() ([]byte, error) {
	seedBytes := (c.SeedBitsize + 7) / 8
	if seedBytes <= 0 {
		seedBytes = 1
	}
	seed := make([]byte, seedBytes)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("masking: sample chacha seed: %w", err)
	}
	return seed, nil
}

// expand derives the deterministic mask vector for one seed. The seed is
// used directly as ChaCha20 key material (zero-padded or truncated to the
// cipher's 32-byte key size) with a fixed all-zero nonce: the seed itself is
// fresh random data each time it is generated, so keystream reuse across
// distinct masks never occurs in practice, and a fixed nonce keeps expansion
// a pure function of the seed alone, matching the "identical seed -> identical
// mask" contract.
func (c ChaChaScheme) expand(seed []byte) ([]int64, error) {
	var key [32]byte
	copy(key[:], seed)

	cipher, err := chacha20.NewUnauthenticatedCipher(key[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		return nil, fmt.Errorf("masking: init chacha cipher: %w", err)
	}

	stream := make([]byte, c.Dimension*8)
	cipher.XORKeyStream(stream, stream)

	mask := make([]int64, c.Dimension)
	for i := 0; i < c.Dimension; i++ {
		v := binary.LittleEndian.Uint64(stream[i*8 : i*8+8])
		mask[i] = int64(v % uint64(c.ModulusValue))
	}
	return mask, nil
}

func uniformFieldElement(modulus int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(modulus))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}

func modAdd(a, b, modulus int64) int64 {
	r := (a + b) % modulus
	if r < 0 {
		r += modulus
	}
	return r
}

func subtractMod(a, b []int64, modulus int64) []int64 {
	n := len(a)
	out := make([]int64, n)
	for i := 0; i < n; i++ {
		bv := int64(0)
		if i < len(b) {
			bv = b[i]
		}
		r := (a[i] - bv) % modulus
		if r < 0 {
			r += modulus
		}
		out[i] = r
	}
	return out
}

func addMasks(acc, mask []int64, modulus int64) []int64 {
	if acc == nil {
		acc = make([]int64, len(mask))
	}
	if len(mask) > len(acc) {
		grown := make([]int64, len(mask))
		copy(grown, acc)
		acc = grown
	}
	for i, m := range mask {
		acc[i] = modAdd(acc[i], m, modulus)
	}
	return acc
}

func int64sToUint64s(xs []int64) []uint64 {
	out := make([]uint64, len(xs))
	for i, x := range xs {
		out[i] = uint64(x)
	}
	return out
}

func decodePayload(payload []byte) ([]int64, error) {
	us, err := crypto.DecodeShares(payload)
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(us))
	for i, u := range us {
		out[i] = int64(u)
	}
	return out, nil
}
