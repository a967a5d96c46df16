package crypto

import (
	"encoding/binary"
	"fmt"

	"github.com/luxfi/sda/pkg/sdaerr"
)

// EncodeShares packs a sequence of shares into a single plaintext using
// greedy variable-length integers, so a batch of shares destined for one
// clerk or the recipient can be carried in one sealed-box ciphertext instead
// of one per share.
func EncodeShares(shares []uint64) []byte {
	buf := make([]byte, 0, len(shares)*binary.MaxVarintLen64)
	var scratch [binary.MaxVarintLen64]byte
	for _, s := range shares {
		n := binary.PutUvarint(scratch[:], s)
		buf = append(buf, scratch[:n]...)
	}
	return buf
}

// DecodeShares decodes a byte stream produced by EncodeShares. Decoding is
// total: it consumes varints greedily until the stream is exhausted, and an
// incomplete trailing varint is an error rather than being silently dropped.
func DecodeShares(b []byte) ([]uint64, error) {
	var shares []uint64
	for len(b) > 0 {
		v, n := binary.Uvarint(b)
		if n == 0 {
			return nil, sdaerr.New("crypto.DecodeShares", sdaerr.CryptoFailure, "incomplete trailing varint")
		}
		if n < 0 {
			return nil, sdaerr.New("crypto.DecodeShares", sdaerr.CryptoFailure, fmt.Sprintf("varint overflow with %d bytes remaining", len(b)))
		}
		shares = append(shares, v)
		b = b[n:]
	}
	return shares, nil
}
