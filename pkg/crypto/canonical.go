package crypto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Canonical produces the deterministic byte encoding of v used as the
// signed payload for every Signed[M] type in the protocol. It is plain
// JSON with a fixed key order: encoding/json already serializes struct fields in
// declaration order and map string-keys in sorted order, which is exactly
// the byte-for-byte determinism §4.1 requires between signer and verifier.
// HTML-escaping is disabled so the same struct never produces two different
// byte strings depending on whether it happens to contain '<', '>' or '&'.
func Canonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("crypto: canonical encode: %w", err)
	}
	// json.Encoder.Encode appends a trailing newline; strip it so Canonical
	// is stable under repeated re-encoding of its own output.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
