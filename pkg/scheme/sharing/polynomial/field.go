// Package polynomial implements prime-field arithmetic and Lagrange
// interpolation for the packed Shamir secret-sharing scheme. It is adapted
// from the teacher's pkg/math/polynomial package, but reworked over a plain
// integer prime field (backed by saferith's constant-time Nat/Modulus
// arithmetic) instead of an elliptic-curve scalar field, since packed
// Shamir here shares integers modulo a configured prime rather than curve
// scalars.
package polynomial

import (
	"fmt"

	"github.com/cronokirby/saferith"
)

// Field performs arithmetic modulo a fixed prime.
type Field struct {
	modulus *saferith.Modulus
	prime   int64
}

// NewField constructs a Field modulo prime. Behavior is undefined if prime
// is not actually prime; the scheme engine is responsible for validating
// Aggregation parameters before constructing a Field from them.
func NewField(prime int64) *Field {
	m := new(saferith.Nat).SetUint64(uint64(prime))
	return &Field{modulus: saferith.ModulusFromNat(m), prime: prime}
}

// Prime returns the field's modulus.
func (f *Field) Prime() int64 { return f.prime }

func (f *Field) natFromInt64(x int64) *saferith.Nat {
	r := x % f.prime
	if r < 0 {
		r += f.prime
	}
	return new(saferith.Nat).SetUint64(uint64(r))
}

func (f *Field) int64FromNat(n *saferith.Nat) int64 {
	return int64(n.Big().Uint64())
}

// Reduce maps an arbitrary signed integer into [0, prime).
func (f *Field) Reduce(x int64) int64 {
	return f.int64FromNat(f.natFromInt64(x))
}

// Add returns (a+b) mod prime.
func (f *Field) Add(a, b int64) int64 {
	z := new(saferith.Nat).ModAdd(f.natFromInt64(a), f.natFromInt64(b), f.modulus)
	return f.int64FromNat(z)
}

// Sub returns (a-b) mod prime.
func (f *Field) Sub(a, b int64) int64 {
	z := new(saferith.Nat).ModSub(f.natFromInt64(a), f.natFromInt64(b), f.modulus)
	return f.int64FromNat(z)
}

// Mul returns (a*b) mod prime.
func (f *Field) Mul(a, b int64) int64 {
	z := new(saferith.Nat).ModMul(f.natFromInt64(a), f.natFromInt64(b), f.modulus)
	return f.int64FromNat(z)
}

// Pow returns (base^exp) mod prime for a non-negative exp.
func (f *Field) Pow(base, exp int64) int64 {
	x := f.natFromInt64(base)
	e := new(saferith.Nat).SetUint64(uint64(exp))
	z := new(saferith.Nat).Exp(x, e, f.modulus)
	return f.int64FromNat(z)
}

// Inverse returns the multiplicative inverse of a mod prime. The caller must
// ensure a is not congruent to 0.
func (f *Field) Inverse(a int64) (int64, error) {
	reduced := f.Reduce(a)
	if reduced == 0 {
		return 0, fmt.Errorf("polynomial: no inverse for 0 mod %d", f.prime)
	}
	z := new(saferith.Nat).ModInverse(f.natFromInt64(a), f.modulus)
	return f.int64FromNat(z), nil
}

// LagrangeInterpolate evaluates, at atX, the unique polynomial of degree
// < len(xs) such that p(xs[i]) == ys[i] for every i. It is the single
// primitive packed Shamir uses both to build the packed polynomial from its
// defining points and to reconstruct secrets from a share subset; a direct
// O(n^2) evaluation stands in for a dedicated FFT-based implementation,
// since correctness (not asymptotic performance) is what this protocol's
// properties require.
func (f *Field) LagrangeInterpolate(xs, ys []int64, atX int64) (int64, error) {
	n := len(xs)
	result := int64(0)
	for i := 0; i < n; i++ {
		term := f.Reduce(ys[i])
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			num := f.Sub(atX, xs[j])
			den := f.Sub(xs[i], xs[j])
			if den == 0 {
				return 0, fmt.Errorf("polynomial: duplicate interpolation point %d", xs[i])
			}
			denInv, err := f.Inverse(den)
			if err != nil {
				return 0, err
			}
			term = f.Mul(term, f.Mul(num, denInv))
		}
		result = f.Add(result, term)
	}
	return result, nil
}
