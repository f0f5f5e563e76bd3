// Package tv implements TestVector: a per-bit {0,1,X} pattern over a
// Network's PPIs (spec §3 "TestVector").
package tv

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/fyerfyer/atpg-engine/pkg/pval"
)

// Bit is one position of a Vector.
type Bit int8

const (
	Zero Bit = iota
	One
	X
)

func (b Bit) String() string {
	switch b {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "X"
	}
}

// Vector is a 3-valued test pattern, one Bit per PPI (or per PPI per frame
// in transition mode — the caller is responsible for the 2x layout).
type Vector []Bit

// New returns a Vector of length n with every position X.
func New(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = X
	}
	return v
}

// Get returns the value at position i.
func (v Vector) Get(i int) Bit { return v[i] }

// Set assigns the value at position i.
func (v Vector) Set(i int, b Bit) { v[i] = b }

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// Merge returns the compatible union of a and b: ok is false iff some
// position holds distinct 0/1 values in a and b, in which case the
// returned Vector is nil and neither input is mutated (spec §3 TestVector
// invariant, spec §8 merge property).
func Merge(a, b Vector) (Vector, bool) {
	if len(a) != len(b) {
		return nil, false
	}
	out := make(Vector, len(a))
	for i := range a {
		switch {
		case a[i] == X:
			out[i] = b[i]
		case b[i] == X:
			out[i] = a[i]
		case a[i] == b[i]:
			out[i] = a[i]
		default:
			return nil, false
		}
	}
	return out, true
}

// RandomFill assigns a random 0/1 to every X position.
func (v Vector) RandomFill(rng *rand.Rand) {
	for i, b := range v {
		if b == X {
			if rng.Intn(2) == 0 {
				v[i] = Zero
			} else {
				v[i] = One
			}
		}
	}
}

// Pack writes v's bits into slot `slot` of dst, one Val3 per PPI position;
// len(dst) must equal len(v) (spec §4.3 "packed-bit encoding for
// simulation ingestion").
func (v Vector) Pack(dst []pval.Val3, slot int) {
	for i, b := range v {
		switch b {
		case Zero:
			dst[i] = dst[i].SetBit(slot, 0)
		case One:
			dst[i] = dst[i].SetBit(slot, 1)
		default:
			dst[i] = dst[i].SetBit(slot, -1)
		}
	}
}

// ToBinaryString renders v as a string of '0'/'1'/'X' characters.
func (v Vector) ToBinaryString() string {
	var sb strings.Builder
	sb.Grow(len(v))
	for _, b := range v {
		sb.WriteString(b.String())
	}
	return sb.String()
}

// FromBinaryString parses the inverse of ToBinaryString.
func FromBinaryString(s string) (Vector, error) {
	v := make(Vector, len(s))
	for i, c := range s {
		switch c {
		case '0':
			v[i] = Zero
		case '1':
			v[i] = One
		case 'X', 'x':
			v[i] = X
		default:
			return nil, fmt.Errorf("tv: invalid character %q at position %d", c, i)
		}
	}
	return v, nil
}

// ToHexString renders v as hex nibbles, most-significant bit first within
// each nibble. It is defined only for vectors with no X position (spec §8
// "from_hex_string(to_hex_string(tv_without_X)) = tv_without_X").
func (v Vector) ToHexString() (string, error) {
	var sb strings.Builder
	for i := 0; i < len(v); i += 4 {
		nibble := 0
		for j := 0; j < 4; j++ {
			nibble <<= 1
			if i+j < len(v) {
				switch v[i+j] {
				case One:
					nibble |= 1
				case Zero:
				default:
					return "", fmt.Errorf("tv: cannot render X bit at position %d as hex", i+j)
				}
			}
		}
		sb.WriteString(strconv.FormatInt(int64(nibble), 16))
	}
	return sb.String(), nil
}

// FromHexString parses the inverse of ToHexString into a Vector of the
// given bit length.
func FromHexString(s string, bitLen int) (Vector, error) {
	v := make(Vector, bitLen)
	for i, c := range s {
		nibble, err := strconv.ParseInt(string(c), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("tv: invalid hex digit %q: %w", c, err)
		}
		for j := 0; j < 4; j++ {
			pos := i*4 + j
			if pos >= bitLen {
				break
			}
			if nibble&(1<<(3-uint(j))) != 0 {
				v[pos] = One
			} else {
				v[pos] = Zero
			}
		}
	}
	return v, nil
}
