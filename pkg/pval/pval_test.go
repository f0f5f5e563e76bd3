package pval_test

import (
	"testing"

	"github.com/fyerfyer/atpg-engine/pkg/pval"
	"github.com/stretchr/testify/require"
)

func TestNewVal3Normalizes(t *testing.T) {
	v := pval.NewVal3(0b11, 0b11)
	require.Equal(t, pval.Val(0), v.Zero, "One must win any overlap")
	require.Equal(t, pval.Val(0b11), v.One)
}

func TestAndOrTruthTable(t *testing.T) {
	zero := pval.NewVal3(1, 0)
	one := pval.NewVal3(0, 1)
	x := pval.X3

	require.Equal(t, 0, zero.And(one).Bit(0))
	require.Equal(t, 0, zero.And(zero).Bit(0))
	require.Equal(t, -1, one.And(x).Bit(0))
	require.Equal(t, 1, one.Or(zero).Bit(0))
	require.Equal(t, 0, zero.Or(zero).Bit(0))
	require.Equal(t, -1, zero.Or(x).Bit(0))
}

func TestXorNeverSetsBothBits(t *testing.T) {
	for _, a := range []pval.Val3{pval.NewVal3(1, 0), pval.NewVal3(0, 1), pval.X3} {
		for _, b := range []pval.Val3{pval.NewVal3(1, 0), pval.NewVal3(0, 1), pval.X3} {
			r := a.Xor(b)
			require.Zero(t, r.Zero&r.One, "xor result must stay normalized")
		}
	}
}

func TestXorTruthTable(t *testing.T) {
	zero := pval.NewVal3(1, 0)
	one := pval.NewVal3(0, 1)

	require.Equal(t, 0, zero.Xor(zero).Bit(0))
	require.Equal(t, 1, zero.Xor(one).Bit(0))
	require.Equal(t, 1, one.Xor(zero).Bit(0))
	require.Equal(t, 0, one.Xor(one).Bit(0))
}

func TestSetBitRoundTrip(t *testing.T) {
	v := pval.X3
	v = v.SetBit(3, 1)
	v = v.SetBit(5, 0)
	require.Equal(t, 1, v.Bit(3))
	require.Equal(t, 0, v.Bit(5))
	require.Equal(t, -1, v.Bit(0))
}

func TestMergeWithMask(t *testing.T) {
	base := pval.NewVal3(0b0101, 0b0000)
	overlay := pval.NewVal3(0b0000, 0b1111)
	merged := base.MergeWithMask(overlay, 0b0011)
	require.Equal(t, 1, merged.Bit(0))
	require.Equal(t, 1, merged.Bit(1))
	require.Equal(t, 0, merged.Bit(2))
}

func TestPopCount(t *testing.T) {
	require.Equal(t, 3, pval.Val(0b1011).PopCount())
}
