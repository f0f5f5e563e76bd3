package tv_test

import (
	"math/rand"
	"testing"

	"github.com/fyerfyer/atpg-engine/pkg/pval"
	"github.com/fyerfyer/atpg-engine/pkg/tv"
	"github.com/stretchr/testify/require"
)

func TestMergeCompatible(t *testing.T) {
	a := tv.Vector{tv.Zero, tv.X, tv.One}
	b := tv.Vector{tv.X, tv.One, tv.One}
	m, ok := tv.Merge(a, b)
	require.True(t, ok)
	require.Equal(t, tv.Vector{tv.Zero, tv.One, tv.One}, m)
	// inputs untouched
	require.Equal(t, tv.Bit(tv.Zero), a[0])
	require.Equal(t, tv.Bit(tv.X), a[1])
}

func TestMergeIncompatible(t *testing.T) {
	a := tv.Vector{tv.Zero}
	b := tv.Vector{tv.One}
	_, ok := tv.Merge(a, b)
	require.False(t, ok)
}

func TestBinaryStringRoundTrip(t *testing.T) {
	v := tv.Vector{tv.Zero, tv.One, tv.X, tv.One}
	s := v.ToBinaryString()
	require.Equal(t, "01X1", s)
	back, err := tv.FromBinaryString(s)
	require.NoError(t, err)
	require.Equal(t, v, back)
}

func TestHexStringRoundTripNoX(t *testing.T) {
	v := tv.Vector{tv.One, tv.Zero, tv.One, tv.One, tv.Zero, tv.Zero, tv.One, tv.Zero}
	s, err := v.ToHexString()
	require.NoError(t, err)
	back, err := tv.FromHexString(s, len(v))
	require.NoError(t, err)
	require.Equal(t, v, back)
}

func TestHexStringRejectsX(t *testing.T) {
	v := tv.Vector{tv.X, tv.Zero, tv.One, tv.One}
	_, err := v.ToHexString()
	require.Error(t, err)
}

func TestRandomFillOnlyTouchesX(t *testing.T) {
	v := tv.Vector{tv.Zero, tv.X, tv.One, tv.X}
	rng := rand.New(rand.NewSource(1))
	v.RandomFill(rng)
	require.Equal(t, tv.Zero, v[0])
	require.Equal(t, tv.One, v[2])
	require.NotEqual(t, tv.X, v[1])
	require.NotEqual(t, tv.X, v[3])
}

func TestPackSetsSlotBits(t *testing.T) {
	v := tv.Vector{tv.Zero, tv.One, tv.X}
	dst := make([]pval.Val3, 3)
	v.Pack(dst, 5)
	require.Equal(t, 0, dst[0].Bit(5))
	require.Equal(t, 1, dst[1].Bit(5))
	require.Equal(t, -1, dst[2].Bit(5))
}
