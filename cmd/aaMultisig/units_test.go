package main

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseEther(t *testing.T) {
	t.Run("Should convert decimal amounts to wei", func(t *testing.T) {
		wei, err := parseEther("0.008")
		require.NoError(t, err)
		assert.Equal(t, "8000000000000000", wei.String())

		wei, err = parseEther("2")
		require.NoError(t, err)
		assert.Equal(t, "2000000000000000000", wei.String())

		wei, err = parseEther("0.000000000000000001")
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(1), wei)
	})

	t.Run("Should reject invalid amounts", func(t *testing.T) {
		for _, amount := range []string{"", "abc", "-1", "0.0000000000000000001"} {
			_, err := parseEther(amount)
			assert.Error(t, err, amount)
		}
	})
}

func Test_FormatEther(t *testing.T) {
	t.Run("Should trim trailing zeros", func(t *testing.T) {
		assert.Equal(t, "0.008", formatEther(big.NewInt(8_000_000_000_000_000)))
		assert.Equal(t, "1", formatEther(big.NewInt(1_000_000_000_000_000_000)))
		assert.Equal(t, "0", formatEther(big.NewInt(0)))
		assert.Equal(t, "0", formatEther(nil))
	})
}
