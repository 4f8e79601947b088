package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	gen := NewRandomGenerator()

	for _, length := range []int{1, 4, 6, 8} {
		code, err := gen.Generate(length)
		require.NoError(t, err)
		require.Len(t, code, length)

		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "unexpected rune %q in code %q", r, code)
		}
	}
}

func TestGenerateZeroLength(t *testing.T) {
	gen := NewRandomGenerator()

	code, err := gen.Generate(0)
	require.NoError(t, err)
	assert.Empty(t, code)
}

// With 10k draws from a uniform 6-digit space the expected number of
// colliding pairs is about 50 (birthday bound n^2/2m). A heavily skewed
// generator collides orders of magnitude more often, so a loose ceiling
// catches bias without making the test flaky.
func TestGenerateDistributionSanity(t *testing.T) {
	gen := NewRandomGenerator()

	const draws = 10000
	seen := make(map[string]int, draws)
	for i := 0; i < draws; i++ {
		code, err := gen.Generate(6)
		require.NoError(t, err)
		seen[code]++
	}

	collisions := draws - len(seen)
	assert.Less(t, collisions, 200, "too many repeated codes for a uniform draw")

	// No single value should dominate.
	for code, n := range seen {
		assert.LessOrEqual(t, n, 4, "code %q repeated %d times", code, n)
	}
}
