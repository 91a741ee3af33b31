package bloom_test

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/canonbase/canon/bloom"
	"github.com/stretchr/testify/assert"
)

func hashOf(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestFilter_AddAndMightContain(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Hash not yet added should return false
	assert.False(t, f.MightContain(hashOf("doc one")))

	// Add hash
	f.Add(hashOf("doc one"))

	// Now it should return true
	assert.True(t, f.MightContain(hashOf("doc one")))

	// Different hash should still return false
	assert.False(t, f.MightContain(hashOf("doc two")))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	// Empty filter should have count near 0
	assert.Equal(t, uint(0), f.EstimatedCount())

	// Add some hashes
	f.Add(hashOf("doc one"))
	f.Add(hashOf("doc two"))
	f.Add(hashOf("doc three"))

	// Estimated count should be approximately 3
	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	hash := hashOf("doc one")

	f.Add(hash)
	countAfterFirst := f.EstimatedCount()

	// Adding the same hash multiple times should not change the filter
	f.Add(hash)
	f.Add(hash)
	f.Add(hash)

	assert.Equal(t, countAfterFirst, f.EstimatedCount())
	assert.True(t, f.MightContain(hash))
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	// Add 10k hashes
	for i := range numItems {
		f.Add(hashOf(fmt.Sprintf("added/%d", i)))
	}

	// Test with 10k hashes that were NOT added
	falsePositives := 0
	for i := range testProbes {
		if f.MightContain(hashOf(fmt.Sprintf("notadded/%d", i))) {
			falsePositives++
		}
	}

	// False positive rate should be approximately 1%
	// Allow up to 2% to account for statistical variance
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
