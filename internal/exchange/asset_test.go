package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b Asset
		less bool
	}{
		{"Good before fiat", Good(99), Fiat(1), true},
		{"Fiat after good", Fiat(1), Good(99), false},
		{"Goods by raw id", Good(3), Good(7), true},
		{"Fiats by raw id", Fiat(2), Fiat(5), true},
		{"Equal is not less", Fiat(4), Fiat(4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.less, tt.a.Less(tt.b))
		})
	}
}

func TestPairCodes(t *testing.T) {
	p := Pair{X: Good(3), Y: Fiat(7)}
	assert.Equal(t, "3/F7", p.Code())
	assert.Equal(t, "F7/3", p.Conjugate().Code())

	parsed, err := ParsePair("3/F7")
	require.NoError(t, err)
	assert.Equal(t, p, parsed)

	fx, err := ParsePair("F2/F11")
	require.NoError(t, err)
	assert.Equal(t, Pair{X: Fiat(2), Y: Fiat(11)}, fx)
}

func TestParsePairErrors(t *testing.T) {
	_, err := ParsePair("3F7")
	assert.Error(t, err)
	_, err = ParsePair("x/F7")
	assert.Error(t, err)
	_, err = ParsePair("3/Fy")
	assert.Error(t, err)
}

func TestCanonicalization(t *testing.T) {
	canon, conj := Pair{X: Fiat(7), Y: Good(3)}.Canonical()
	assert.True(t, conj)
	assert.Equal(t, Pair{X: Good(3), Y: Fiat(7)}, canon)

	canon, conj = Pair{X: Good(3), Y: Fiat(7)}.Canonical()
	assert.False(t, conj)
	assert.Equal(t, Pair{X: Good(3), Y: Fiat(7)}, canon)

	// Same-kind pairs order by raw id ascending.
	canon, conj = Pair{X: Fiat(9), Y: Fiat(2)}.Canonical()
	assert.True(t, conj)
	assert.Equal(t, Pair{X: Fiat(2), Y: Fiat(9)}, canon)

	// Canonicalizing a canonical pair is the identity.
	again, conj := canon.Canonical()
	assert.False(t, conj)
	assert.Equal(t, canon, again)
}
