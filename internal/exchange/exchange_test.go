package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-bourse/internal/amm"
	"github.com/talgya/mini-bourse/internal/rational"
)

func testSettings() Settings {
	return Settings{
		DividendRate:   rational.New(1, 100),
		Fee:            rational.New(0, 1),
		InitialCapital: 1000,
		HistoryDepth:   8,
	}
}

func TestLazyMarketCreation(t *testing.T) {
	x := New(testSettings())
	assert.Equal(t, 0, x.Len())

	v := x.Pool(Pair{X: Good(3), Y: Fiat(7)})
	assert.Equal(t, 1, x.Len())
	assert.Equal(t, amm.Assets{Base: 1000, Quote: 1000}, v.Reserves())

	// Accessing the same pair again, in either order, creates nothing.
	x.Pool(Pair{X: Good(3), Y: Fiat(7)})
	x.Pool(Pair{X: Fiat(7), Y: Good(3)})
	assert.Equal(t, 1, x.Len())
	assert.Equal(t, []Pair{{X: Good(3), Y: Fiat(7)}}, x.Pairs())
}

func TestConjugateAddressesSameReserves(t *testing.T) {
	x := New(testSettings())
	fwd := x.Pool(Pair{X: Good(3), Y: Fiat(7)})
	rev := x.Pool(Pair{X: Fiat(7), Y: Good(3)})

	in := int64(500)
	fwd.Sell(&in)

	r := rev.Reserves()
	assert.Equal(t, amm.Assets{Base: 667, Quote: 1500}, r, "trade through one orientation is visible transposed through the other")
}

func TestMarketStoredUnderCanonicalKey(t *testing.T) {
	x := New(testSettings())
	m, conj := x.Market(Pair{X: Fiat(7), Y: Good(3)})
	assert.True(t, conj)
	assert.Equal(t, Pair{X: Good(3), Y: Fiat(7)}, m.ID)
}

func TestPriceDefaultsToOne(t *testing.T) {
	x := New(testSettings())
	assert.Equal(t, 1.0, x.Price(Good(3), Fiat(7)), "no market")

	x.Pool(Pair{X: Good(3), Y: Fiat(7)})
	assert.Equal(t, 1.0, x.Price(Good(3), Fiat(7)), "market but no closed interval")
}

func TestPriceDirection(t *testing.T) {
	x := New(testSettings())
	v := x.Pool(Pair{X: Good(3), Y: Fiat(7)})
	in := int64(500)
	v.Sell(&in)
	x.Turn()

	p := x.Price(Good(3), Fiat(7))
	q := x.Price(Fiat(7), Good(3))
	require.Greater(t, p, 0.0)
	assert.InDelta(t, 1.0/p, q, 1e-12)
	assert.Less(t, p, 1.0, "selling the good lowered its price")
}

func TestTurnAdvancesAllMarkets(t *testing.T) {
	x := New(testSettings())
	x.Pool(Pair{X: Good(1), Y: Fiat(1)})
	x.Pool(Pair{X: Good(2), Y: Fiat(1)})

	x.Turn()
	x.Turn()

	x.Each(func(m *Market) {
		assert.Len(t, m.History, 2)
	})
}

func TestRestorePreservesInsertionOrder(t *testing.T) {
	x := New(testSettings())
	a := NewMarket(Pair{X: Good(9), Y: Fiat(1)}, 1000, rational.New(1, 100))
	b := NewMarket(Pair{X: Good(2), Y: Fiat(1)}, 1000, rational.New(1, 100))

	x.Restore(a)
	x.Restore(b)

	// Insertion order, not sorted order.
	assert.Equal(t, []Pair{a.ID, b.ID}, x.Pairs())
}
