package exchange

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-bourse/internal/rational"
)

func testMarket(capital int64) *Market {
	return NewMarket(Pair{X: Good(1), Y: Fiat(1)}, capital, rational.New(1, 100))
}

func TestCandleTracksTrades(t *testing.T) {
	m := testMarket(1000)
	require.Equal(t, NewCandle(1.0), m.Current)

	in := int64(500)
	m.Canonical().Sell(&in)
	// Reserves are now 1500/667; price fell.
	low := 667.0 / 1500.0
	assert.Equal(t, 1.0, m.Current.Open)
	assert.Equal(t, 1.0, m.Current.High)
	assert.InDelta(t, low, m.Current.Low, 1e-12)
	assert.InDelta(t, low, m.Current.Close, 1e-12)
}

func TestCandleTracksConjugateTrades(t *testing.T) {
	m := testMarket(1000)

	in := int64(500)
	m.Conjugate().Sell(&in)
	// Selling quote for base raises the canonical price.
	assert.Greater(t, m.Current.High, 1.0)
	assert.Equal(t, 1.0, m.Current.Low)
	assert.Equal(t, m.Current.High, m.Current.Close)
}

func TestTurnSnapshotsBeforeDrain(t *testing.T) {
	m := testMarket(1000)
	in := int64(500)
	m.Canonical().Sell(&in)
	preDrainClose := m.Current.Close

	m.Turn(8)

	require.Len(t, m.History, 1)
	iv := m.History[0]
	assert.Equal(t, preDrainClose, iv.Candle.Close, "snapshot reflects the trading turn, not the drain")
	assert.Equal(t, int64(500), iv.Vol.Base.In)
	assert.Equal(t, int64(333), iv.Vol.Quote.Out)
	assert.InDelta(t, math.Sqrt(1500*667), iv.Liquidity, 1e-9)

	// Dividend drained 1% (floored) and the fresh candle opened post-drain.
	assert.Equal(t, int64(1485), m.Pool.Res.Base)
	assert.Equal(t, int64(661), m.Pool.Res.Quote)
	post := 661.0 / 1485.0
	assert.InDelta(t, post, m.Current.Open, 1e-12)
	assert.Equal(t, m.Current.Open, m.Current.Close)

	// Volumes reset for the new turn.
	assert.Equal(t, int64(0), m.Pool.Vol.Base.In)
	assert.Equal(t, int64(0), m.Pool.Vol.Quote.Out)
}

func TestHistoryBoundFIFO(t *testing.T) {
	m := testMarket(1000)

	var closed []Interval
	for i := 0; i < 10; i++ {
		in := int64(10 + i)
		m.Canonical().Sell(&in)
		m.Turn(4)
		assert.LessOrEqual(t, len(m.History), 4)
		closed = append(closed, m.History[len(m.History)-1])
	}

	// Oldest dropped first: what remains is exactly the last four closes.
	require.Len(t, m.History, 4)
	assert.Equal(t, closed[6:], m.History)
}

func TestLastClose(t *testing.T) {
	m := testMarket(1000)
	_, ok := m.LastClose()
	assert.False(t, ok)

	m.Turn(8)
	got, ok := m.LastClose()
	require.True(t, ok)
	assert.Equal(t, 1.0, got)
}
