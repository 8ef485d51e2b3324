package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-bourse/internal/exchange"
	"github.com/talgya/mini-bourse/internal/rational"
)

func testExchange() *exchange.Exchange {
	return exchange.New(exchange.Settings{
		DividendRate:   rational.New(1, 100),
		Fee:            rational.New(0, 1),
		InitialCapital: 1000,
		HistoryDepth:   8,
	})
}

func TestCycleDeterministicAndBounded(t *testing.T) {
	a := NewCycle(42)
	b := NewCycle(42)

	for turn := uint64(1); turn <= 50; turn++ {
		got := a.Amplitude(turn, 3)
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
		assert.Equal(t, got, b.Amplitude(turn, 3))
	}
}

func TestFactoryProduceLimitedByInputs(t *testing.T) {
	f := &Factory{
		Rate:   10,
		Inputs: []exchange.ResourceID{1, 2},
		Supply: map[exchange.ResourceID]int64{1: 3, 2: 100},
	}

	got := f.Produce(1.0)

	assert.Equal(t, int64(3), got, "scarcest input caps output")
	assert.Equal(t, int64(3), f.Stock)
	assert.Equal(t, int64(0), f.Supply[1])
	assert.Equal(t, int64(97), f.Supply[2])
}

func TestFactoryTradeSellsStockAndRestocks(t *testing.T) {
	x := testExchange()
	f := &Factory{
		ID:     1,
		Home:   1,
		Output: 4,
		Inputs: []exchange.ResourceID{2},
		Rate:   10,
		Cash:   200,
		Stock:  100,
		Supply: map[exchange.ResourceID]int64{},
	}

	f.Trade(x)

	assert.Less(t, f.Stock, int64(100), "stock was sold")
	assert.Greater(t, f.Cash, int64(0))
	assert.Greater(t, f.Supply[2], int64(0), "input restocked")

	// The output market took the sale: its good reserve grew.
	v := x.Pool(exchange.Pair{X: exchange.Good(4), Y: exchange.Fiat(1)})
	assert.Greater(t, v.Reserves().Base, int64(1000))
}

func TestPopulationConsume(t *testing.T) {
	x := testExchange()
	p := &Population{ID: 1, Home: 1, Size: 50, Cash: 400, Diet: []exchange.ResourceID{1, 4}}

	bought := p.Consume(x, 0.5)

	assert.Greater(t, bought, int64(0))
	assert.LessOrEqual(t, bought, int64(50), "at most need units per diet good")
	assert.Less(t, p.Cash, int64(400))

	// Zero amplitude is a no-op.
	cash := p.Cash
	assert.Equal(t, int64(0), p.Consume(x, 0))
	assert.Equal(t, cash, p.Cash)
}

func TestCountryUnderwrite(t *testing.T) {
	x := testExchange()
	c := &Country{ID: 1, Currency: 1, Capital: 500}

	share := c.Underwrite(x, 1, 800)

	assert.Equal(t, int64(0), c.Capital, "stake capped at the treasury")
	assert.Equal(t, rational.New(500, 1500), share)

	v := x.Pool(exchange.Pair{X: exchange.Fiat(1), Y: exchange.Good(1)})
	require.Equal(t, int64(1500), v.Reserves().Base)
}

func TestCountryArbitrageNoOpportunity(t *testing.T) {
	x := testExchange()
	c := &Country{ID: 1, Currency: 1, Capital: 500, Partners: []exchange.CurrencyID{2, 3}}

	opp := c.Arbitrage(x)

	assert.Nil(t, opp)
	assert.Equal(t, int64(500), c.Capital)
}
