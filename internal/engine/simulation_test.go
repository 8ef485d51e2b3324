package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/mini-bourse/internal/exchange"
	"github.com/talgya/mini-bourse/internal/rational"
)

func testSimulation() *Simulation {
	x := exchange.New(exchange.Settings{
		DividendRate:   rational.New(1, 100),
		Fee:            rational.New(0, 1),
		InitialCapital: 1000,
		HistoryDepth:   4,
	})
	sim := NewSimulation(x, 42)
	sim.DefaultScenario()
	return sim
}

func TestDefaultScenarioShape(t *testing.T) {
	sim := testSimulation()

	assert.Len(t, sim.Factories, 12, "three raw producers and a toolworks per currency")
	assert.Len(t, sim.Populations, 3)
	assert.Len(t, sim.Countries, 3)
	for _, c := range sim.Countries {
		assert.Len(t, c.Partners, 2)
		assert.NotContains(t, c.Partners, c.Currency)
	}
}

func TestTickTurnAdvancesEconomy(t *testing.T) {
	sim := testSimulation()

	for turn := uint64(1); turn <= 6; turn++ {
		sim.TickTurn(turn)
	}

	assert.Equal(t, uint64(6), sim.CurrentTurn())
	assert.Greater(t, sim.Exchange.Len(), 0, "trading created markets")
	assert.Equal(t, sim.Exchange.Len(), sim.Stats.Markets)

	// Every market rolled six turns of history, bounded by the depth.
	sim.Exchange.Each(func(m *exchange.Market) {
		assert.LessOrEqual(t, len(m.History), 4)
		assert.GreaterOrEqual(t, m.Pool.Res.Base, int64(0))
		assert.GreaterOrEqual(t, m.Pool.Res.Quote, int64(0))
	})

	assert.GreaterOrEqual(t, sim.Stats.FactoryCash, int64(0))
	assert.GreaterOrEqual(t, sim.Stats.PopulationCash, int64(0))
	assert.GreaterOrEqual(t, sim.Stats.CountryCapital, int64(0))
}

func TestTickTurnIsDeterministic(t *testing.T) {
	a := testSimulation()
	b := testSimulation()

	for turn := uint64(1); turn <= 4; turn++ {
		a.TickTurn(turn)
		b.TickTurn(turn)
	}

	assert.Equal(t, a.Stats, b.Stats)
	require.Equal(t, a.Exchange.Pairs(), b.Exchange.Pairs())
	bMarkets := map[string]*exchange.Market{}
	b.Exchange.Each(func(m *exchange.Market) { bMarkets[m.ID.Code()] = m })
	a.Exchange.Each(func(m *exchange.Market) {
		other := bMarkets[m.ID.Code()]
		require.NotNil(t, other)
		assert.Equal(t, m.Pool.Res, other.Pool.Res)
		assert.Equal(t, m.History, other.History)
	})
}

func TestEngineRunTurns(t *testing.T) {
	sim := testSimulation()
	eng := NewEngine()
	eng.OnTurn = sim.TickTurn

	eng.RunTurns(5)

	assert.Equal(t, uint64(5), eng.Turn)
	assert.Equal(t, uint64(5), sim.CurrentTurn())
}
