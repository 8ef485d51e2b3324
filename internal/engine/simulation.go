// Package engine runs the simulation each turn: production, trading,
// consumption, arbitrage, then the exchange turn boundary. Phases are
// strictly sequential; trading never overlaps the candle rollover.
package engine

import (
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/mini-bourse/internal/agents"
	"github.com/talgya/mini-bourse/internal/exchange"
)

// Simulation holds the complete economic state and wires systems together.
type Simulation struct {
	Exchange    *exchange.Exchange
	Factories   []*agents.Factory
	Populations []*agents.Population
	Countries   []*agents.Country

	Cycle    *agents.Cycle
	LastTurn uint64

	// Statistics tracked per turn.
	Stats SimStats
}

// SimStats tracks aggregate per-turn statistics.
type SimStats struct {
	Markets         int   `json:"markets"`
	Produced        int64 `json:"produced"`
	Consumed        int64 `json:"consumed"`
	FactoryCash     int64 `json:"factory_cash"`
	PopulationCash  int64 `json:"population_cash"`
	CountryCapital  int64 `json:"country_capital"`
	ArbitrageTrades int   `json:"arbitrage_trades"`
	ArbitrageProfit int64 `json:"arbitrage_profit"`
}

// NewSimulation creates a simulation over an exchange with its agents.
func NewSimulation(x *exchange.Exchange, seed int64) *Simulation {
	return &Simulation{
		Exchange: x,
		Cycle:    agents.NewCycle(seed),
	}
}

// CurrentTurn returns the most recently processed turn number.
func (s *Simulation) CurrentTurn() uint64 {
	return s.LastTurn
}

// TickTurn runs one full simulated turn.
func (s *Simulation) TickTurn(turn uint64) {
	s.LastTurn = turn
	s.Stats.Produced = 0
	s.Stats.Consumed = 0
	s.Stats.ArbitrageTrades = 0
	s.Stats.ArbitrageProfit = 0

	// Production and factory trading.
	for _, f := range s.Factories {
		amp := s.Cycle.Amplitude(turn, f.ID)
		s.Stats.Produced += f.Produce(amp)
		f.Trade(s.Exchange)
	}

	// Wages and consumption.
	for _, p := range s.Populations {
		amp := s.Cycle.Amplitude(turn, p.ID)
		p.Earn(p.Size)
		s.Stats.Consumed += p.Consume(s.Exchange, amp)
	}

	// Treasury arbitrage.
	for _, c := range s.Countries {
		if opp := c.Arbitrage(s.Exchange); opp != nil {
			s.Stats.ArbitrageTrades++
			s.Stats.ArbitrageProfit += opp.Profit
			slog.Debug("arbitrage executed",
				"country", c.Name,
				"via", exchange.Fiat(opp.Market).Code(),
				"profit", opp.Profit,
				"volume", opp.Volume,
				"forex_bottleneck", opp.ForexBottleneck,
			)
		}
	}

	// Turn boundary: candles roll, dividends drain, volumes reset.
	s.Exchange.Turn()

	s.updateStats()
}

func (s *Simulation) updateStats() {
	s.Stats.Markets = s.Exchange.Len()
	s.Stats.FactoryCash = 0
	s.Stats.PopulationCash = 0
	s.Stats.CountryCapital = 0
	for _, f := range s.Factories {
		s.Stats.FactoryCash += f.Cash
	}
	for _, p := range s.Populations {
		s.Stats.PopulationCash += p.Cash
	}
	for _, c := range s.Countries {
		s.Stats.CountryCapital += c.Capital
	}
}

// Report logs the turn summary.
func (s *Simulation) Report() {
	slog.Info("turn report",
		"turn", s.LastTurn,
		"markets", s.Stats.Markets,
		"produced", humanize.Comma(s.Stats.Produced),
		"consumed", humanize.Comma(s.Stats.Consumed),
		"factory_cash", humanize.Comma(s.Stats.FactoryCash),
		"population_cash", humanize.Comma(s.Stats.PopulationCash),
		"country_capital", humanize.Comma(s.Stats.CountryCapital),
		"arb_trades", s.Stats.ArbitrageTrades,
		"arb_profit", humanize.Comma(s.Stats.ArbitrageProfit),
	)
}
