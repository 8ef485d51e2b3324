package engine

import (
	"fmt"

	"github.com/talgya/mini-bourse/internal/agents"
	"github.com/talgya/mini-bourse/internal/exchange"
)

// Well-known goods for the default scenario.
const (
	GoodGrain  exchange.ResourceID = 1
	GoodTimber exchange.ResourceID = 2
	GoodIron   exchange.ResourceID = 3
	GoodTools  exchange.ResourceID = 4
)

// DefaultScenario populates the simulation with a small three-country
// economy: raw producers, a tool chain, populations, and arbitraging
// treasuries. Deterministic apart from the cycle seed already in place.
func (s *Simulation) DefaultScenario() {
	currencies := []exchange.CurrencyID{1, 2, 3}
	raws := []exchange.ResourceID{GoodGrain, GoodTimber, GoodIron}

	var id uint64
	for _, cur := range currencies {
		for _, out := range raws {
			id++
			s.Factories = append(s.Factories, &agents.Factory{
				ID:     id,
				Name:   fmt.Sprintf("factory-%d-%s", cur, exchange.Good(out).Code()),
				Home:   cur,
				Output: out,
				Rate:   40,
				Cash:   500,
			})
		}
		id++
		s.Factories = append(s.Factories, &agents.Factory{
			ID:     id,
			Name:   fmt.Sprintf("toolworks-%d", cur),
			Home:   cur,
			Output: GoodTools,
			Inputs: []exchange.ResourceID{GoodTimber, GoodIron},
			Rate:   15,
			Cash:   800,
			Supply: make(map[exchange.ResourceID]int64),
		})

		id++
		s.Populations = append(s.Populations, &agents.Population{
			ID:   id,
			Name: fmt.Sprintf("population-%d", cur),
			Home: cur,
			Size: 120,
			Cash: 1000,
			Diet: []exchange.ResourceID{GoodGrain, GoodTools},
		})

		id++
		partners := make([]exchange.CurrencyID, 0, len(currencies)-1)
		for _, p := range currencies {
			if p != cur {
				partners = append(partners, p)
			}
		}
		s.Countries = append(s.Countries, &agents.Country{
			ID:       id,
			Name:     fmt.Sprintf("country-%d", cur),
			Currency: cur,
			Capital:  5000,
			Partners: partners,
		})
	}
}
