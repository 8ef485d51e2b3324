package agents

import (
	"github.com/talgya/mini-bourse/internal/exchange"
	"github.com/talgya/mini-bourse/internal/rational"
)

// Factory produces one good from input goods and trades on its home
// currency's markets: output is sold for cash, inputs are restocked.
type Factory struct {
	ID     uint64                        `json:"id"`
	Name   string                        `json:"name"`
	Home   exchange.CurrencyID           `json:"home"`
	Output exchange.ResourceID           `json:"output"`
	Inputs []exchange.ResourceID         `json:"inputs,omitempty"`
	Rate   int64                         `json:"rate"` // peak output units per turn
	Cash   int64                         `json:"cash"`
	Stock  int64                         `json:"stock"`
	Supply map[exchange.ResourceID]int64 `json:"supply,omitempty"`
}

// Produce runs one turn of production at the given amplitude. Output is
// limited by the scarcest input supply; inputs are consumed one per unit.
func (f *Factory) Produce(amplitude float64) int64 {
	units := int64(float64(f.Rate) * amplitude)
	for _, in := range f.Inputs {
		if have := f.Supply[in]; have < units {
			units = have
		}
	}
	if units <= 0 {
		return 0
	}
	for _, in := range f.Inputs {
		f.Supply[in] -= units
	}
	f.Stock += units
	return units
}

// Trade sells the turn's stock for home currency, then spends an even
// budget share restocking each input.
func (f *Factory) Trade(x *exchange.Exchange) {
	home := exchange.Fiat(f.Home)

	if f.Stock > 0 {
		v := x.Pool(exchange.Pair{X: exchange.Good(f.Output), Y: home})
		in := f.Stock
		f.Cash += v.Sell(&in)
		f.Stock = in
	}

	if len(f.Inputs) == 0 {
		return
	}
	budget := f.Cash / int64(len(f.Inputs)+1)
	for _, input := range f.Inputs {
		if budget <= 0 {
			break
		}
		v := x.Pool(exchange.Pair{X: home, Y: exchange.Good(input)})
		spend := budget
		got := v.Sell(&spend)
		f.Cash -= budget - spend
		if f.Supply == nil {
			f.Supply = make(map[exchange.ResourceID]int64)
		}
		f.Supply[input] += got
	}
}

// Population earns wages and consumes goods from its diet at its home
// currency's markets.
type Population struct {
	ID   uint64                `json:"id"`
	Name string                `json:"name"`
	Home exchange.CurrencyID   `json:"home"`
	Size int64                 `json:"size"`
	Cash int64                 `json:"cash"`
	Diet []exchange.ResourceID `json:"diet,omitempty"`
}

// Earn credits one turn of wages.
func (p *Population) Earn(wages int64) {
	p.Cash += wages
}

// Consume buys up to size*amplitude units of each diet good, splitting the
// available cash evenly across goods. Returns total units bought.
func (p *Population) Consume(x *exchange.Exchange, amplitude float64) int64 {
	if len(p.Diet) == 0 {
		return 0
	}
	need := int64(float64(p.Size) * amplitude)
	if need <= 0 {
		return 0
	}

	home := exchange.Fiat(p.Home)
	var bought int64
	share := p.Cash / int64(len(p.Diet))
	for _, g := range p.Diet {
		if share <= 0 {
			break
		}
		v := x.Pool(exchange.Pair{X: home, Y: exchange.Good(g)})
		spend := share
		got := v.Swap(&spend, need)
		p.Cash -= share - spend
		bought += got
	}
	return bought
}

// Country holds a fiat treasury, hunts cross-market arbitrage with it, and
// underwrites home-market liquidity.
type Country struct {
	ID       uint64                `json:"id"`
	Name     string                `json:"name"`
	Currency exchange.CurrencyID   `json:"currency"`
	Capital  int64                 `json:"capital"`
	Partners []exchange.CurrencyID `json:"partners,omitempty"`
}

// Arbitrage scans every partner currency as an export and executes the best
// round trip, if any, against the treasury.
func (c *Country) Arbitrage(x *exchange.Exchange) *exchange.Opportunity {
	return x.ArbitrateAll(c.Currency, c.Partners, &c.Capital)
}

// ExportArbitrage scans round trips exporting one specific resource.
func (c *Country) ExportArbitrage(x *exchange.Exchange, resource exchange.Asset) *exchange.Opportunity {
	return x.Arbitrate(resource, c.Currency, c.Partners, &c.Capital)
}

// Underwrite stakes treasury currency into the home-side reserve of a
// good's market and returns the ownership share received. The stake is
// capped at the treasury balance.
func (c *Country) Underwrite(x *exchange.Exchange, good exchange.ResourceID, amount int64) rational.Fraction {
	if amount > c.Capital {
		amount = c.Capital
	}
	if amount <= 0 {
		return rational.New(0, 1)
	}
	v := x.Pool(exchange.Pair{X: exchange.Fiat(c.Currency), Y: exchange.Good(good)})
	c.Capital -= amount
	return v.Stake(amount)
}
