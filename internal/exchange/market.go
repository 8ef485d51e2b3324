package exchange

import (
	"math"

	"github.com/talgya/mini-bourse/internal/amm"
	"github.com/talgya/mini-bourse/internal/rational"
)

// Candle is an OHLC price summary for one turn interval, in canonical
// orientation (quote per base).
type Candle struct {
	Open  float64 `json:"open"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Close float64 `json:"close"`
}

// NewCandle opens a candle with every leg at price p.
func NewCandle(p float64) Candle {
	return Candle{Open: p, Low: p, High: p, Close: p}
}

// Update folds a new trade price into the candle.
func (c *Candle) Update(p float64) {
	if p < c.Low {
		c.Low = p
	}
	if p > c.High {
		c.High = p
	}
	c.Close = p
}

// Interval is one closed turn of trading: the candle, the turnover, and a
// liquidity-depth snapshot sqrt(base*quote).
type Interval struct {
	Candle    Candle     `json:"candle"`
	Vol       amm.Volume `json:"volume"`
	Liquidity float64    `json:"liquidity"`
}

// Market owns one pool for one canonical asset pair, plus its candle
// bookkeeping. It is not responsible for canonicalization; the Exchange
// resolves orientation before handing out views.
type Market struct {
	ID       Pair
	Dividend rational.Fraction
	Pool     *amm.Pool
	History  []Interval
	Current  Candle
}

// NewMarket creates a market seeded with capital units on both reserves.
func NewMarket(id Pair, capital int64, dividend rational.Fraction) *Market {
	pool := amm.New(capital, capital)
	return &Market{
		ID:       id,
		Dividend: dividend,
		Pool:     pool,
		Current:  NewCandle(pool.Canonical().Price()),
	}
}

// Canonical returns the stored-orientation pool view. Any mutation through
// it updates the open candle.
func (m *Market) Canonical() amm.View {
	return m.Pool.ViewWith(false, m.touch)
}

// Conjugate returns the transposed pool view with the same candle hook.
func (m *Market) Conjugate() amm.View {
	return m.Pool.ViewWith(true, m.touch)
}

// View returns the pool view for the requested orientation.
func (m *Market) View(conj bool) amm.View {
	return m.Pool.ViewWith(conj, m.touch)
}

func (m *Market) touch() {
	m.Current.Update(m.Pool.Canonical().Price())
}

// Liquidity returns the depth metric sqrt(base*quote).
func (m *Market) Liquidity() float64 {
	r := m.Pool.Res
	return math.Sqrt(float64(r.Base) * float64(r.Quote))
}

// LastClose returns the close of the most recently closed interval.
func (m *Market) LastClose() (float64, bool) {
	if len(m.History) == 0 {
		return 0, false
	}
	return m.History[len(m.History)-1].Candle.Close, true
}

// Turn closes the trading interval. The snapshot is taken before the
// dividend drain so history reflects the turn's actual price action; the
// fresh candle opens at the post-drain price.
func (m *Market) Turn(historyDepth int) {
	if historyDepth < 1 {
		m.History = m.History[:0]
	} else if keep := historyDepth - 1; len(m.History) > keep {
		m.History = append(m.History[:0], m.History[len(m.History)-keep:]...)
	}
	if historyDepth > 0 {
		m.History = append(m.History, Interval{
			Candle:    m.Current,
			Vol:       m.Pool.Vol,
			Liquidity: m.Liquidity(),
		})
	}
	m.Pool.Drain(m.Dividend)
	m.Current = NewCandle(m.Pool.Canonical().Price())
	m.Pool.ResetVolume()
}
