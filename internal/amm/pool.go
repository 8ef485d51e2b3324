// Package amm implements the two-reserve constant-product market maker that
// clears all trades in the simulation. Settlement is exact int64 arithmetic;
// every rounding step has a fixed direction so the pool never under-collects
// a cost and never over-credits a payout.
package amm

import (
	"math"
	"math/bits"

	"github.com/talgya/mini-bourse/internal/rational"
)

// Assets is a pair of reserve amounts, both always >= 0.
type Assets struct {
	Base  int64 `json:"base"`
	Quote int64 `json:"quote"`
}

// Side tracks one instrument's turnover: taker inflow and maker outflow.
type Side struct {
	In  int64 `json:"i"`
	Out int64 `json:"o"`
}

// Total returns the combined turnover of the side.
func (s Side) Total() int64 {
	return s.In + s.Out
}

// Volume holds one Side per instrument. Reporting only; it never feeds back
// into pricing. Reset every turn.
type Volume struct {
	Base  Side `json:"base"`
	Quote Side `json:"quote"`
}

// Pool is one market's reserves and volume counters. Reserves change only
// through Sell/Swap/Buy/Stake/Drain; the product base*quote is non-decreasing
// except across an explicit Drain.
type Pool struct {
	Res Assets `json:"reserves"`
	Vol Volume `json:"volume"`
}

// New creates a pool seeded with the given reserves.
func New(base, quote int64) *Pool {
	return &Pool{Res: Assets{Base: base, Quote: quote}}
}

// ResetVolume zeroes the turnover counters. Called on a turn boundary.
func (p *Pool) ResetVolume() {
	p.Vol = Volume{}
}

// Drain removes fraction f of both reserves, floor-scaled so the pool is
// never over-drained, and returns the removed amounts.
func (p *Pool) Drain(f rational.Fraction) Assets {
	d := Assets{
		Base:  f.ScaleFloor(p.Res.Base),
		Quote: f.ScaleFloor(p.Res.Quote),
	}
	p.Res.Base -= d.Base
	p.Res.Quote -= d.Quote
	return d
}

// Canonical returns the pool's stored-orientation view.
func (p *Pool) Canonical() View {
	return View{p: p}
}

// Conjugate returns the transposed (base and quote swapped) view.
func (p *Pool) Conjugate() View {
	return View{p: p, conj: true}
}

// ViewWith returns a view with the given orientation and a hook that runs
// after every mutation through the view.
func (p *Pool) ViewWith(conj bool, after func()) View {
	return View{p: p, conj: conj, after: after}
}

// View is an orientation-aware accessor over a single stored pool. The
// conjugate view transposes base and quote rather than storing a second
// pool, so trades through either orientation move the same reserves.
type View struct {
	p     *Pool
	conj  bool
	after func()
}

// Conjugate returns the transposed view, keeping the mutation hook.
func (v View) Conjugate() View {
	return View{p: v.p, conj: !v.conj, after: v.after}
}

// Reserves returns the reserves in view orientation.
func (v View) Reserves() Assets {
	if v.conj {
		return Assets{Base: v.p.Res.Quote, Quote: v.p.Res.Base}
	}
	return v.p.Res
}

// Volume returns the turnover counters in view orientation.
func (v View) Volume() Volume {
	if v.conj {
		return Volume{Base: v.p.Vol.Quote, Quote: v.p.Vol.Base}
	}
	return v.p.Vol
}

// Price returns the marginal price quote/base as a float64. Reporting and
// candle bookkeeping only.
func (v View) Price() float64 {
	r := v.Reserves()
	return float64(r.Quote) / float64(r.Base)
}

// Quote computes, for a trader willing to spend up to baseIn of the base
// instrument, the maximum amount of quote instrument receivable and the
// exact base cost of receiving it. The amount is floored on the constant
// product curve; the cost is then back-solved with a ceiling so truncation
// can never under-collect.
func (v View) Quote(baseIn int64) (cost, amount int64) {
	return v.QuoteLimit(baseIn, math.MaxInt64)
}

// QuoteLimit is Quote with the receivable amount capped at limit.
func (v View) QuoteLimit(baseIn, limit int64) (cost, amount int64) {
	r := v.Reserves()
	amount = outForIn(r.Base, r.Quote, baseIn)
	if amount > limit {
		amount = limit
	}
	if amount == 0 {
		return 0, 0
	}
	cost = rational.MulDivCeil(r.Base, amount, r.Quote-amount)
	return cost, amount
}

// Ask returns the unit price of one base instrument, ceil(quote/(base-1)).
// It is undefined when the base reserve is below two units.
func (v View) Ask() (int64, bool) {
	r := v.Reserves()
	if r.Base < 2 {
		return 0, false
	}
	return rational.MulDivCeil(r.Quote, 1, r.Base-1), true
}

// Bid returns the unit price received for one base instrument,
// floor(quote/(base+1)).
func (v View) Bid() int64 {
	r := v.Reserves()
	return rational.MulDivFloor(r.Quote, 1, r.Base+1)
}

// Sell sells up to *baseIn of the base instrument for quote instrument.
// *baseIn is decremented by the amount actually consumed.
func (v View) Sell(baseIn *int64) (quoteOut int64) {
	return v.Swap(baseIn, math.MaxInt64)
}

// Swap is Sell with the received quote amount capped at limit.
func (v View) Swap(baseIn *int64, limit int64) (quoteOut int64) {
	cost, amount := v.QuoteLimit(*baseIn, limit)
	if amount == 0 {
		return 0
	}
	base, quote := v.res()
	vb, vq := v.vol()
	*base += cost
	*quote -= amount
	vb.In += cost
	vq.Out += amount
	*baseIn -= cost
	v.touch()
	return amount
}

// Buy spends up to *quoteIn of the quote instrument to receive up to limit
// base instrument. It is Swap on the conjugate orientation.
func (v View) Buy(limit int64, quoteIn *int64) (baseOut int64) {
	return v.Conjugate().Swap(quoteIn, limit)
}

// Stake adds baseAdded to the base reserve and returns the staker's
// ownership share of the post-stake pool. Ownership accounting is the
// caller's concern.
func (v View) Stake(baseAdded int64) rational.Fraction {
	base, _ := v.res()
	*base += baseAdded
	v.touch()
	return rational.New(baseAdded, *base)
}

func (v View) res() (base, quote *int64) {
	if v.conj {
		return &v.p.Res.Quote, &v.p.Res.Base
	}
	return &v.p.Res.Base, &v.p.Res.Quote
}

func (v View) vol() (base, quote *Side) {
	if v.conj {
		return &v.p.Vol.Quote, &v.p.Vol.Base
	}
	return &v.p.Vol.Base, &v.p.Vol.Quote
}

func (v View) touch() {
	if v.after != nil {
		v.after()
	}
}

// outForIn walks the constant product curve: floor(rout*in/(rin+in)).
// The denominator is widened to uint64 so the sum cannot overflow for any
// pair of non-negative int64 operands.
func outForIn(rin, rout, in int64) int64 {
	if in <= 0 {
		return 0
	}
	den := uint64(rin) + uint64(in)
	if den == 0 {
		panic("amm: quote on empty pool")
	}
	hi, lo := bits.Mul64(uint64(rout), uint64(in))
	if hi >= den {
		panic("amm: quote overflow")
	}
	q, _ := bits.Div64(hi, lo, den)
	return int64(q)
}
