package exchange

import "math"

// Opportunity describes the best round trip found by an arbitrage scan:
// home currency → resource → partner currency → home currency.
type Opportunity struct {
	// Market is the partner currency the round trip routes through.
	Market CurrencyID `json:"market"`
	// Profit is the net home-currency gain of executing the trade.
	Profit int64 `json:"profit"`
	// Volume is the amount of resource exported.
	Volume int64 `json:"volume"`
	// ForexBottleneck reports whether the trade was limited by the
	// back-conversion market's liquidity rather than the export market's.
	ForexBottleneck bool `json:"bottlenecked_on_forex"`
}

// candidate carries the scan-time cost so execution can check it.
type candidate struct {
	Opportunity
	cost int64
}

// Arbitrate finds the most profitable three-leg round trip exporting
// resource from the home currency through one of the partner currencies,
// executes it, and credits the proceeds to capital. Returns nil without
// touching capital or any pool when no partner yields a positive profit.
func (x *Exchange) Arbitrate(resource Asset, currency CurrencyID, partners []CurrencyID, capital *int64) *Opportunity {
	best := x.scanArbitrage(resource, currency, partners, *capital)
	if best == nil {
		return nil
	}
	x.executeArbitrage(resource, currency, best, capital)
	return &best.Opportunity
}

// ArbitrateAll scans every partner currency as the exportable resource and
// executes the single best round trip found. O(|partners|²).
func (x *Exchange) ArbitrateAll(currency CurrencyID, partners []CurrencyID, capital *int64) *Opportunity {
	var best *candidate
	var bestResource Asset
	for _, p := range partners {
		if p == currency {
			continue
		}
		resource := Fiat(p)
		c := x.scanArbitrage(resource, currency, partners, *capital)
		if c != nil && (best == nil || c.Profit > best.Profit) {
			best = c
			bestResource = resource
		}
	}
	if best == nil {
		return nil
	}
	x.executeArbitrage(bestResource, currency, best, capital)
	return &best.Opportunity
}

// scanArbitrage quotes the three legs for every partner without mutating
// any pool and returns the strictly most profitable candidate, or nil.
// Ties keep the earliest partner in iteration order.
func (x *Exchange) scanArbitrage(resource Asset, currency CurrencyID, partners []CurrencyID, capital int64) *candidate {
	home := Fiat(currency)
	export := x.Pool(Pair{X: home, Y: resource})
	exportCost, exportAmount := export.Quote(capital)

	var best *candidate
	for _, p := range partners {
		if resource == Fiat(p) {
			continue
		}
		out := x.Pool(Pair{X: resource, Y: Fiat(p)})
		e, f := out.Quote(exportAmount)
		back := x.Pool(Pair{X: Fiat(p), Y: home})
		k, l := back.Quote(f)

		volume := e
		bottleneck := false
		if k < f {
			// The FX back-conversion leg cannot absorb all of f:
			// only export what converts.
			bottleneck = true
			volume, _ = out.QuoteLimit(math.MaxInt64, k)
		}

		cost, bought := export.QuoteLimit(capital, volume)
		if bought != volume {
			panic("exchange: arbitrage scan volume mismatch")
		}
		if cost > exportCost {
			panic("exchange: arbitrage scan cost regression")
		}

		profit := l - cost
		if profit > 0 && (best == nil || profit > best.Profit) {
			best = &candidate{
				Opportunity: Opportunity{
					Market:          p,
					Profit:          profit,
					Volume:          volume,
					ForexBottleneck: bottleneck,
				},
				cost: cost,
			}
		}
	}
	return best
}

// executeArbitrage performs the scanned round trip for real. Volume and
// leftover mismatches against the scan are logic defects, not runtime
// conditions, and halt execution.
func (x *Exchange) executeArbitrage(resource Asset, currency CurrencyID, best *candidate, capital *int64) {
	home := Fiat(currency)

	spend := *capital
	v := x.Pool(Pair{X: home, Y: resource}).Swap(&spend, best.Volume)
	if v != best.Volume {
		panic("exchange: arbitrage export volume mismatch")
	}

	r := v
	f := x.Pool(Pair{X: resource, Y: Fiat(best.Market)}).Sell(&r)
	if r != 0 {
		panic("exchange: arbitrage resource not fully exported")
	}

	fx := f
	proceeds := x.Pool(Pair{X: Fiat(best.Market), Y: home}).Sell(&fx)
	if fx != 0 {
		panic("exchange: arbitrage forex not fully converted")
	}

	*capital = spend + proceeds
}
