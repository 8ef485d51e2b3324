package exchange

import (
	"github.com/talgya/mini-bourse/internal/amm"
	"github.com/talgya/mini-bourse/internal/rational"
)

// Settings is the immutable exchange configuration.
type Settings struct {
	// DividendRate is the per-turn fraction of reserves drained to
	// liquidity providers.
	DividendRate rational.Fraction
	// Fee is reserved for a future fee-retention policy. It is threaded
	// into every market but never applied by the pool.
	Fee rational.Fraction
	// InitialCapital seeds both reserves of a newly created market.
	InitialCapital int64
	// HistoryDepth bounds each market's closed-interval history.
	HistoryDepth int
}

// DefaultSettings returns the configuration used when none is supplied.
func DefaultSettings() Settings {
	return Settings{
		DividendRate:   rational.New(1, 100),
		Fee:            rational.New(0, 1),
		InitialCapital: 1000,
		HistoryDepth:   32,
	}
}

// Exchange is the registry of markets, keyed by canonical asset pair.
// Markets are created lazily on first access and persist for the life of
// the exchange. Insertion order is preserved; save files and scan
// tie-breaking depend on it.
type Exchange struct {
	Settings Settings

	order []Pair
	table map[Pair]*Market
}

// New creates an empty exchange.
func New(s Settings) *Exchange {
	return &Exchange{
		Settings: s,
		table:    make(map[Pair]*Market),
	}
}

// Market resolves the pair to its canonical key and returns the market,
// creating and seeding it if absent, plus whether the requested ordering
// was the conjugate of the canonical one.
func (x *Exchange) Market(pair Pair) (*Market, bool) {
	key, conj := pair.Canonical()
	m, ok := x.table[key]
	if !ok {
		m = NewMarket(key, x.Settings.InitialCapital, x.Settings.DividendRate)
		x.table[key] = m
		x.order = append(x.order, key)
	}
	return m, conj
}

// Pool returns a direction-correct pool view for the requested pair: the
// view's base is pair.X and its quote is pair.Y regardless of which
// ordering the market is stored under.
func (x *Exchange) Pool(pair Pair) amm.View {
	m, conj := x.Market(pair)
	return m.View(conj)
}

// Lookup returns the market for the pair without creating one.
func (x *Exchange) Lookup(pair Pair) (*Market, bool, bool) {
	key, conj := pair.Canonical()
	m, ok := x.table[key]
	return m, conj, ok
}

// Price returns the last-closed candle close of the market pricing `of` in
// units of `in`, or 1.0 when no market or history exists yet. The default
// keeps dependent budget computations away from zero-price cascades.
func (x *Exchange) Price(of, in Asset) float64 {
	m, conj, ok := x.Lookup(Pair{X: of, Y: in})
	if !ok {
		return 1.0
	}
	last, ok := m.LastClose()
	if !ok || last == 0 {
		return 1.0
	}
	if conj {
		return 1.0 / last
	}
	return last
}

// Len returns the number of markets.
func (x *Exchange) Len() int {
	return len(x.order)
}

// Pairs returns the canonical pair keys in insertion order.
func (x *Exchange) Pairs() []Pair {
	out := make([]Pair, len(x.order))
	copy(out, x.order)
	return out
}

// Each calls fn for every market in insertion order.
func (x *Exchange) Each(fn func(*Market)) {
	for _, key := range x.order {
		fn(x.table[key])
	}
}

// Restore inserts a loaded market under its canonical key, appending to the
// insertion order. Used by the persistence layer only.
func (x *Exchange) Restore(m *Market) {
	key, _ := m.ID.Canonical()
	m.ID = key
	if _, ok := x.table[key]; !ok {
		x.order = append(x.order, key)
	}
	x.table[key] = m
}

// Turn advances every market by one turn: candle rollover, dividend drain,
// volume reset. Call exactly once per simulated turn, strictly after all
// trading for the turn.
func (x *Exchange) Turn() {
	for _, key := range x.order {
		x.table[key].Turn(x.Settings.HistoryDepth)
	}
}
