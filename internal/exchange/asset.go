// Package exchange provides the pair-indexed market registry, per-pair price
// history, and the cross-market arbitrage scanner.
package exchange

import (
	"fmt"
	"strconv"
	"strings"
)

// ResourceID identifies a tradeable good.
type ResourceID int32

// CurrencyID identifies a fiat currency.
type CurrencyID int32

// AssetKind distinguishes goods from fiat currencies. Goods sort before
// fiat for pair canonicalization.
type AssetKind uint8

const (
	AssetGood AssetKind = iota
	AssetFiat
)

// Asset is one tradeable instrument: a good or a fiat currency.
type Asset struct {
	Kind AssetKind `json:"kind"`
	ID   int32     `json:"id"`
}

// Good returns the asset for a resource.
func Good(id ResourceID) Asset {
	return Asset{Kind: AssetGood, ID: int32(id)}
}

// Fiat returns the asset for a currency.
func Fiat(id CurrencyID) Asset {
	return Asset{Kind: AssetFiat, ID: int32(id)}
}

// Less orders assets for canonicalization: goods before fiat, then raw id
// ascending within each kind.
func (a Asset) Less(b Asset) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.ID < b.ID
}

// Code returns the textual code used by save files and the API: the raw id
// for a good, "F"+id for a fiat.
func (a Asset) Code() string {
	if a.Kind == AssetFiat {
		return "F" + strconv.FormatInt(int64(a.ID), 10)
	}
	return strconv.FormatInt(int64(a.ID), 10)
}

// ParseAsset parses an asset code produced by Code.
func ParseAsset(s string) (Asset, error) {
	kind := AssetGood
	if strings.HasPrefix(s, "F") {
		kind = AssetFiat
		s = s[1:]
	}
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return Asset{}, fmt.Errorf("parse asset code %q: %w", s, err)
	}
	return Asset{Kind: kind, ID: int32(id)}, nil
}

// Pair is an ordered pair of assets: X is the base instrument, Y the quote.
type Pair struct {
	X Asset `json:"x"`
	Y Asset `json:"y"`
}

// Code returns the pair's textual code "<x>/<y>".
func (p Pair) Code() string {
	return p.X.Code() + "/" + p.Y.Code()
}

// ParsePair parses a pair code, splitting on the first '/'.
func ParsePair(s string) (Pair, error) {
	i := strings.IndexByte(s, '/')
	if i < 0 {
		return Pair{}, fmt.Errorf("parse pair code %q: missing separator", s)
	}
	x, err := ParseAsset(s[:i])
	if err != nil {
		return Pair{}, err
	}
	y, err := ParseAsset(s[i+1:])
	if err != nil {
		return Pair{}, err
	}
	return Pair{X: x, Y: y}, nil
}

// Conjugate returns the transposed pair.
func (p Pair) Conjugate() Pair {
	return Pair{X: p.Y, Y: p.X}
}

// Canonical resolves the pair to its canonical ordering and reports whether
// the receiver was in the conjugate (transposed) ordering.
func (p Pair) Canonical() (Pair, bool) {
	if p.Y.Less(p.X) {
		return p.Conjugate(), true
	}
	return p, false
}
