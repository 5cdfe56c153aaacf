package codec

// Adaptive tracks the current Exp-Golomb order k for CLI adaptive mode
// (-aN). It is driven identically on the encode and decode side: both call
// Update with the same unsigned magnitude, after the symbol carrying that
// magnitude has been coded, so the two sides see the same sequence of k
// values without exchanging any side channel.
type Adaptive struct {
	K int // current order
	N int // smoothing exponent, 0 <= N < W
}

// NewAdaptive seeds the controller with the initial order k (normally the
// -kN value) and smoothing exponent n.
func NewAdaptive(k, n int) *Adaptive {
	return &Adaptive{K: k, N: n}
}

// Update applies one step of the integer EMA:
// k <- k - (k>>N) + (bit_width(u)>>N).
func (a *Adaptive) Update(u uint64) {
	a.K = a.K - (a.K >> uint(a.N)) + (BitWidth(u) >> uint(a.N))
}
