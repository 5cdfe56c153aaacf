package golomb

import "github.com/arloliu/golomb/internal/codec"

// Adaptive drives the per-value order used by CLI adaptive mode (-aN). It
// must be stepped identically, after coding each value, on both the encode
// and decode side so the two sides derive the same sequence of k values
// without any side channel.
type Adaptive struct {
	a *codec.Adaptive
}

// NewAdaptive seeds the controller with an initial order k (the -kN value)
// and smoothing exponent n (0 <= n < W).
func NewAdaptive(k, n int) *Adaptive {
	return &Adaptive{a: codec.NewAdaptive(k, n)}
}

// K returns the current order.
func (a *Adaptive) K() int { return a.a.K }

// update applies the EMA step for the unsigned magnitude that was just
// coded.
func (a *Adaptive) update(u uint64) { a.a.Update(u) }

// Step applies the EMA update for a magnitude already held in a raw
// register, mirroring update but exported for callers (such as the CLI's
// width-dispatch loop) that drive PushRaw/PullRaw directly instead of the
// generic Push/Pull family.
func (a *Adaptive) Step(u uint64) { a.a.Update(u) }

// PushAdaptive encodes v with the controller's current order, then steps
// the controller using v's unsigned magnitude.
func PushAdaptive[D Chunk, V Unsigned](e *Encoder[D], a *Adaptive, v V) {
	Push[D](e, v, a.K())
	a.update(uint64(v))
}

// PushSignedAdaptive ZigZag-maps v, encodes it with the controller's
// current order, then steps the controller using the mapped magnitude.
func PushSignedAdaptive[D Chunk, V Signed](e *Encoder[D], a *Adaptive, v V) {
	u := codec.ZigZagEncode(uint64(v), e.width)
	codec.EncodeSymbol(e.w, u, e.width, a.K())
	a.update(u)
}

// PullAdaptive decodes one value with the controller's current order, then
// steps the controller on success (matching the encode side, which only
// observes the coded magnitude on success).
func PullAdaptive[D Chunk, V Unsigned](d *Decoder[D], a *Adaptive) Result[V] {
	res := Pull[D, V](d, a.K())
	if res.Status == StatusSuccess {
		a.update(uint64(res.Value))
	}
	return res
}

// PullSignedAdaptive decodes one signed value with the controller's current
// order, then steps the controller on success using the coded (unsigned)
// magnitude.
func PullSignedAdaptive[D Chunk, V Signed](d *Decoder[D], a *Adaptive) Result[V] {
	res := codec.DecodeSymbol(d.r, d.width, a.K())
	if res.Status == StatusZeroOverflow {
		return Result[V]{Status: res.Status, Value: V(codec.SignExtend(res.Value, d.width))}
	}
	if res.Status != StatusSuccess {
		return Result[V]{Status: res.Status}
	}
	a.update(res.Value)
	s := codec.ZigZagDecode(res.Value, d.width)
	return Result[V]{Status: res.Status, Value: V(codec.SignExtend(s, d.width))}
}

// Encode packs values into a single chunk slice using a fixed order k. It
// is the convenience stream driver of §4.5: push every value, then flush.
func Encode[D Chunk, V Unsigned](values []V, w Width, k int) []D {
	out := make([]D, 0, len(values)/2+1)
	enc := NewEncoder[D](w, func(c D) { out = append(out, c) })
	for _, v := range values {
		Push[D](enc, v, k)
	}
	enc.Flush()
	return out
}

// EncodeSigned is Encode for signed values.
func EncodeSigned[D Chunk, V Signed](values []V, w Width, k int) []D {
	out := make([]D, 0, len(values)/2+1)
	enc := NewEncoder[D](w, func(c D) { out = append(out, c) })
	for _, v := range values {
		PushSigned[D](enc, v, k)
	}
	enc.Flush()
	return out
}

// Decode unpacks chunks into unsigned values using a fixed order k. It
// follows §4.5's contract: Done stops the stream; ZeroOverflow still
// contributes its clamped value so the caller can detect truncation.
func Decode[D Chunk, V Unsigned](chunks []D, w Width, k int) []V {
	i := 0
	dec := NewDecoder[D](w, func() (D, bool) {
		if i >= len(chunks) {
			var zero D
			return zero, false
		}
		c := chunks[i]
		i++
		return c, true
	})

	var out []V
	for {
		res := Pull[D, V](dec, k)
		if res.Status == StatusDone {
			return out
		}
		out = append(out, res.Value)
	}
}

// DecodeSigned is Decode for signed values.
func DecodeSigned[D Chunk, V Signed](chunks []D, w Width, k int) []V {
	i := 0
	dec := NewDecoder[D](w, func() (D, bool) {
		if i >= len(chunks) {
			var zero D
			return zero, false
		}
		c := chunks[i]
		i++
		return c, true
	})

	var out []V
	for {
		res := PullSigned[D, V](dec, k)
		if res.Status == StatusDone {
			return out
		}
		out = append(out, res.Value)
	}
}
