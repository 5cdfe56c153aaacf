// Package golomb implements Exponential-Golomb coding of order k over
// fixed-width integers.
//
// Given a stream of signed or unsigned values of width W ∈ {8, 16, 32, 64}
// and a nonnegative order k, Encoder packs them into a bitstream of
// unsigned chunks of width D (also 8, 16, 32, or 64); Decoder inverts the
// transformation exactly. The codec is streaming: one pass, constant
// memory, no framing or length headers, and bit-exact round trips.
//
// # Basic usage
//
//	var out []byte
//	enc := golomb.NewEncoder[uint8](golomb.Width8, func(c uint8) { out = append(out, c) })
//	golomb.Push[uint8](enc, uint8(7), 2)
//	golomb.Push[uint8](enc, uint8(0), 2)
//	enc.Flush()
//
//	i := 0
//	dec := golomb.NewDecoder[uint8](golomb.Width8, func() (uint8, bool) {
//		if i >= len(out) {
//			return 0, false
//		}
//		c := out[i]
//		i++
//		return c, true
//	})
//	res := golomb.Pull[uint8, uint8](dec, 2)
//
// Signed values are carried through the same codewords via a ZigZag map
// that interleaves sign into the low bit (ZigZagEncode / ZigZagDecode,
// PushSigned / PullSigned). Values near the top of the W-bit range that
// would make u+2^k wrap are carried by a reserved overflow codeword instead
// of failing.
//
// # Adaptive order
//
// Adaptive re-estimates k after every value using an integer exponential
// moving average of observed bit widths (see Adaptive). CLI "adaptive
// mode" (-aN) is built on this; encoder and decoder must apply the same
// update after each symbol to stay in lock-step.
package golomb

import (
	"github.com/arloliu/golomb/internal/codec"
	"github.com/arloliu/golomb/internal/options"
)

// Width is a value or chunk bit width. Only 8, 16, 32, and 64 are valid.
type Width int

// Valid widths for both value width W and chunk width D.
const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// Valid reports whether w is one of the four supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	default:
		return false
	}
}

func (w Width) String() string {
	switch w {
	case Width8:
		return "8"
	case Width16:
		return "16"
	case Width32:
		return "32"
	case Width64:
		return "64"
	default:
		return "invalid"
	}
}

// Chunk is the set of unsigned integer types usable as a packed wire chunk.
type Chunk interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Unsigned is the set of unsigned integer types the codec accepts as a
// value (input to Push, output of Pull).
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Signed is the set of signed integer types the codec accepts as a value
// (input to PushSigned, output of PullSigned).
type Signed interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// Status tags the outcome of Pull / PullSigned.
type Status = codec.Status

// The three possible outcomes of a decode.
const (
	StatusSuccess      = codec.StatusSuccess
	StatusDone         = codec.StatusDone
	StatusZeroOverflow = codec.StatusZeroOverflow
)

// SignExtend reinterprets the low width bits of u as a two's-complement
// signed value and sign-extends it to a full int64. It pairs with the *Raw
// Encoder/Decoder methods, which move values as unsigned registers.
func SignExtend(u uint64, width int) int64 {
	return codec.SignExtend(u, width)
}

// ZigZagEncode maps a signed W-bit value, held in the low width bits of s,
// to its unsigned counterpart. It pairs with the *Raw Encoder/Decoder
// methods.
func ZigZagEncode(s uint64, width int) uint64 {
	return codec.ZigZagEncode(s, width)
}

// ZigZagDecode inverts ZigZagEncode, returning the signed value as a
// two's-complement pattern in the low width bits. Use SignExtend to obtain
// a Go int64.
func ZigZagDecode(u uint64, width int) uint64 {
	return codec.ZigZagDecode(u, width)
}

// Result is the tagged outcome of decoding one symbol.
//
//   - StatusSuccess: Value holds the decoded integer.
//   - StatusDone: the source was exhausted; Value is the zero value.
//   - StatusZeroOverflow: the unary prefix exceeded width-k; Value holds
//     the clamped zero count the caller can use to detect truncation, and
//     the stream position is preserved so the caller may resynchronize or
//     abort.
type Result[V any] struct {
	Status Status
	Value  V
}

// encoderConfig holds the options an Encoder can be constructed with.
type encoderConfig struct {
	adaptive *Adaptive
}

// EncoderOption configures an Encoder at construction time, following the
// internal/options functional-option shape.
type EncoderOption = options.Option[*encoderConfig]

// WithEncoderAdaptive attaches an Adaptive controller to the encoder so
// PushAuto / PushSignedAuto can drive the order without the caller
// threading k and stepping the controller by hand.
func WithEncoderAdaptive(a *Adaptive) EncoderOption {
	return options.NoError(func(c *encoderConfig) { c.adaptive = a })
}

// Encoder packs values into a stream of D-bit chunks via a caller-supplied
// sink. An Encoder holds only scalar state; it is not safe for concurrent
// use by multiple goroutines.
type Encoder[D Chunk] struct {
	w        *codec.Writer[D]
	width    int
	adaptive *Adaptive
}

// NewEncoder returns an Encoder for value width w, writing chunks of type D
// to sink as they fill.
func NewEncoder[D Chunk](w Width, sink func(D), opts ...EncoderOption) *Encoder[D] {
	cfg := &encoderConfig{}
	_ = options.Apply(cfg, opts...)

	return &Encoder[D]{
		w:        codec.NewWriter[D](chunkBits[D](), sink),
		width:    int(w),
		adaptive: cfg.adaptive,
	}
}

// Flush zero-pads and emits any partially filled chunk. Call exactly once
// at the end of a stream; pushing more values afterward is unsupported.
func (e *Encoder[D]) Flush() {
	e.w.Flush()
}

// Push encodes one unsigned value with order k (0 <= k < the encoder's
// configured width).
func Push[D Chunk, V Unsigned](e *Encoder[D], v V, k int) {
	codec.EncodeSymbol(e.w, uint64(v), e.width, k)
}

// PushSigned ZigZag-maps a signed value to unsigned and encodes it with
// order k.
func PushSigned[D Chunk, V Signed](e *Encoder[D], v V, k int) {
	u := codec.ZigZagEncode(uint64(v), e.width)
	codec.EncodeSymbol(e.w, u, e.width, k)
}

// PushRaw encodes an already W-bit unsigned magnitude u with order k,
// bypassing the Unsigned type parameter. It exists for callers, such as the
// CLI's width-dispatch loop, that already hold a runtime register value and
// don't want to instantiate Push per Go numeric type.
func (e *Encoder[D]) PushRaw(u uint64, k int) {
	codec.EncodeSymbol(e.w, u, e.width, k)
}

// PushSignedRaw ZigZag-maps a signed value held in the low width bits of s
// and encodes it with order k. See PushRaw.
func (e *Encoder[D]) PushSignedRaw(s uint64, k int) {
	u := codec.ZigZagEncode(s, e.width)
	codec.EncodeSymbol(e.w, u, e.width, k)
}

// PushAuto encodes an already W-bit unsigned magnitude u using the order
// held by the Adaptive controller attached via WithEncoderAdaptive, then
// steps the controller. Panics if the Encoder was built without one.
func (e *Encoder[D]) PushAuto(u uint64) {
	codec.EncodeSymbol(e.w, u, e.width, e.adaptive.K())
	e.adaptive.update(u)
}

// PushSignedAuto ZigZag-maps s and encodes it using the order held by the
// attached Adaptive controller, then steps it. See PushAuto.
func (e *Encoder[D]) PushSignedAuto(s uint64) {
	u := codec.ZigZagEncode(s, e.width)
	codec.EncodeSymbol(e.w, u, e.width, e.adaptive.K())
	e.adaptive.update(u)
}

// decoderConfig holds the options a Decoder can be constructed with.
type decoderConfig struct {
	adaptive *Adaptive
}

// DecoderOption configures a Decoder at construction time, following the
// internal/options functional-option shape.
type DecoderOption = options.Option[*decoderConfig]

// WithDecoderAdaptive attaches an Adaptive controller to the decoder so
// PullAuto / PullSignedAuto can drive the order without the caller
// threading k and stepping the controller by hand.
func WithDecoderAdaptive(a *Adaptive) DecoderOption {
	return options.NoError(func(c *decoderConfig) { c.adaptive = a })
}

// Decoder pulls values from a stream of D-bit chunks supplied lazily by
// fetch. A Decoder holds only scalar state; it is not safe for concurrent
// use by multiple goroutines.
type Decoder[D Chunk] struct {
	r        *codec.Reader[D]
	width    int
	adaptive *Adaptive
}

// NewDecoder returns a Decoder for output width w, drawing chunks of type D
// from fetch. fetch must return ok == false once exhausted.
func NewDecoder[D Chunk](w Width, fetch func() (D, bool), opts ...DecoderOption) *Decoder[D] {
	cfg := &decoderConfig{}
	_ = options.Apply(cfg, opts...)

	return &Decoder[D]{
		r:        codec.NewReader[D](chunkBits[D](), fetch),
		width:    int(w),
		adaptive: cfg.adaptive,
	}
}

// HasData reports whether at least one more bit is available.
func (d *Decoder[D]) HasData() bool {
	return d.r.HasData()
}

// PullRaw decodes one symbol with order k and returns the raw unsigned
// register value without instantiating the Unsigned type parameter. See
// PushRaw.
func (d *Decoder[D]) PullRaw(k int) Result[uint64] {
	res := codec.DecodeSymbol(d.r, d.width, k)
	return Result[uint64]{Status: res.Status, Value: res.Value}
}

// PullSignedRaw decodes one symbol with order k and, on success, applies
// the inverse ZigZag map, returning the result as a two's-complement
// pattern in the low width bits. Use SignExtend to obtain a Go int64.
func (d *Decoder[D]) PullSignedRaw(k int) Result[uint64] {
	res := codec.DecodeSymbol(d.r, d.width, k)
	if res.Status != StatusSuccess {
		return Result[uint64]{Status: res.Status, Value: res.Value}
	}
	return Result[uint64]{Status: res.Status, Value: codec.ZigZagDecode(res.Value, d.width)}
}

// PullAuto decodes one symbol using the order held by the Adaptive
// controller attached via WithDecoderAdaptive, stepping it on success.
// Panics if the Decoder was built without one.
func (d *Decoder[D]) PullAuto() Result[uint64] {
	res := codec.DecodeSymbol(d.r, d.width, d.adaptive.K())
	if res.Status == StatusSuccess {
		d.adaptive.update(res.Value)
	}
	return Result[uint64]{Status: res.Status, Value: res.Value}
}

// PullSignedAuto decodes one symbol using the order held by the attached
// Adaptive controller, steps it on success, and applies the inverse
// ZigZag map. See PullAuto.
func (d *Decoder[D]) PullSignedAuto() Result[uint64] {
	res := codec.DecodeSymbol(d.r, d.width, d.adaptive.K())
	if res.Status != StatusSuccess {
		return Result[uint64]{Status: res.Status, Value: res.Value}
	}
	d.adaptive.update(res.Value)
	return Result[uint64]{Status: res.Status, Value: codec.ZigZagDecode(res.Value, d.width)}
}

// Pull decodes one unsigned value with order k, per the Result semantics
// above.
func Pull[D Chunk, V Unsigned](d *Decoder[D], k int) Result[V] {
	res := codec.DecodeSymbol(d.r, d.width, k)
	return Result[V]{Status: res.Status, Value: V(res.Value)}
}

// PullSigned decodes one value with order k and applies the inverse ZigZag
// map on success. On StatusZeroOverflow, Value carries the clamped zero
// count as a raw (non-ZigZag) integer, per §4.4; on StatusDone it is zero.
func PullSigned[D Chunk, V Signed](d *Decoder[D], k int) Result[V] {
	res := codec.DecodeSymbol(d.r, d.width, k)
	switch res.Status {
	case StatusSuccess:
		s := codec.ZigZagDecode(res.Value, d.width)
		return Result[V]{Status: res.Status, Value: V(codec.SignExtend(s, d.width))}
	case StatusZeroOverflow:
		return Result[V]{Status: res.Status, Value: V(codec.SignExtend(res.Value, d.width))}
	default:
		return Result[V]{Status: res.Status}
	}
}

// chunkBits returns the bit width of D by constructing a zero value and
// measuring it; D is always one of the fixed-size unsigned integer types.
func chunkBits[D Chunk]() int {
	var zero D
	switch any(zero).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	case uint64:
		return 64
	default:
		panic("golomb: unsupported chunk type")
	}
}
