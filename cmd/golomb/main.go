// Command golomb encodes or decodes a binary file of fixed-width integers
// using Exponential-Golomb coding of order k.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/arloliu/golomb"
	"github.com/arloliu/golomb/endian"
	"github.com/arloliu/golomb/internal/pool"
	"github.com/arloliu/golomb/valuefmt"
)

const usageText = `golomb

Encodes or decodes a binary file of fixed-width integers using Exponential-
Golomb coding of order k.

SYNOPSIS
    golomb [-aN] [-{e|d}[FORMAT]] [-h] [-kN] input output

DESCRIPTION
    Small magnitudes cost fewer bits than large ones, so golomb shrinks
    inputs dominated by small values (deltas, counts, mostly-zero streams)
    and expands ones that are not.

OPTIONS
    -e[FORMAT]  Encode. FORMAT describes the input values (default u8).
    -d[FORMAT]  Decode. FORMAT describes the output values (default u8).
    -kN         Order N, 0 <= N < width of FORMAT (default 0).
    -aN         Adaptive mode: re-estimate k after every value using a
                smoothing exponent N, 0 <= N < width of FORMAT. Without
                -a the order stays fixed at the -k value.
    -h          Print this text and exit.

    FORMAT is [iu](8|16|32|64), e.g. u8, i32.

EXAMPLES
    Encode unsigned 8 bit values from 'in' into 'out':

        golomb in out

    Encode signed 16 bit values with order 4:

        golomb -ei16 -k4 in out

    Decode 'in' (order 0) into unsigned 32 bit values in 'out':

        golomb -du32 -k0 in out

    Pipe through stdin/stdout:

        cat in | golomb -ei8 - out
        golomb -di8 in -
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if ae, ok := err.(*argumentError); ok {
			fmt.Fprintln(os.Stderr, ae.Error())
			fmt.Fprintln(os.Stderr, "Use the '-h' option to read about the usage of this program.")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type argumentError struct{ msg string }

func (e *argumentError) Error() string { return e.msg }

func argErrorf(format string, args ...any) error {
	return &argumentError{msg: fmt.Sprintf(format, args...)}
}

// argScanner implements posix-style short-flag scanning, including glued
// arguments ("-k4"): options are consumed character-by-character from a
// single argv slot until exhausted, then the scanner moves to the next slot.
// When readArgument follows an option letter, the rest of that slot is the
// option's argument, so "-ah" is option 'a' with argument "h".
type argScanner struct {
	args []string
	idx  int
	opt  string
}

func newArgScanner(args []string) *argScanner {
	return &argScanner{args: args}
}

// readOption returns the next option letter, or 0 once the option list
// ends (first non-flag operand, a bare "-", "--", or argv exhaustion). A
// non-flag operand encountered here is stashed so the next readArgument
// call returns it without consuming another argv slot.
func (s *argScanner) readOption() byte {
	if s.opt == "" {
		if s.idx >= len(s.args) {
			return 0
		}
		a := s.args[s.idx]
		s.idx++
		if a == "--" {
			return 0
		}
		if len(a) == 0 || a[0] != '-' || a == "-" {
			s.opt = a
			return 0
		}
		s.opt = a[1:]
	}
	c := s.opt[0]
	s.opt = s.opt[1:]
	return c
}

// readArgument returns an option's glued remainder, or the next argv
// slot if the option carried none; it also drains an operand stashed by
// readOption. Returns "" once nothing remains.
func (s *argScanner) readArgument() string {
	if s.opt != "" {
		arg := s.opt
		s.opt = ""
		return arg
	}
	if s.idx < len(s.args) {
		arg := s.args[s.idx]
		s.idx++
		return arg
	}
	return ""
}

type direction int

const (
	directionEncode direction = iota
	directionDecode
)

func decodeKArg(s string) (int, error) {
	n, ok := parseNonNegativeInt(s)
	if !ok {
		return 0, argErrorf("Invalid argument for option 'k'.")
	}
	return n, nil
}

func decodeAdaptiveArg(s string) (int, error) {
	n, ok := parseNonNegativeInt(s)
	if !ok {
		return 0, argErrorf("Invalid argument for option 'a'.")
	}
	return n, nil
}

func parseNonNegativeInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func run(args []string) error {
	dir := directionEncode
	format := valuefmt.Default
	k := 0
	adaptive := -1

	scanner := newArgScanner(args)
	for opt := scanner.readOption(); opt != 0; opt = scanner.readOption() {
		switch opt {
		case 'a':
			n, err := decodeAdaptiveArg(scanner.readArgument())
			if err != nil {
				return err
			}
			adaptive = n
		case 'e':
			dir = directionEncode
			f, err := decodeFormatArg(opt, scanner.readArgument())
			if err != nil {
				return err
			}
			format = f
		case 'd':
			dir = directionDecode
			f, err := decodeFormatArg(opt, scanner.readArgument())
			if err != nil {
				return err
			}
			format = f
		case 'k':
			n, err := decodeKArg(scanner.readArgument())
			if err != nil {
				return err
			}
			k = n
		case 'h':
			fmt.Print(usageText)
			os.Exit(0)
		default:
			return argErrorf("Unrecognized option '%c'.", opt)
		}
	}

	input := scanner.readArgument()
	output := scanner.readArgument()

	if input == "" {
		return argErrorf("No input parameter provided.")
	}
	if output == "" {
		return argErrorf("No output parameter provided.")
	}

	width := format.AsCodecWidth()
	if k < 0 || k >= width {
		return argErrorf("Invalid argument for option 'k'.")
	}
	if adaptive >= 0 && adaptive >= width {
		return argErrorf("Invalid argument for option 'a'.")
	}

	in, err := openInput(input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := openOutput(output)
	if err != nil {
		return err
	}
	defer out.Close()

	if dir == directionEncode {
		return runEncode(in, out, format, k, adaptive)
	}
	return runDecode(in, out, format, k, adaptive)
}

func decodeFormatArg(option byte, s string) (valuefmt.Format, error) {
	if s == "" {
		return valuefmt.Default, nil
	}
	f, err := valuefmt.Parse(s)
	if err != nil {
		return valuefmt.Format{}, argErrorf("Invalid argument for option '%c'.", option)
	}
	return f, nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Input: %w", err)
	}
	return f, nil
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("Output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// runEncode reads a contiguous sequence of host-endian W-bit integers from
// in and writes the Exponential-Golomb-coded byte stream to out.
func runEncode(in io.Reader, out io.Writer, format valuefmt.Format, k, adaptive int) error {
	engine := endian.NativeEngine()
	width := format.AsCodecWidth()

	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)

	chunkBuf := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(chunkBuf)

	var writeErr error
	sink := func(c uint8) {
		if writeErr != nil {
			return
		}
		chunkBuf.MustWrite([]byte{c})
		if chunkBuf.Len() >= pool.ChunkBufferDefaultSize {
			if _, err := chunkBuf.WriteTo(bw); err != nil {
				writeErr = fmt.Errorf("Output: %w", err)
			}
			chunkBuf.Reset()
		}
	}

	var enc *golomb.Encoder[uint8]
	adaptiveMode := adaptive >= 0
	if adaptiveMode {
		enc = golomb.NewEncoder[uint8](golomb.Width(width), sink, golomb.WithEncoderAdaptive(golomb.NewAdaptive(k, adaptive)))
	} else {
		enc = golomb.NewEncoder[uint8](golomb.Width(width), sink)
	}

	stepSize := width / 8
	register := make([]byte, stepSize)
	for {
		if _, err := io.ReadFull(br, register); err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("Input: %w", err)
		}

		u := readRegister(engine, register, width)

		switch {
		case adaptiveMode && format.Signed:
			enc.PushSignedAuto(u)
		case adaptiveMode:
			enc.PushAuto(u)
		case format.Signed:
			enc.PushSignedRaw(u, k)
		default:
			enc.PushRaw(u, k)
		}
		if writeErr != nil {
			return writeErr
		}
	}

	enc.Flush()
	if writeErr != nil {
		return writeErr
	}

	if chunkBuf.Len() > 0 {
		if _, err := chunkBuf.WriteTo(bw); err != nil {
			return fmt.Errorf("Output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("Output: %w", err)
	}
	return nil
}

// runDecode reads the Exponential-Golomb-coded byte stream from in and
// writes a contiguous sequence of host-endian W-bit integers to out.
func runDecode(in io.Reader, out io.Writer, format valuefmt.Format, k, adaptive int) error {
	engine := endian.NativeEngine()
	width := format.AsCodecWidth()

	br := bufio.NewReader(in)
	bw := bufio.NewWriter(out)

	dec := golomb.NewDecoder[uint8](golomb.Width(width), func() (uint8, bool) {
		b, err := br.ReadByte()
		if err != nil {
			return 0, false
		}
		return b, true
	})

	var ctl *golomb.Adaptive
	if adaptive >= 0 {
		ctl = golomb.NewAdaptive(k, adaptive)
	}

	outBuf := pool.GetValueBuffer()
	defer pool.PutValueBuffer(outBuf)

	for dec.HasData() {
		order := k
		if ctl != nil {
			order = ctl.K()
		}

		var res golomb.Result[uint64]
		if format.Signed {
			res = dec.PullSignedRaw(order)
		} else {
			res = dec.PullRaw(order)
		}

		if res.Status == golomb.StatusDone {
			break
		}

		// StatusZeroOverflow still carries the clamped zero count, per
		// §4.5: it is written so a caller can detect where truncation
		// occurred, and the stream continues.
		writeRegister(engine, outBuf, res.Value, width)

		if res.Status == golomb.StatusSuccess && ctl != nil {
			magnitude := res.Value
			if format.Signed {
				magnitude = golomb.ZigZagEncode(res.Value, width)
			}
			ctl.Step(magnitude)
		}

		if outBuf.Len() >= pool.ValueBufferDefaultSize {
			if _, err := outBuf.WriteTo(bw); err != nil {
				return fmt.Errorf("Output: %w", err)
			}
			outBuf.Reset()
		}
	}

	if outBuf.Len() > 0 {
		if _, err := outBuf.WriteTo(bw); err != nil {
			return fmt.Errorf("Output: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("Output: %w", err)
	}
	return nil
}

// readRegister reads width/8 bytes from buf (host-endian) into a uint64
// register holding the raw bit pattern (two's-complement for signed
// formats, plain magnitude for unsigned).
func readRegister(engine endian.EndianEngine, buf []byte, width int) uint64 {
	switch width {
	case 8:
		return uint64(buf[0])
	case 16:
		return uint64(engine.Uint16(buf))
	case 32:
		return uint64(engine.Uint32(buf))
	case 64:
		return engine.Uint64(buf)
	default:
		panic("golomb: unsupported width")
	}
}

// writeRegister appends width/8 host-endian bytes holding u's raw bit
// pattern to buf.
func writeRegister(engine endian.EndianEngine, buf *pool.ByteBuffer, u uint64, width int) {
	switch width {
	case 8:
		buf.MustWrite([]byte{byte(u)})
	case 16:
		buf.B = engine.AppendUint16(buf.B, uint16(u))
	case 32:
		buf.B = engine.AppendUint32(buf.B, uint32(u))
	case 64:
		buf.B = engine.AppendUint64(buf.B, u)
	default:
		panic("golomb: unsupported width")
	}
}
