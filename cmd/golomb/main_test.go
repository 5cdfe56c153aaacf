package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/golomb/valuefmt"
)

func TestArgScanner_GluedAndSeparateArguments(t *testing.T) {
	s := newArgScanner([]string{"-ei16", "-k4", "in", "out"})

	opt := s.readOption()
	require.Equal(t, byte('e'), opt)
	require.Equal(t, "i16", s.readArgument())

	opt = s.readOption()
	require.Equal(t, byte('k'), opt)
	require.Equal(t, "4", s.readArgument())

	require.Equal(t, byte(0), s.readOption())
	require.Equal(t, "in", s.readArgument())
	require.Equal(t, "out", s.readArgument())
	require.Equal(t, "", s.readArgument())
}

func TestArgScanner_CombinedFlags(t *testing.T) {
	s := newArgScanner([]string{"-ah", "5"})

	require.Equal(t, byte('a'), s.readOption())
	require.Equal(t, "h", s.readArgument())
	require.Equal(t, byte(0), s.readOption())
	require.Equal(t, "5", s.readArgument())
}

func TestArgScanner_SeparateOptionArgument(t *testing.T) {
	s := newArgScanner([]string{"-k", "7", "in", "out"})

	require.Equal(t, byte('k'), s.readOption())
	require.Equal(t, "7", s.readArgument())
	require.Equal(t, byte(0), s.readOption())
	require.Equal(t, "in", s.readArgument())
	require.Equal(t, "out", s.readArgument())
}

func TestArgScanner_DashOperandIsNotAnOption(t *testing.T) {
	s := newArgScanner([]string{"-ei8", "-", "out"})

	require.Equal(t, byte('e'), s.readOption())
	require.Equal(t, "i8", s.readArgument())
	require.Equal(t, byte(0), s.readOption())
	require.Equal(t, "-", s.readArgument())
	require.Equal(t, "out", s.readArgument())
}

func TestArgScanner_DoubleDashEndsOptions(t *testing.T) {
	s := newArgScanner([]string{"-k2", "--", "-weird", "out"})

	require.Equal(t, byte('k'), s.readOption())
	require.Equal(t, "2", s.readArgument())
	require.Equal(t, byte(0), s.readOption())
	require.Equal(t, "-weird", s.readArgument())
	require.Equal(t, "out", s.readArgument())
}

func TestParseNonNegativeInt(t *testing.T) {
	n, ok := parseNonNegativeInt("42")
	require.True(t, ok)
	require.Equal(t, 42, n)

	for _, bad := range []string{"", "-1", "4x", "1.5"} {
		_, ok := parseNonNegativeInt(bad)
		require.False(t, ok, bad)
	}
}

func TestDecodeFormatArg_DefaultsToU8(t *testing.T) {
	f, err := decodeFormatArg('e', "")
	require.NoError(t, err)
	require.Equal(t, 8, f.AsCodecWidth())
	require.False(t, f.Signed)
}

func TestDecodeFormatArg_RejectsBadFormat(t *testing.T) {
	_, err := decodeFormatArg('d', "x9")
	require.Error(t, err)
}

func TestDecodeKArg_RejectsNegativeAndMalformed(t *testing.T) {
	for _, bad := range []string{"-1", "abc", ""} {
		_, err := decodeKArg(bad)
		require.Error(t, err, bad)
	}
	n, err := decodeKArg("12")
	require.NoError(t, err)
	require.Equal(t, 12, n)
}

func TestRun_MissingOperandsIsArgumentError(t *testing.T) {
	err := run([]string{"-ei8"})
	require.Error(t, err)
	_, ok := err.(*argumentError)
	require.True(t, ok)
}

func TestRun_KOutOfRangeIsArgumentError(t *testing.T) {
	err := run([]string{"-eu8", "-k8", "in", "out"})
	require.Error(t, err)
	_, ok := err.(*argumentError)
	require.True(t, ok)
}

func TestEncodeDecode_RoundTripViaCLIPlumbing(t *testing.T) {
	input := []byte{0, 1, 2, 3, 4, 255, 0, 2}

	var encoded bytes.Buffer
	format := mustParseFormat(t, "u8")
	err := runEncode(bytes.NewReader(input), &encoded, format, 0, -1)
	require.NoError(t, err)

	var decoded bytes.Buffer
	err = runDecode(bytes.NewReader(encoded.Bytes()), &decoded, format, 0, -1)
	require.NoError(t, err)

	require.Equal(t, input, decoded.Bytes())
}

func TestEncodeDecode_RoundTripSignedAdaptive(t *testing.T) {
	values := []int16{0, -1, 1, 1000, -1000, 32767, -32768}
	input := make([]byte, 0, len(values)*2)
	for _, v := range values {
		input = append(input, byte(uint16(v)), byte(uint16(v)>>8))
	}

	format := mustParseFormat(t, "i16")

	var encoded bytes.Buffer
	err := runEncode(bytes.NewReader(input), &encoded, format, 3, 2)
	require.NoError(t, err)

	var decoded bytes.Buffer
	err = runDecode(bytes.NewReader(encoded.Bytes()), &decoded, format, 3, 2)
	require.NoError(t, err)

	require.Equal(t, input, decoded.Bytes())
}

func mustParseFormat(t *testing.T, s string) valuefmt.Format {
	t.Helper()
	f, err := decodeFormatArg('e', s)
	require.NoError(t, err)
	return f
}
