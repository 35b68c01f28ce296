package value

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConvert_SameKindPassthrough tests that matching kinds pass
// through untouched even under ConversionNone.
func TestConvert_SameKindPassthrough(t *testing.T) {
	c := Converter{Conversion: ConversionNone, Mismatch: MismatchException}

	got, err := c.Convert(Int(5), KindInt)
	require.NoError(t, err)
	assert.Equal(t, Int(5), got)

	got, err = c.Convert(Absent(), KindInt)
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())

	got, err = c.Convert(String("x"), KindAbsent)
	require.NoError(t, err)
	assert.Equal(t, String("x"), got)
}

// TestConvert_NoneRejectsCrossKind tests that ConversionNone rejects
// every cross-kind request.
func TestConvert_NoneRejectsCrossKind(t *testing.T) {
	c := Converter{Conversion: ConversionNone, Mismatch: MismatchException}

	_, err := c.Convert(String("5"), KindInt)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConvertible)

	var convErr *ConversionError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, KindString, convErr.From)
	assert.Equal(t, KindInt, convErr.To)
}

// TestConvert_Lossless tests round-trip-safe conversions.
func TestConvert_Lossless(t *testing.T) {
	c := Converter{Conversion: ConversionLossless, Mismatch: MismatchException}

	tests := []struct {
		name    string
		in      Value
		target  Kind
		want    Value
		wantErr bool
	}{
		{"int to float", Int(5), KindFloat, Float(5), false},
		{"integral float to int", Float(5.0), KindInt, Int(5), false},
		{"fractional float to int rejected", Float(5.5), KindInt, Value{}, true},
		{"numeric string to int", String("42"), KindInt, Int(42), false},
		{"numeric string to float", String("2.5"), KindFloat, Float(2.5), false},
		{"non-numeric string rejected", String("abc"), KindInt, Value{}, true},
		{"bool string to bool", String("true"), KindBool, Bool(true), false},
		{"bad bool string rejected", String("yes"), KindBool, Value{}, true},
		{"int to bool rejected", Int(1), KindBool, Value{}, true},
		{"int to string", Int(42), KindString, String("42"), false},
		{"float to string", Float(2.5), KindString, String("2.5"), false},
		{"bool to string", Bool(true), KindString, String("true"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Convert(tt.in, tt.target)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNotConvertible)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestConvert_LosslessTolerance tests the narrowing tolerance around
// non-integral floats.
func TestConvert_LosslessTolerance(t *testing.T) {
	c := Converter{Conversion: ConversionLossless, Mismatch: MismatchException}

	got, err := c.Convert(Float(5.00000000000001), KindInt)
	require.NoError(t, err)
	assert.Equal(t, Int(5), got)

	_, err = c.Convert(Float(5.001), KindInt)
	require.Error(t, err)
}

// TestConvert_AnyPermitsLossy tests that ConversionAny truncates.
func TestConvert_AnyPermitsLossy(t *testing.T) {
	c := Converter{Conversion: ConversionAny, Mismatch: MismatchException}

	got, err := c.Convert(Float(5.9), KindInt)
	require.NoError(t, err)
	assert.Equal(t, Int(5), got)
}

// TestConvert_MismatchWarning tests the log-and-absent policy.
func TestConvert_MismatchWarning(t *testing.T) {
	var buf bytes.Buffer
	c := Converter{
		Conversion: ConversionNone,
		Mismatch:   MismatchWarning,
		Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
	}

	got, err := c.Convert(String("5"), KindInt)
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())
	assert.Contains(t, buf.String(), "value conversion failed")
}

// TestConvert_MismatchWarningNilLogger tests that a nil logger keeps
// the warning path silent, including the default slog output.
func TestConvert_MismatchWarningNilLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	c := Converter{Conversion: ConversionNone, Mismatch: MismatchWarning}

	got, err := c.Convert(String("5"), KindInt)
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())
	assert.Empty(t, buf.String())
}

// TestConvert_MismatchAccept tests the silent-absent policy.
func TestConvert_MismatchAccept(t *testing.T) {
	c := Converter{Conversion: ConversionNone, Mismatch: MismatchAccept}

	got, err := c.Convert(String("5"), KindInt)
	require.NoError(t, err)
	assert.True(t, got.IsAbsent())
}

// TestConvert_PackageFunc tests the one-off helper.
func TestConvert_PackageFunc(t *testing.T) {
	got, err := Convert(String("7"), KindInt, ConversionAny, MismatchException)
	require.NoError(t, err)
	assert.Equal(t, Int(7), got)
}

// TestModeStrings tests the mode names used in logs and config.
func TestModeStrings(t *testing.T) {
	assert.Equal(t, "none", ConversionNone.String())
	assert.Equal(t, "lossless", ConversionLossless.String())
	assert.Equal(t, "any", ConversionAny.String())
	assert.Equal(t, "exception", MismatchException.String())
	assert.Equal(t, "warning", MismatchWarning.String())
	assert.Equal(t, "accept", MismatchAccept.String())
}
