package aob

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/aob/pattern"
	"github.com/coregx/aob/simd"
)

func TestCompile(t *testing.T) {
	n, err := Compile("67 ? AB")
	require.NoError(t, err)

	assert.Equal(t, 3, n.Len())
	assert.Equal(t, pattern.Exact(0x67), n.Unit(0))
	assert.Equal(t, pattern.Wildcard(), n.Unit(1))
	assert.Equal(t, pattern.Exact(0xAB), n.Unit(2))
	assert.Equal(t, "67 ?? AB", n.String())
	assert.Equal(t, []byte{0x67, 0x00, 0xAB}, n.Values())
	assert.Equal(t, []byte{0xFF, 0x00, 0xFF}, n.Masks())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		text   string
		reason pattern.Reason
	}{
		{"G?", pattern.InvalidDigit},
		{"A ? BB", pattern.UnexpectedToken},
		{"AAA", pattern.UnexpectedToken},
		{"???", pattern.UnexpectedToken},
		{"\"AA ? BB\"", pattern.UnexpectedToken},
		{"", pattern.UnexpectedToken},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := Compile(tt.text)
			require.Error(t, err)
			assert.ErrorIs(t, err, &pattern.ParseError{Reason: tt.reason})
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		msg, ok := r.(string)
		require.True(t, ok)
		assert.True(t, strings.HasPrefix(msg, "aob: Compile(`48 ZZ`): "), msg)
		assert.Contains(t, msg, "invalid digit")
	}()
	MustCompile("48 ZZ")
}

func TestFromBytes(t *testing.T) {
	n := FromBytes([]byte{0x48, 0xFF, 0x67}, []byte{0xFF, 0x00, 0xF0})

	assert.Equal(t, 3, n.Len())
	assert.Equal(t, []byte{0x48, 0x00, 0x60}, n.Values(), "values are normalized")
	assert.Equal(t, "48 ?? 6?", n.String())

	compiled := MustCompile("48 ?? 6?")
	assert.Equal(t, compiled.Units(), n.Units())
	assert.Equal(t, compiled.Method(), n.Method())
}

func TestFromBytesCopiesInput(t *testing.T) {
	values := []byte{0x90, 0x90}
	masks := []byte{0xFF, 0xFF}
	n := FromBytes(values, masks)

	values[0] = 0xCC
	masks[1] = 0x00
	assert.Equal(t, "90 90", n.String())

	out := n.Values()
	out[0] = 0x00
	assert.Equal(t, byte(0x90), n.Unit(0).Value)
}

func TestFromBytesPreconditions(t *testing.T) {
	assert.PanicsWithValue(t, "aob: value and mask lengths differ (2 != 1)", func() {
		FromBytes([]byte{1, 2}, []byte{0xFF})
	})
	assert.PanicsWithValue(t, "aob: empty needle", func() {
		FromBytes(nil, nil)
	})
	assert.Panics(t, func() { MustFromBytes([]byte{}, []byte{}) })
	assert.Panics(t, func() { FromUnits(nil) })
}

func TestFromUnits(t *testing.T) {
	units := []pattern.Unit{pattern.Exact(0xC3), pattern.NewUnit(0x0C, pattern.MaskLow)}
	n := FromUnits(units)
	assert.Equal(t, "C3 ?C", n.String())
	assert.Equal(t, units, n.Units())
}

func TestUnitOutOfRange(t *testing.T) {
	n := MustCompile("90")
	assert.PanicsWithValue(t, "aob: unit index 1 out of range [0, 1)", func() { n.Unit(1) })
	assert.Panics(t, func() { n.Unit(-1) })
}

func TestMethodCached(t *testing.T) {
	caps := simd.Detect()
	for _, text := range []string{"90", "48 8B 05 ?", "48 8B 05 ? ? ? ? 85 C0", strings.Repeat("CC ", 40)} {
		n := MustCompile(text)
		assert.Equal(t, simd.Select(n.Len(), caps), n.Method(), text)
		assert.LessOrEqual(t, n.Method().Width(), n.Len())
	}
}

func TestCompileWithConfig(t *testing.T) {
	config := Config{ForceMethod: true, Method: simd.SWAR32, Capabilities: simd.AllCapabilities}

	n, err := CompileWithConfig("48 8B 05 ? ? ? ? 85 C0", config)
	require.NoError(t, err)
	assert.Equal(t, simd.SWAR32, n.Method())

	// A forced width longer than the needle falls back to one that fits.
	n, err = CompileWithConfig("48 8B", config)
	require.NoError(t, err)
	assert.Equal(t, simd.Scalar, n.Method())

	_, err = CompileWithConfig("48 8B", Config{ForceMethod: true, Method: simd.Method(42)})
	var cerr *ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, "Method", cerr.Field)

	// Parse errors still come through with a valid config.
	_, err = CompileWithConfig("48 8", config)
	assert.ErrorIs(t, err, pattern.ErrInvalidPattern)
}
