package rec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = Text("test")
	var _ Value = Int(42)
	var _ Value = Real(3.5)
	var _ Value = Bool(true)
	var _ Value = Null{}
	var _ Value = Blob{0x01, 0x02}
}

func TestEqual_SameKind(t *testing.T) {
	assert.True(t, Equal(Text("a"), Text("a")))
	assert.True(t, Equal(Int(42), Int(42)))
	assert.True(t, Equal(Real(1.5), Real(1.5)))
	assert.True(t, Equal(Bool(true), Bool(true)))
	assert.True(t, Equal(Null{}, Null{}))
	assert.True(t, Equal(Blob{1, 2, 3}, Blob{1, 2, 3}))

	assert.False(t, Equal(Text("a"), Text("b")))
	assert.False(t, Equal(Int(42), Int(43)))
	assert.False(t, Equal(Blob{1}, Blob{1, 2}))
}

func TestEqual_KindsNeverCross(t *testing.T) {
	// Int(1) and Bool(true) share a storage representation in SQLite but are
	// distinct values.
	assert.False(t, Equal(Int(1), Bool(true)))
	assert.False(t, Equal(Int(0), Null{}))
	assert.False(t, Equal(Text("1"), Int(1)))
	assert.False(t, Equal(Real(1), Int(1)))
	assert.False(t, Equal(Text(""), Blob{}))
}

func TestToDriver(t *testing.T) {
	assert.Equal(t, "x", ToDriver(Text("x")))
	assert.Equal(t, int64(7), ToDriver(Int(7)))
	assert.Equal(t, 2.5, ToDriver(Real(2.5)))
	assert.Equal(t, true, ToDriver(Bool(true)))
	assert.Equal(t, []byte{9}, ToDriver(Blob{9}))
	assert.Nil(t, ToDriver(Null{}))
}

func TestFromDriver_RoundTrip(t *testing.T) {
	cases := []struct {
		driver any
		want   Value
	}{
		{nil, Null{}},
		{int64(7), Int(7)},
		{2.5, Real(2.5)},
		{"x", Text("x")},
		{[]byte{1, 2}, Blob{1, 2}},
		{true, Bool(true)},
	}
	for _, tc := range cases {
		got, err := FromDriver(tc.driver)
		require.NoError(t, err)
		assert.True(t, Equal(tc.want, got), "driver value %v", tc.driver)
	}
}

func TestFromDriver_CopiesBlob(t *testing.T) {
	src := []byte{1, 2, 3}
	v, err := FromDriver(src)
	require.NoError(t, err)

	src[0] = 99
	assert.Equal(t, Blob{1, 2, 3}, v)
}

func TestFromDriver_UnsupportedType(t *testing.T) {
	_, err := FromDriver(struct{}{})
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "hello", FormatValue(Text("hello")))
	assert.Equal(t, "-3", FormatValue(Int(-3)))
	assert.Equal(t, "1.5", FormatValue(Real(1.5)))
	assert.Equal(t, "true", FormatValue(Bool(true)))
	assert.Equal(t, "null", FormatValue(Null{}))
	assert.Equal(t, "0xdead", FormatValue(Blob{0xde, 0xad}))
}
