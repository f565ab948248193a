package bridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kindTransform ComponentKind = 1

func TestUnattachedVec3IsLocal(t *testing.T) {
	v := NewVec3(1, 2, 3)

	x1, err := v.X()
	require.NoError(t, err)
	x2, err := v.X()
	require.NoError(t, err)
	assert.Equal(t, x1, x2)

	require.NoError(t, v.SetY(5))
	require.NoError(t, v.AddAssign(NewVec3(1, 0, 0)))
	x, y, z, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, [3]float64{2, 5, 3}, [3]float64{x, y, z})

	_, attached := v.Locator()
	assert.False(t, attached)
}

func TestAttachedVec3RoundTrip(t *testing.T) {
	f := newFakeChannel()
	h := f.spawn(0)
	f.putVec(h, kindTransform, "position", 0, 0, 0)
	loc := h.Attach(kindTransform).Add("position")
	v := AttachVec3(f, loc)

	for _, n := range []float64{1.5, -3, 0, math.MaxFloat64} {
		require.NoError(t, v.SetZ(n))
		got, err := v.Z()
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	require.NoError(t, v.Set(4, 5, 6))
	x, y, z, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, [3]float64{4, 5, 6}, [3]float64{x, y, z})
}

func TestAttachedVec3ReadsRefreshFromHost(t *testing.T) {
	f := newFakeChannel()
	h := f.spawn(0)
	f.putVec(h, kindTransform, "position", 1, 2, 3)
	v := AttachVec3(f, h.Attach(kindTransform).Add("position"))

	a, err := v.Y()
	require.NoError(t, err)
	b, err := v.Y()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	f.put(h, kindTransform, "position.y", 9.0)
	c, err := v.Y()
	require.NoError(t, err)
	assert.Equal(t, 9.0, c)
}

func TestAddAssignWritesOnlyChangedAxes(t *testing.T) {
	f := newFakeChannel()
	h := f.spawn(0)
	f.putVec(h, kindTransform, "position", 1, 2, 3)
	ch := NewCountingChannel(f)
	v := AttachVec3(ch, h.Attach(kindTransform).Add("position"))

	require.NoError(t, v.AddAssign(NewVec3(1, 0, 0)))
	assert.Equal(t, 1, ch.Count(OpGetNumber))
	assert.Equal(t, 1, ch.Count(OpSetNumber))
	assert.Equal(t, 0, ch.Count(OpSetVector3))
	assert.Equal(t, 0, ch.Count(OpGetVector3))

	x, y, z, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, [3]float64{2, 2, 3}, [3]float64{x, y, z})
}

func TestStaleHandleNeverTouchesNewOccupant(t *testing.T) {
	f := newFakeChannel()
	h1 := f.spawn(4)
	f.putVec(h1, kindTransform, "position", 1, 1, 1)
	old := AttachVec3(f, h1.Attach(kindTransform).Add("position"))

	h2 := f.spawn(4)
	f.putVec(h2, kindTransform, "position", 7, 7, 7)
	assert.Equal(t, h1.Generation+1, h2.Generation)

	_, err := old.X()
	assert.ErrorIs(t, err, ErrStaleHandle)
	assert.ErrorIs(t, old.SetX(100), ErrStaleHandle)

	fresh := AttachVec3(f, h2.Attach(kindTransform).Add("position"))
	x, err := fresh.X()
	require.NoError(t, err)
	assert.Equal(t, 7.0, x)
}

func TestVec3Math(t *testing.T) {
	a := NewVec3(1, 0, 0)
	b := NewVec3(0, 1, 0)

	c, err := a.Cross(b)
	require.NoError(t, err)
	x, y, z, _ := c.Value()
	assert.Equal(t, [3]float64{0, 0, 1}, [3]float64{x, y, z})

	d, err := a.Dot(b)
	require.NoError(t, err)
	assert.Zero(t, d)

	n, err := NewVec3(3, 0, 4).Normalized()
	require.NoError(t, err)
	m, err := n.Magnitude()
	require.NoError(t, err)
	assert.InDelta(t, 1, m, 1e-12)

	zero, err := NewVec3(0, 0, 0).Normalized()
	require.NoError(t, err)
	m, _ = zero.Magnitude()
	assert.Zero(t, m)
}
