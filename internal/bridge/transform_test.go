package bridge

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransformFixture(t *testing.T) (*fakeChannel, Handle, *Transform) {
	t.Helper()
	f := newFakeChannel()
	h := f.spawn(0)
	f.putVec(h, kindTransform, "position", 1, 2, 3)
	f.putVec(h, kindTransform, "rotation", 0, 0, 0)
	f.putVec(h, kindTransform, "scale", 1, 1, 1)
	return f, h, AttachTransform(f, h.Attach(kindTransform))
}

func TestTransformPositionIsAttachedSubLocator(t *testing.T) {
	_, h, tr := newTransformFixture(t)

	pos, err := tr.Position()
	require.NoError(t, err)
	loc, ok := pos.Locator()
	require.True(t, ok)
	assert.Equal(t, h.Attach(kindTransform).Add("position"), loc)

	require.NoError(t, pos.SetX(10))
	again, err := tr.Position()
	require.NoError(t, err)
	x, _ := again.X()
	assert.Equal(t, 10.0, x)
}

func TestTransformAssignAttachesFreshVector(t *testing.T) {
	f, h, tr := newTransformFixture(t)
	fresh := NewVec3(5, 6, 7)

	require.NoError(t, tr.SetPosition(fresh))
	loc, ok := fresh.Locator()
	require.True(t, ok)
	assert.Equal(t, h.Attach(kindTransform).Add("position"), loc)

	require.NoError(t, fresh.SetX(50))
	assert.Equal(t, 50.0, f.values[fieldKey{h.Index, kindTransform, "position.x"}])
	assert.Equal(t, 6.0, f.values[fieldKey{h.Index, kindTransform, "position.y"}])
}

func TestUnattachedTransformIsLocal(t *testing.T) {
	tr := NewTransform(NewVec3(0, 0, 0), NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	v := NewVec3(1, 1, 1)
	require.NoError(t, tr.SetScale(v))
	got, err := tr.Scale()
	require.NoError(t, err)
	assert.Same(t, v, got)
	_, attached := v.Locator()
	assert.False(t, attached)
}

func TestForwardRecomputesFromFreshRotation(t *testing.T) {
	f, h, tr := newTransformFixture(t)

	fw, err := tr.Forward()
	require.NoError(t, err)
	x, y, z, _ := fw.Value()
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
	assert.InDelta(t, 1, z, 1e-9)

	f.put(h, kindTransform, "rotation.y", -math.Pi/2)
	fw, err = tr.Forward()
	require.NoError(t, err)
	x, _, z, _ = fw.Value()
	assert.InDelta(t, 1, x, 1e-9)
	assert.InDelta(t, 0, z, 1e-9)

	up, err := tr.Up()
	require.NoError(t, err)
	m, _ := up.Magnitude()
	assert.InDelta(t, 1, m, 1e-9)
}

func TestTransformErrorsPropagate(t *testing.T) {
	f, h, tr := newTransformFixture(t)
	f.spawn(h.Index)

	_, err := tr.Position()
	assert.ErrorIs(t, err, ErrStaleHandle)
	_, err = tr.Forward()
	assert.ErrorIs(t, err, ErrStaleHandle)
	assert.ErrorIs(t, tr.SetRotation(NewVec3(0, 0, 0)), ErrStaleHandle)
}

func TestNewTransformDefaultsMissingParts(t *testing.T) {
	tr := NewTransform(nil, nil, nil)

	pos, err := tr.Position()
	require.NoError(t, err)
	x, y, z, _ := pos.Value()
	assert.Equal(t, [3]float64{0, 0, 0}, [3]float64{x, y, z})
	scale, err := tr.Scale()
	require.NoError(t, err)
	x, y, z, _ = scale.Value()
	assert.Equal(t, [3]float64{1, 1, 1}, [3]float64{x, y, z})

	fwd, err := tr.Forward()
	require.NoError(t, err)
	fz, _ := fwd.Z()
	assert.InDelta(t, 1.0, fz, 1e-9)
	_, err = tr.Up()
	require.NoError(t, err)

	assert.ErrorIs(t, tr.SetRotation(nil), ErrTypeMismatch)
}
