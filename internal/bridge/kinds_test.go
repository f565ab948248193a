package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsResolveThroughRegisteredTable(t *testing.T) {
	k := NewKinds()
	_, ok := k.ID("Transform")
	assert.False(t, ok)

	k.Register(map[string]ComponentKind{"Transform": 4, "Text": 8})
	id, ok := k.ID("transform")
	require.True(t, ok)
	assert.Equal(t, ComponentKind(4), id)

	d, ok := k.Descriptor(8)
	require.True(t, ok)
	assert.Equal(t, "Text", d.Name)
	f, ok := d.Field("font_size")
	require.True(t, ok)
	assert.Equal(t, FieldNumber, f.Type)

	assert.Equal(t, []string{"Text", "Transform"}, k.Names())

	name, ok := k.Name(4)
	require.True(t, ok)
	assert.Equal(t, "Transform", name)

	// A later table moves the name to its new id.
	k.Register(map[string]ComponentKind{"transform": 5})
	_, ok = k.Name(4)
	assert.False(t, ok)
	id, _ = k.ID("TRANSFORM")
	assert.Equal(t, ComponentKind(5), id)
}

func TestComponentUnknownKind(t *testing.T) {
	c, f := newTestContext(t)
	h := f.spawn(0)
	_, err := c.Component(h, "Rigidbody")
	assert.ErrorIs(t, err, ErrUnknownComponentKind)

	c.RegisterComponentKinds(map[string]ComponentKind{"Rigidbody": 30})
	_, err = c.Component(h, "Rigidbody")
	assert.ErrorIs(t, err, ErrUnknownComponentKind)
}

func TestRecordDispatchesBySchema(t *testing.T) {
	c, f := newTestContext(t)
	c.Kinds().Define(Descriptor{
		Name: "Health",
		Fields: []Field{
			{"value", FieldNumber},
			{"alive", FieldBoolean},
			{"label", FieldString},
			{"knockback", FieldVector3},
		},
	})
	c.RegisterComponentKinds(map[string]ComponentKind{"Health": 12})
	h := f.spawn(0)
	f.put(h, 12, "value", 100.0)
	f.put(h, 12, "alive", true)
	f.put(h, 12, "label", "hp")
	f.putVec(h, 12, "knockback", 0, 0, 0)

	rec, err := ComponentAs[*Record](c, h, "Health")
	require.NoError(t, err)

	require.NoError(t, rec.Set("value", 75))
	v, err := rec.Get("value")
	require.NoError(t, err)
	assert.Equal(t, 75.0, v)

	assert.ErrorIs(t, rec.Set("alive", "yes"), ErrTypeMismatch)
	_, err = rec.Get("missing")
	assert.ErrorIs(t, err, ErrUnresolvedPath)

	kb := NewVec3(1, 0, 0)
	require.NoError(t, rec.Set("knockback", kb))
	require.NoError(t, kb.SetY(2))
	assert.Equal(t, 2.0, f.values[fieldKey{h.Index, 12, "knockback.y"}])
}

func TestTextProxy(t *testing.T) {
	c, f := newTestContext(t)
	c.RegisterComponentKinds(map[string]ComponentKind{"Text": 8})
	h := f.spawn(0)
	f.put(h, 8, "content", "")
	f.put(h, 8, "font_size", 14.0)
	f.put(h, 8, "line_height", 16.0)
	f.put(h, 8, "weight", 400.0)
	f.put(h, 8, "italic", false)

	txt, err := c.Text(h)
	require.NoError(t, err)
	require.NoError(t, txt.SetContent("score: 3"))
	require.NoError(t, txt.SetItalic(true))

	content, err := txt.Content()
	require.NoError(t, err)
	assert.Equal(t, "score: 3", content)
	italic, err := txt.Italic()
	require.NoError(t, err)
	assert.True(t, italic)

	_, err = txt.Weight()
	require.NoError(t, err)
	f.put(h, 8, "weight", "bold")
	_, err = txt.Weight()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	local := NewText("hi")
	size, err := local.FontSize()
	require.NoError(t, err)
	assert.Equal(t, 14.0, size)
}
