package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBridgeSingleSlotPerID(t *testing.T) {
	b := NewEventBridge()
	var got []string
	b.AddListener(3, func(...any) error { got = append(got, "first"); return nil })
	b.AddListener(3, func(...any) error { got = append(got, "second"); return nil })

	require.NoError(t, b.Invoke(3))
	assert.Equal(t, []string{"second"}, got)
	assert.Equal(t, 1, b.Len())

	id := b.Listen(func(...any) error { return nil })
	assert.Equal(t, ListenerID(4), id)

	b.RemoveListener(3)
	assert.ErrorIs(t, b.Invoke(3), ErrUnknownListener)
}

func TestEmitterBindCallsHost(t *testing.T) {
	c, f := newTestContext(t)
	c.RegisterComponentKinds(map[string]ComponentKind{"Button": 9})
	h := f.spawn(2)

	btn, err := c.Button(h)
	require.NoError(t, err)

	clicks := 0
	id, err := btn.Click.Bind(func(...any) error { clicks++; return nil })
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, h.Attach(9).Add("click").Add("bind"), f.calls[0].loc)
	assert.Equal(t, []any{id}, f.calls[0].args)

	require.NoError(t, c.Events().Invoke(id))
	assert.Equal(t, 1, clicks)

	require.NoError(t, btn.Click.Unbind(id))
	assert.Equal(t, ".click.unbind", f.calls[1].loc.Path)
	assert.False(t, c.Events().Has(id))
}

func TestEmitterBindFailureForgetsListener(t *testing.T) {
	c, f := newTestContext(t)
	c.RegisterComponentKinds(map[string]ComponentKind{"Button": 9})
	h := f.spawn(2)
	btn, err := c.Button(h)
	require.NoError(t, err)
	f.spawn(2)

	_, err = btn.Click.Bind(func(...any) error { return nil })
	assert.ErrorIs(t, err, ErrStaleHandle)
	assert.Zero(t, c.Events().Len())
}

func TestUnattachedEmitterEmitsLocally(t *testing.T) {
	btn := NewButton(NewEventBridge())
	var seen []any
	_, err := btn.Click.Bind(func(args ...any) error { seen = append(seen, args...); return nil })
	require.NoError(t, err)
	require.NoError(t, btn.Click.Emit("hello"))
	assert.Equal(t, []any{"hello"}, seen)
}
