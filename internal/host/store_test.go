package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acrogo/acro/internal/bridge"
	"github.com/acrogo/acro/internal/core/event"
)

func newTestStore(t *testing.T) (*Store, *event.Bus) {
	t.Helper()
	bus := event.NewBus()
	return NewStore(bus, zap.NewNop()), bus
}

func kindOf(t *testing.T, s *Store, name string) bridge.ComponentKind {
	t.Helper()
	k, ok := s.ComponentKinds()[name]
	require.True(t, ok, "kind %s not registered", name)
	return k
}

func TestTransformRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	h := s.Spawn("Player")
	tr := bridge.AttachTransform(s, h.Attach(kindOf(t, s, "Transform")))

	pos, err := tr.Position()
	require.NoError(t, err)
	require.NoError(t, pos.Set(1, 2, 3))
	require.NoError(t, pos.SetY(5))

	x, y, z, err := s.GetVector3(h.AttachPath(kindOf(t, s, "Transform"), "position"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 5, 3}, []float64{x, y, z})

	scale, err := tr.Scale()
	require.NoError(t, err)
	sx, err := scale.X()
	require.NoError(t, err)
	assert.Equal(t, 1.0, sx)
}

func TestStaleHandleAfterReuse(t *testing.T) {
	s, _ := newTestStore(t)
	k := kindOf(t, s, "Transform")
	old := s.Spawn("A")
	require.NoError(t, s.Destroy(old))
	s.Flush()

	fresh := s.Spawn("B")
	assert.Equal(t, old.Index, fresh.Index)
	assert.Equal(t, old.Generation+1, fresh.Generation)

	_, err := s.GetNumber(old.AttachPath(k, "position.x"))
	assert.ErrorIs(t, err, bridge.ErrStaleHandle)
	assert.ErrorIs(t, s.SetNumber(old.AttachPath(k, "position.x"), 1), bridge.ErrStaleHandle)

	_, err = s.GetNumber(fresh.AttachPath(k, "position.x"))
	assert.NoError(t, err)
}

func TestResolveFailures(t *testing.T) {
	s, _ := newTestStore(t)
	h := s.Spawn("A")
	tk := kindOf(t, s, "Transform")

	_, err := s.GetString(h.AttachPath(tk, "position.x"))
	assert.ErrorIs(t, err, bridge.ErrTypeMismatch)

	_, err = s.GetNumber(h.AttachPath(tk, "position"))
	assert.ErrorIs(t, err, bridge.ErrTypeMismatch)

	_, err = s.GetNumber(h.AttachPath(tk, "position.w"))
	assert.ErrorIs(t, err, bridge.ErrUnresolvedPath)

	_, err = s.GetString(h.AttachPath(kindOf(t, s, "Text"), "content"))
	assert.ErrorIs(t, err, bridge.ErrUnknownComponentKind)

	_, err = s.GetNumber(h.AttachPath(99, "x"))
	assert.ErrorIs(t, err, bridge.ErrUnknownComponentKind)

	var fe *bridge.FieldError
	_, err = s.GetNumber(h.AttachPath(tk, "nope"))
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "getNumber", fe.Op)
	assert.Equal(t, "nope", fe.Loc.Path)
}

func TestLeadingDotPaths(t *testing.T) {
	s, _ := newTestStore(t)
	h := s.Spawn("A")
	loc := h.Attach(kindOf(t, s, "Transform")).Add("rotation").Add("y")
	assert.Equal(t, ".rotation.y", loc.Path)
	require.NoError(t, s.SetNumber(loc, 0.5))
	n, err := s.GetNumber(h.AttachPath(kindOf(t, s, "Transform"), "rotation.y"))
	require.NoError(t, err)
	assert.Equal(t, 0.5, n)
}

func TestTextFields(t *testing.T) {
	s, _ := newTestStore(t)
	h := s.Spawn("Label")
	require.NoError(t, s.SetText(h, DefaultText()))
	txt := bridge.AttachText(s, h.Attach(kindOf(t, s, "Text")))

	require.NoError(t, txt.SetContent("hello"))
	require.NoError(t, txt.SetItalic(true))
	size, err := txt.FontSize()
	require.NoError(t, err)
	assert.Equal(t, 14.0, size)

	got, err := s.GetString(h.AttachPath(kindOf(t, s, "Text"), "content"))
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	italic, err := s.GetBoolean(h.AttachPath(kindOf(t, s, "Text"), "italic"))
	require.NoError(t, err)
	assert.True(t, italic)
}

func TestLookupEntityByAbsolutePath(t *testing.T) {
	s, _ := newTestStore(t)
	root := s.Spawn("UI")
	panel, err := s.SpawnChild(root, "Panel")
	require.NoError(t, err)
	ok, err := s.SpawnChild(panel, "Ok")
	require.NoError(t, err)

	got, found := s.LookupEntityByAbsolutePath("/UI/Panel/Ok")
	require.True(t, found)
	assert.Equal(t, ok, got)

	got, found = s.LookupEntityByAbsolutePath("/UI")
	require.True(t, found)
	assert.Equal(t, root, got)

	_, found = s.LookupEntityByAbsolutePath("/UI/Missing")
	assert.False(t, found)
	_, found = s.LookupEntityByAbsolutePath("UI/Panel")
	assert.False(t, found)
	_, found = s.LookupEntityByAbsolutePath("/")
	assert.False(t, found)

	p, found := s.Path(ok)
	require.True(t, found)
	assert.Equal(t, "/UI/Panel/Ok", p)
}

func TestButtonBindAndClick(t *testing.T) {
	s, bus := newTestStore(t)
	h := s.Spawn("Ok")
	require.NoError(t, s.AddButton(h))
	events := bridge.NewEventBridge()
	btn := bridge.AttachButton(s, events, h.Attach(kindOf(t, s, "Button")))

	id, err := btn.Click.Bind(func(...any) error { return nil })
	require.NoError(t, err)

	b, _ := s.buttons.Get(toEntity(h))
	assert.Equal(t, []bridge.ListenerID{id}, b.Click.Listeners)

	require.NoError(t, s.Click(h))
	assert.Equal(t, 1, event.Pending[event.ButtonClicked](bus))

	var got []event.ButtonClicked
	event.Subscribe(bus, func(ev event.ButtonClicked) { got = append(got, ev) })
	bus.SwapBuffers()
	bus.DispatchAll()
	require.Len(t, got, 1)
	assert.Equal(t, uint32(id), got[0].Listener)

	require.NoError(t, btn.Click.Unbind(id))
	assert.Empty(t, b.Click.Listeners)
}

func TestBindWithoutButtonFails(t *testing.T) {
	s, _ := newTestStore(t)
	h := s.Spawn("Plain")
	events := bridge.NewEventBridge()
	btn := bridge.AttachButton(s, events, h.Attach(kindOf(t, s, "Button")))

	_, err := btn.Click.Bind(func(...any) error { return nil })
	assert.ErrorIs(t, err, bridge.ErrUnknownComponentKind)
	assert.Equal(t, 0, events.Len())
}

func TestDestroyTree(t *testing.T) {
	s, bus := newTestStore(t)
	root := s.Spawn("Root")
	child, err := s.SpawnChild(root, "Child")
	require.NoError(t, err)
	other := s.Spawn("Other")

	rootID, err := s.AttachBehavior(root, "Spin")
	require.NoError(t, err)
	childID, err := s.AttachBehavior(child, "Spin", 2.0)
	require.NoError(t, err)
	assert.Len(t, s.PendingBehaviors(), 2)
	assert.Empty(t, s.PendingBehaviors())

	_, err = s.AttachBehavior(root, "Other")
	assert.Error(t, err)

	require.NoError(t, s.Destroy(root))
	// Queued entities stay addressable until the flush.
	_, found := s.LookupEntityByAbsolutePath("/Root/Child")
	assert.True(t, found)

	assert.ElementsMatch(t, []bridge.InstanceID{rootID, childID}, s.Flush())
	assert.Equal(t, 2, event.Pending[event.EntityDestroyed](bus))
	assert.Equal(t, 1, s.EntityCount())

	_, found = s.LookupEntityByAbsolutePath("/Root")
	assert.False(t, found)
	_, found = s.LookupEntityByAbsolutePath("/Other")
	assert.True(t, found)
	_, ok := s.Behavior(child)
	assert.False(t, ok)
	assert.Empty(t, s.Flush())
	assert.NoError(t, s.Destroy(other))
}

func TestRecordFields(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.DefineRecord("Health", []bridge.Field{
		{Name: "hp", Type: bridge.FieldNumber},
		{Name: "home", Type: bridge.FieldVector3},
	}))
	h := s.Spawn("Hero")
	require.NoError(t, s.AddRecord(h, "Health", map[string]any{"hp": 10, "home": []any{1, 2.5, 3}}))
	k := kindOf(t, s, "Health")

	hp, err := s.GetNumber(h.AttachPath(k, "hp"))
	require.NoError(t, err)
	assert.Equal(t, 10.0, hp)
	y, err := s.GetNumber(h.AttachPath(k, "home.y"))
	require.NoError(t, err)
	assert.Equal(t, 2.5, y)

	assert.ErrorIs(t, s.AddRecord(h, "Health", map[string]any{"hp": "lots"}), bridge.ErrTypeMismatch)
	assert.ErrorIs(t, s.AddRecord(h, "Health", map[string]any{"mana": 1}), bridge.ErrUnresolvedPath)
	assert.ErrorIs(t, s.AddRecord(h, "Mana", nil), bridge.ErrUnknownComponentKind)
	assert.Error(t, s.DefineRecord("Health", nil))

	descs := s.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "Node", descs[0].Name)
	assert.Equal(t, "Health", descs[1].Name)
}
