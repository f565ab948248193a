package bridge

import "math"

// Transform mirrors a transform component made of position, rotation and
// scale vectors.
type Transform struct {
	position, rotation, scale *Vec3
	at                        *binding
}

// NewTransform returns an unattached transform. Nil parts default to the
// origin, no rotation and unit scale.
func NewTransform(position, rotation, scale *Vec3) *Transform {
	if position == nil {
		position = NewVec3(0, 0, 0)
	}
	if rotation == nil {
		rotation = NewVec3(0, 0, 0)
	}
	if scale == nil {
		scale = NewVec3(1, 1, 1)
	}
	return &Transform{position: position, rotation: rotation, scale: scale}
}

// AttachTransform returns a transform bound to the component root at loc.
func AttachTransform(ch Channel, loc Locator) *Transform {
	return &Transform{
		position: AttachVec3(ch, loc.Add("position")),
		rotation: AttachVec3(ch, loc.Add("rotation")),
		scale:    AttachVec3(ch, loc.Add("scale")),
		at:       bind(ch, loc),
	}
}

func (t *Transform) Locator() (Locator, bool) { return t.at.locator() }

func (t *Transform) Position() (*Vec3, error) { return t.at.vector("position", &t.position) }
func (t *Transform) Rotation() (*Vec3, error) { return t.at.vector("rotation", &t.rotation) }
func (t *Transform) Scale() (*Vec3, error)    { return t.at.vector("scale", &t.scale) }

func (t *Transform) SetPosition(v *Vec3) error { return t.at.setVector("position", &t.position, v) }
func (t *Transform) SetRotation(v *Vec3) error { return t.at.setVector("rotation", &t.rotation, v) }
func (t *Transform) SetScale(v *Vec3) error    { return t.at.setVector("scale", &t.scale, v) }

// Forward is the unit direction the rotation faces. It is recomputed from a
// fresh rotation read on every call.
func (t *Transform) Forward() (*Vec3, error) {
	rx, ry, err := t.pitchYaw()
	if err != nil {
		return nil, err
	}
	return forward(rx, ry), nil
}

func (t *Transform) Right() (*Vec3, error) {
	_, ry, err := t.pitchYaw()
	if err != nil {
		return nil, err
	}
	return right(ry), nil
}

func (t *Transform) Up() (*Vec3, error) {
	rx, ry, err := t.pitchYaw()
	if err != nil {
		return nil, err
	}
	f, r := forward(rx, ry), right(ry)
	return cross(f.x, f.y, f.z, r.x, r.y, r.z), nil
}

func (t *Transform) pitchYaw() (float64, float64, error) {
	rot, err := t.Rotation()
	if err != nil {
		return 0, 0, err
	}
	// Rotation just refreshed the cache.
	return rot.x, rot.y, nil
}

func forward(rx, ry float64) *Vec3 {
	return normalize(
		math.Cos(-rx)*math.Sin(-ry),
		-math.Sin(-rx),
		math.Cos(-rx)*math.Cos(-ry),
	)
}

func right(ry float64) *Vec3 {
	return normalize(math.Cos(-ry), 0, -math.Sin(-ry))
}
