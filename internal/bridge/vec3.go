package bridge

import "math"

// Vec3 is a three component vector. When attached to a locator every axis
// read refreshes from the host and every axis write goes to the host first.
type Vec3 struct {
	x, y, z float64
	at      *binding
}

func NewVec3(x, y, z float64) *Vec3 {
	return &Vec3{x: x, y: y, z: z}
}

// AttachVec3 returns a vector bound to loc. No remote call is made until a
// field is read or written.
func AttachVec3(ch Channel, loc Locator) *Vec3 {
	return &Vec3{at: bind(ch, loc)}
}

// Locator reports the remote field the vector mirrors, if any.
func (v *Vec3) Locator() (Locator, bool) { return v.at.locator() }

func (v *Vec3) X() (float64, error) { return v.at.number("x", &v.x) }
func (v *Vec3) Y() (float64, error) { return v.at.number("y", &v.y) }
func (v *Vec3) Z() (float64, error) { return v.at.number("z", &v.z) }

func (v *Vec3) SetX(n float64) error { return v.at.setNumber("x", &v.x, n) }
func (v *Vec3) SetY(n float64) error { return v.at.setNumber("y", &v.y, n) }
func (v *Vec3) SetZ(n float64) error { return v.at.setNumber("z", &v.z, n) }

// Value reads all three axes, in one round trip when attached.
func (v *Vec3) Value() (x, y, z float64, err error) {
	if v.at != nil {
		x, y, z, err = v.at.ch.GetVector3(v.at.loc)
		if err != nil {
			return 0, 0, 0, err
		}
		v.x, v.y, v.z = x, y, z
	}
	return v.x, v.y, v.z, nil
}

// Set writes all three axes, in one round trip when attached.
func (v *Vec3) Set(x, y, z float64) error {
	if v.at != nil {
		if err := v.at.ch.SetVector3(v.at.loc, x, y, z); err != nil {
			return err
		}
	}
	v.x, v.y, v.z = x, y, z
	return nil
}

// AddAssign adds rhs axis by axis. Only axes with a non-zero delta are read
// and written; the vector is never rewritten in bulk.
func (v *Vec3) AddAssign(rhs *Vec3) error {
	dx, dy, dz, err := rhs.Value()
	if err != nil {
		return err
	}
	return v.offset(dx, dy, dz)
}

func (v *Vec3) SubAssign(rhs *Vec3) error {
	dx, dy, dz, err := rhs.Value()
	if err != nil {
		return err
	}
	return v.offset(-dx, -dy, -dz)
}

func (v *Vec3) offset(dx, dy, dz float64) error {
	axes := [3]struct {
		name  string
		cache *float64
		delta float64
	}{
		{"x", &v.x, dx},
		{"y", &v.y, dy},
		{"z", &v.z, dz},
	}
	for _, a := range axes {
		if a.delta == 0 {
			continue
		}
		cur, err := v.at.number(a.name, a.cache)
		if err != nil {
			return err
		}
		if err := v.at.setNumber(a.name, a.cache, cur+a.delta); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vec3) Add(rhs *Vec3) (*Vec3, error) {
	return combine(v, rhs, func(a, b float64) float64 { return a + b })
}

func (v *Vec3) Sub(rhs *Vec3) (*Vec3, error) {
	return combine(v, rhs, func(a, b float64) float64 { return a - b })
}

func (v *Vec3) Scale(s float64) (*Vec3, error) {
	x, y, z, err := v.Value()
	if err != nil {
		return nil, err
	}
	return NewVec3(x*s, y*s, z*s), nil
}

func (v *Vec3) Dot(rhs *Vec3) (float64, error) {
	ax, ay, az, err := v.Value()
	if err != nil {
		return 0, err
	}
	bx, by, bz, err := rhs.Value()
	if err != nil {
		return 0, err
	}
	return ax*bx + ay*by + az*bz, nil
}

func (v *Vec3) Cross(rhs *Vec3) (*Vec3, error) {
	ax, ay, az, err := v.Value()
	if err != nil {
		return nil, err
	}
	bx, by, bz, err := rhs.Value()
	if err != nil {
		return nil, err
	}
	return cross(ax, ay, az, bx, by, bz), nil
}

func (v *Vec3) Magnitude() (float64, error) {
	x, y, z, err := v.Value()
	if err != nil {
		return 0, err
	}
	return math.Sqrt(x*x + y*y + z*z), nil
}

// Normalized returns an unattached unit vector. The zero vector normalizes
// to itself.
func (v *Vec3) Normalized() (*Vec3, error) {
	x, y, z, err := v.Value()
	if err != nil {
		return nil, err
	}
	return normalize(x, y, z), nil
}

func combine(a, b *Vec3, fn func(a, b float64) float64) (*Vec3, error) {
	ax, ay, az, err := a.Value()
	if err != nil {
		return nil, err
	}
	bx, by, bz, err := b.Value()
	if err != nil {
		return nil, err
	}
	return NewVec3(fn(ax, bx), fn(ay, by), fn(az, bz)), nil
}

func cross(ax, ay, az, bx, by, bz float64) *Vec3 {
	return NewVec3(ay*bz-az*by, az*bx-ax*bz, ax*by-ay*bx)
}

func normalize(x, y, z float64) *Vec3 {
	m := math.Sqrt(x*x + y*y + z*z)
	if m == 0 {
		return NewVec3(0, 0, 0)
	}
	return NewVec3(x/m, y/m, z/m)
}
