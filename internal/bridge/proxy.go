package bridge

import "fmt"

// binding ties a proxy to a remote field. A nil *binding means the proxy is a
// plain local value.
type binding struct {
	ch  Channel
	loc Locator
}

func bind(ch Channel, loc Locator) *binding {
	return &binding{ch: ch, loc: loc}
}

func (b *binding) number(field string, cache *float64) (float64, error) {
	if b != nil {
		v, err := b.ch.GetNumber(b.loc.Add(field))
		if err != nil {
			return 0, err
		}
		*cache = v
	}
	return *cache, nil
}

func (b *binding) setNumber(field string, cache *float64, v float64) error {
	if b != nil {
		if err := b.ch.SetNumber(b.loc.Add(field), v); err != nil {
			return err
		}
	}
	*cache = v
	return nil
}

func (b *binding) boolean(field string, cache *bool) (bool, error) {
	if b != nil {
		v, err := b.ch.GetBoolean(b.loc.Add(field))
		if err != nil {
			return false, err
		}
		*cache = v
	}
	return *cache, nil
}

func (b *binding) setBoolean(field string, cache *bool, v bool) error {
	if b != nil {
		if err := b.ch.SetBoolean(b.loc.Add(field), v); err != nil {
			return err
		}
	}
	*cache = v
	return nil
}

func (b *binding) str(field string, cache *string) (string, error) {
	if b != nil {
		v, err := b.ch.GetString(b.loc.Add(field))
		if err != nil {
			return "", err
		}
		*cache = v
	}
	return *cache, nil
}

func (b *binding) setStr(field string, cache *string, v string) error {
	if b != nil {
		if err := b.ch.SetString(b.loc.Add(field), v); err != nil {
			return err
		}
	}
	*cache = v
	return nil
}

// vector refreshes the vector held in field and returns it attached at the
// field's sub-locator.
func (b *binding) vector(field string, cache **Vec3) (*Vec3, error) {
	if b != nil {
		sub := b.loc.Add(field)
		x, y, z, err := b.ch.GetVector3(sub)
		if err != nil {
			return nil, err
		}
		*cache = &Vec3{x: x, y: y, z: z, at: bind(b.ch, sub)}
	}
	return *cache, nil
}

// setVector writes v through to field and then attaches v at the field's
// sub-locator, so later mutation of v is itself remote.
func (b *binding) setVector(field string, cache **Vec3, v *Vec3) error {
	if v == nil {
		return fmt.Errorf("%s: nil vector: %w", field, ErrTypeMismatch)
	}
	if b != nil {
		sub := b.loc.Add(field)
		x, y, z, err := v.Value()
		if err != nil {
			return err
		}
		if err := b.ch.SetVector3(sub, x, y, z); err != nil {
			return err
		}
		v.at = bind(b.ch, sub)
	}
	*cache = v
	return nil
}

func (b *binding) locator() (Locator, bool) {
	if b == nil {
		return Locator{}, false
	}
	return b.loc, true
}
