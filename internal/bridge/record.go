package bridge

import "fmt"

// Record mirrors a component whose shape is only known from its field schema.
type Record struct {
	desc    Descriptor
	numbers map[string]float64
	bools   map[string]bool
	strs    map[string]string
	vecs    map[string]*Vec3
	emits   map[string]*EventEmitter
	events  *EventBridge
	at      *binding
}

func NewRecord(desc Descriptor, events *EventBridge) *Record {
	return &Record{
		desc:    desc,
		numbers: make(map[string]float64),
		bools:   make(map[string]bool),
		strs:    make(map[string]string),
		vecs:    make(map[string]*Vec3),
		emits:   make(map[string]*EventEmitter),
		events:  events,
	}
}

func AttachRecord(ch Channel, events *EventBridge, desc Descriptor, loc Locator) *Record {
	r := NewRecord(desc, events)
	r.at = bind(ch, loc)
	return r
}

func (r *Record) Descriptor() Descriptor { return r.desc }

func (r *Record) Locator() (Locator, bool) { return r.at.locator() }

func (r *Record) field(name string) (Field, error) {
	f, ok := r.desc.Field(name)
	if !ok {
		return Field{}, fmt.Errorf("%s.%s: %w", r.desc.Name, name, ErrUnresolvedPath)
	}
	return f, nil
}

// Get reads a field. The result is a float64, bool, string, *Vec3 or
// *EventEmitter depending on the field's declared type.
func (r *Record) Get(name string) (any, error) {
	f, err := r.field(name)
	if err != nil {
		return nil, err
	}
	switch f.Type {
	case FieldNumber:
		v := r.numbers[name]
		n, err := r.at.number(name, &v)
		r.numbers[name] = v
		return n, err
	case FieldBoolean:
		v := r.bools[name]
		b, err := r.at.boolean(name, &v)
		r.bools[name] = v
		return b, err
	case FieldString:
		v := r.strs[name]
		s, err := r.at.str(name, &v)
		r.strs[name] = v
		return s, err
	case FieldVector3:
		v, ok := r.vecs[name]
		if !ok {
			v = NewVec3(0, 0, 0)
		}
		out, err := r.at.vector(name, &v)
		r.vecs[name] = v
		return out, err
	default:
		return r.emitter(name), nil
	}
}

// Set writes a field. The value must match the field's declared type;
// integers are accepted for number fields.
func (r *Record) Set(name string, value any) error {
	f, err := r.field(name)
	if err != nil {
		return err
	}
	mismatch := fmt.Errorf("%s.%s is %s, got %T: %w", r.desc.Name, name, f.Type, value, ErrTypeMismatch)
	switch f.Type {
	case FieldNumber:
		n, ok := toFloat(value)
		if !ok {
			return mismatch
		}
		v := r.numbers[name]
		err := r.at.setNumber(name, &v, n)
		r.numbers[name] = v
		return err
	case FieldBoolean:
		b, ok := value.(bool)
		if !ok {
			return mismatch
		}
		v := r.bools[name]
		err := r.at.setBoolean(name, &v, b)
		r.bools[name] = v
		return err
	case FieldString:
		s, ok := value.(string)
		if !ok {
			return mismatch
		}
		v := r.strs[name]
		err := r.at.setStr(name, &v, s)
		r.strs[name] = v
		return err
	case FieldVector3:
		vec, ok := value.(*Vec3)
		if !ok {
			return mismatch
		}
		v := r.vecs[name]
		err := r.at.setVector(name, &v, vec)
		r.vecs[name] = v
		return err
	default:
		return mismatch
	}
}

func (r *Record) emitter(name string) *EventEmitter {
	if e, ok := r.emits[name]; ok {
		return e
	}
	var e *EventEmitter
	if r.at != nil {
		e = AttachEventEmitter(r.at.ch, r.events, r.at.loc.Add(name))
	} else {
		e = NewEventEmitter(r.events)
	}
	r.emits[name] = e
	return e
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}
