package host

import (
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/acrogo/acro/internal/bridge"
)

// Scene is the YAML description of a starting world.
type Scene struct {
	// Records declares record kinds: kind name → field name → field type.
	Records  map[string]map[string]string `yaml:"records"`
	Entities []EntitySpec                 `yaml:"entities"`
}

type EntitySpec struct {
	Name      string                    `yaml:"name"`
	Transform *TransformSpec            `yaml:"transform"`
	Text      *TextSpec                 `yaml:"text"`
	Button    bool                      `yaml:"button"`
	Records   map[string]map[string]any `yaml:"records"`
	Behavior  *BehaviorSpec             `yaml:"behavior"`
	Children  []EntitySpec              `yaml:"children"`
}

type TransformSpec struct {
	Position []float64 `yaml:"position"`
	Rotation []float64 `yaml:"rotation"`
	Scale    []float64 `yaml:"scale"`
}

type TextSpec struct {
	Content    string   `yaml:"content"`
	FontSize   *float64 `yaml:"font_size"`
	LineHeight *float64 `yaml:"line_height"`
	Weight     *float64 `yaml:"weight"`
	Italic     bool     `yaml:"italic"`
}

type BehaviorSpec struct {
	Type string `yaml:"type"`
	Args []any  `yaml:"args"`
}

// ParseScene decodes a scene document.
func ParseScene(raw []byte) (*Scene, error) {
	var sc Scene
	if err := yaml.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}
	return &sc, nil
}

// LoadScene reads and decodes a scene file.
func LoadScene(path string) (*Scene, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return ParseScene(raw)
}

// Schemas converts the declared record kinds into field schemas. Kinds and
// fields come out in name order.
func (sc *Scene) Schemas() (map[string][]bridge.Field, error) {
	out := make(map[string][]bridge.Field, len(sc.Records))
	for kind, fields := range sc.Records {
		names := make([]string, 0, len(fields))
		for n := range fields {
			names = append(names, n)
		}
		slices.Sort(names)
		schema := make([]bridge.Field, 0, len(names))
		for _, n := range names {
			t, ok := bridge.ParseFieldType(fields[n])
			if !ok {
				return nil, fmt.Errorf("record %q field %q: unknown type %q", kind, n, fields[n])
			}
			schema = append(schema, bridge.Field{Name: n, Type: t})
		}
		out[kind] = schema
	}
	return out, nil
}

// Apply declares the scene's record kinds and spawns its entity tree. It
// must run before the component table is handed to the script context.
func (s *Store) Apply(sc *Scene) error {
	schemas, err := sc.Schemas()
	if err != nil {
		return err
	}
	kinds := make([]string, 0, len(schemas))
	for k := range schemas {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	for _, k := range kinds {
		if err := s.DefineRecord(k, schemas[k]); err != nil {
			return err
		}
	}
	for i := range sc.Entities {
		if _, err := s.spawnSpec(nil, &sc.Entities[i]); err != nil {
			return err
		}
	}
	s.log.Info("scene applied",
		zap.Int("record_kinds", len(kinds)),
		zap.Int("entities", s.EntityCount()),
	)
	return nil
}

func (s *Store) spawnSpec(parent *bridge.Handle, e *EntitySpec) (bridge.Handle, error) {
	var h bridge.Handle
	if parent == nil {
		h = s.Spawn(e.Name)
	} else {
		var err error
		if h, err = s.SpawnChild(*parent, e.Name); err != nil {
			return h, err
		}
	}
	if e.Transform != nil {
		t, err := e.Transform.build()
		if err != nil {
			return h, fmt.Errorf("entity %q: %w", e.Name, err)
		}
		if err := s.SetTransform(h, t); err != nil {
			return h, err
		}
	}
	if e.Text != nil {
		if err := s.SetText(h, e.Text.build()); err != nil {
			return h, err
		}
	}
	if e.Button {
		if err := s.AddButton(h); err != nil {
			return h, err
		}
	}
	recs := make([]string, 0, len(e.Records))
	for k := range e.Records {
		recs = append(recs, k)
	}
	slices.Sort(recs)
	for _, k := range recs {
		if err := s.AddRecord(h, k, e.Records[k]); err != nil {
			return h, fmt.Errorf("entity %q: %w", e.Name, err)
		}
	}
	if e.Behavior != nil {
		if _, err := s.AttachBehavior(h, e.Behavior.Type, e.Behavior.Args...); err != nil {
			return h, err
		}
	}
	for i := range e.Children {
		if _, err := s.spawnSpec(&h, &e.Children[i]); err != nil {
			return h, err
		}
	}
	return h, nil
}

func (t *TransformSpec) build() (Transform, error) {
	out := DefaultTransform()
	for _, f := range []struct {
		name string
		src  []float64
		dst  *Vec3
	}{
		{"position", t.Position, &out.Position},
		{"rotation", t.Rotation, &out.Rotation},
		{"scale", t.Scale, &out.Scale},
	} {
		if f.src == nil {
			continue
		}
		v, err := toVec3(f.src)
		if err != nil {
			return out, fmt.Errorf("transform %s: %w", f.name, err)
		}
		*f.dst = v
	}
	return out, nil
}

func (t *TextSpec) build() Text {
	out := DefaultText()
	out.Content = t.Content
	out.Italic = t.Italic
	if t.FontSize != nil {
		out.FontSize = *t.FontSize
	}
	if t.LineHeight != nil {
		out.LineHeight = *t.LineHeight
	}
	if t.Weight != nil {
		out.Weight = *t.Weight
	}
	return out
}
