package bridge

// Text mirrors a UI text component.
type Text struct {
	content    string
	fontSize   float64
	lineHeight float64
	weight     float64
	italic     bool
	at         *binding
}

// NewText returns an unattached text with the host's default styling.
func NewText(content string) *Text {
	return &Text{content: content, fontSize: 14, lineHeight: 16, weight: 400}
}

func AttachText(ch Channel, loc Locator) *Text {
	t := NewText("")
	t.at = bind(ch, loc)
	return t
}

func (t *Text) Locator() (Locator, bool) { return t.at.locator() }

func (t *Text) Content() (string, error)     { return t.at.str("content", &t.content) }
func (t *Text) SetContent(v string) error    { return t.at.setStr("content", &t.content, v) }
func (t *Text) FontSize() (float64, error)   { return t.at.number("font_size", &t.fontSize) }
func (t *Text) SetFontSize(v float64) error  { return t.at.setNumber("font_size", &t.fontSize, v) }
func (t *Text) LineHeight() (float64, error) { return t.at.number("line_height", &t.lineHeight) }
func (t *Text) SetLineHeight(v float64) error {
	return t.at.setNumber("line_height", &t.lineHeight, v)
}
func (t *Text) Weight() (float64, error)  { return t.at.number("weight", &t.weight) }
func (t *Text) SetWeight(v float64) error { return t.at.setNumber("weight", &t.weight, v) }
func (t *Text) Italic() (bool, error)     { return t.at.boolean("italic", &t.italic) }
func (t *Text) SetItalic(v bool) error    { return t.at.setBoolean("italic", &t.italic, v) }
