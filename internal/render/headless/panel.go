package headless

import "github.com/Faultbox/urdf-preview/internal/render"

// Panel is an in-memory render.Panel. Controls are kept in insertion order.
type Panel struct {
	Labels  []*Label
	Sliders []*Slider
}

// NewPanel creates an empty panel.
func NewPanel() *Panel {
	return &Panel{}
}

// AddLabel implements render.Panel.
func (p *Panel) AddLabel(text string) render.Label {
	l := &Label{text: text}
	p.Labels = append(p.Labels, l)
	return l
}

// AddSlider implements render.Panel.
func (p *Panel) AddSlider(min, max, value float32) render.Slider {
	s := &Slider{min: min, max: max, value: value}
	p.Sliders = append(p.Sliders, s)
	return s
}

// Clear implements render.Panel.
func (p *Panel) Clear() {
	p.Labels = nil
	p.Sliders = nil
}

// Label is a headless text widget.
type Label struct {
	text string
}

func (l *Label) Text() string        { return l.text }
func (l *Label) SetText(text string) { l.text = text }

// Slider is a headless numeric control. Values are clamped to its range.
type Slider struct {
	min, max, value float32
	onChange        []func(float32)
}

func (s *Slider) Min() float32   { return s.min }
func (s *Slider) Max() float32   { return s.max }
func (s *Slider) Value() float32 { return s.value }

// SetValue implements render.Slider.
func (s *Slider) SetValue(v float32) {
	if v < s.min {
		v = s.min
	}
	if v > s.max {
		v = s.max
	}
	s.value = v
	for _, fn := range s.onChange {
		fn(v)
	}
}

// OnChange implements render.Slider.
func (s *Slider) OnChange(fn func(float32)) {
	s.onChange = append(s.onChange, fn)
}
