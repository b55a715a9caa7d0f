// Package render assembles a thermometer layout into drawing primitives and
// encodes them as a self-contained SVG document or a rasterized PNG.
package render

import "github.com/seenimoa/thermometer/internal/layout"

// Element is one drawing primitive in document order.
type Element interface {
	element()
}

// Rect is a rectangle with optional corner rounding.
type Rect struct {
	X, Y, W, H  float64
	RX          float64
	Class       string
	Fill        string // colour, "none" or "url(#id)"
	Stroke      string
	StrokeWidth float64
	ClipPath    string // clip path id
}

// Circle is a filled and/or stroked circle.
type Circle struct {
	CX, CY, R   float64
	Fill        string
	Stroke      string
	StrokeWidth float64
}

// Line is a straight stroke.
type Line struct {
	X1, Y1, X2, Y2 float64
	Class          string
	StrokeWidth    float64
}

// Text is a single line of text. Y is the baseline unless Baseline says otherwise.
type Text struct {
	X, Y     float64
	Class    string
	Anchor   string // "", "middle", "end"
	Baseline string // "", "middle"
	Content  string
}

// Group applies a clip path to its children.
type Group struct {
	ClipPath string
	Children []Element
}

func (Rect) element()   {}
func (Circle) element() {}
func (Line) element()   {}
func (Text) element()   {}
func (Group) element()  {}

// ClipPath is a named clip region: the union of its shapes.
type ClipPath struct {
	ID     string
	Shapes []Element // Rect or Circle
}

// LinearGradient is a gradient in user space from (X1,Y1) to (X2,Y2).
type LinearGradient struct {
	ID             string
	X1, Y1, X2, Y2 float64
	Stops          []layout.GradientStop
}

// StyleClass is a reusable text or stroke class in the style block.
type StyleClass struct {
	Name       string
	FontWeight int     // 0 for non-text classes
	FontSize   float64 // px
	Fill       string
	Stroke     string
}

// Document is a complete vector image.
type Document struct {
	Width, Height int
	Classes       []StyleClass
	ClipPaths     []ClipPath
	Gradients     []LinearGradient
	Body          []Element
}

// Class looks up a style class by name.
func (d *Document) Class(name string) (StyleClass, bool) {
	for _, c := range d.Classes {
		if c.Name == name {
			return c, true
		}
	}
	return StyleClass{}, false
}

// Clip looks up a clip path by id.
func (d *Document) Clip(id string) (ClipPath, bool) {
	for _, c := range d.ClipPaths {
		if c.ID == id {
			return c, true
		}
	}
	return ClipPath{}, false
}

// Gradient looks up a gradient by id.
func (d *Document) Gradient(id string) (LinearGradient, bool) {
	for _, g := range d.Gradients {
		if g.ID == id {
			return g, true
		}
	}
	return LinearGradient{}, false
}
