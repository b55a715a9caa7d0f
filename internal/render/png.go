package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// middleBaseline shifts a text baseline so the glyphs centre on y,
// as a fraction of the face's line height.
const middleBaseline = 0.35

type fontSet struct {
	regular, medium, bold *text.FontSource
}

var (
	fontsOnce sync.Once
	fonts     fontSet
	fontsErr  error
)

func loadFonts() (fontSet, error) {
	fontsOnce.Do(func() {
		var fs fontSet
		if fs.regular, fontsErr = text.NewFontSource(goregular.TTF); fontsErr != nil {
			return
		}
		if fs.medium, fontsErr = text.NewFontSource(gomedium.TTF); fontsErr != nil {
			return
		}
		if fs.bold, fontsErr = text.NewFontSource(gobold.TTF); fontsErr != nil {
			return
		}
		fonts = fs
	})
	return fonts, fontsErr
}

func (fs fontSet) face(weight int, size float64) text.Face {
	switch {
	case weight >= 700:
		return fs.bold.Face(size)
	case weight >= 500:
		return fs.medium.Face(size)
	default:
		return fs.regular.Face(size)
	}
}

// rasterizer paints a Document onto a gg context.
type rasterizer struct {
	doc   *Document
	dc    *gg.Context
	fonts fontSet
}

// EncodePNG rasterizes doc at 1:1 scale on a white background.
func EncodePNG(w io.Writer, doc *Document) error {
	fs, err := loadFonts()
	if err != nil {
		return fmt.Errorf("load fonts: %w", err)
	}

	dc := gg.NewContext(doc.Width, doc.Height)
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	r := &rasterizer{doc: doc, dc: dc, fonts: fs}
	for _, e := range doc.Body {
		if err := r.draw(e, nil); err != nil {
			return err
		}
	}
	return dc.EncodePNG(w)
}

func (r *rasterizer) draw(e Element, clips []string) error {
	switch el := e.(type) {
	case Group:
		inner := append(append([]string(nil), clips...), el.ClipPath)
		for _, child := range el.Children {
			if err := r.draw(child, inner); err != nil {
				return err
			}
		}
		return nil
	case Rect:
		if el.ClipPath != "" {
			clips = append(append([]string(nil), clips...), el.ClipPath)
		}
		if len(clips) > 0 {
			return r.clippedFill(el, el.Fill, clips)
		}
		return r.rect(el)
	case Circle:
		if len(clips) > 0 {
			return r.clippedFill(el, el.Fill, clips)
		}
		return r.circle(el)
	case Line:
		return r.line(el)
	case Text:
		return r.text(el)
	}
	return nil
}

// clippedFill fills shape restricted to every clip path in clips. A clip
// path is the union of convex shapes, so the visible region is a set of
// convex polygons, one per combination of clip shapes. Overlapping pieces
// share one opaque paint and leave no seams.
func (r *rasterizer) clippedFill(shape Element, fill string, clips []string) error {
	b, ok, err := r.brush(fill)
	if err != nil || !ok {
		return err
	}

	pieces := [][]point{outline(shape)}
	for _, id := range clips {
		cp, ok := r.doc.Clip(id)
		if !ok {
			return fmt.Errorf("unknown clip path %q", id)
		}
		var next [][]point
		for _, piece := range pieces {
			for _, cs := range cp.Shapes {
				if q := intersectConvex(piece, outline(cs)); q != nil {
					next = append(next, q)
				}
			}
		}
		pieces = next
	}

	r.dc.SetFillBrush(b)
	for _, poly := range pieces {
		r.dc.MoveTo(poly[0].x, poly[0].y)
		for _, p := range poly[1:] {
			r.dc.LineTo(p.x, p.y)
		}
		r.dc.ClosePath()
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}

func (r *rasterizer) pathRect(s Rect) {
	if s.RX > 0 {
		r.dc.DrawRoundedRectangle(s.X, s.Y, s.W, s.H, s.RX)
		return
	}
	r.dc.DrawRectangle(s.X, s.Y, s.W, s.H)
}

func (r *rasterizer) rect(s Rect) error {
	fill, stroke := s.Fill, s.Stroke
	if c, ok := r.doc.Class(s.Class); ok {
		if fill == "" {
			fill = c.Fill
		}
		if stroke == "" {
			stroke = c.Stroke
		}
	}
	return r.fillStroke(func() { r.pathRect(s) }, fill, stroke, s.StrokeWidth)
}

func (r *rasterizer) circle(s Circle) error {
	return r.fillStroke(func() { r.dc.DrawCircle(s.CX, s.CY, s.R) }, s.Fill, s.Stroke, s.StrokeWidth)
}

func (r *rasterizer) fillStroke(path func(), fill, stroke string, width float64) error {
	if b, ok, err := r.brush(fill); err != nil {
		return err
	} else if ok {
		path()
		r.dc.SetFillBrush(b)
		if err := r.dc.Fill(); err != nil {
			return err
		}
	}
	if b, ok, err := r.brush(stroke); err != nil {
		return err
	} else if ok {
		if width <= 0 {
			width = 1
		}
		path()
		r.dc.SetStrokeBrush(b)
		r.dc.SetLineWidth(width)
		if err := r.dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}

func (r *rasterizer) line(l Line) error {
	stroke := "#000"
	if c, ok := r.doc.Class(l.Class); ok && c.Stroke != "" {
		stroke = c.Stroke
	}
	b, ok, err := r.brush(stroke)
	if err != nil || !ok {
		return err
	}
	r.dc.SetStrokeBrush(b)
	r.dc.SetLineWidth(l.StrokeWidth)
	r.dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
	return r.dc.Stroke()
}

func (r *rasterizer) text(t Text) error {
	c, ok := r.doc.Class(t.Class)
	if !ok {
		return fmt.Errorf("unknown text class %q", t.Class)
	}
	b, ok, err := r.brush(c.Fill)
	if err != nil || !ok {
		return err
	}
	r.dc.SetFont(r.fonts.face(c.FontWeight, c.FontSize))
	r.dc.SetFillBrush(b)

	ax := 0.0
	switch t.Anchor {
	case "middle":
		ax = 0.5
	case "end":
		ax = 1
	}
	ay := 0.0
	if t.Baseline == "middle" {
		ay = middleBaseline
	}
	r.dc.DrawStringAnchored(t.Content, t.X, t.Y, ax, ay)
	return nil
}

// brush resolves a paint value. ok is false for "" and "none".
func (r *rasterizer) brush(paint string) (gg.Brush, bool, error) {
	switch {
	case paint == "" || paint == "none":
		return nil, false, nil
	case strings.HasPrefix(paint, "url(#"):
		id := strings.TrimSuffix(strings.TrimPrefix(paint, "url(#"), ")")
		g, ok := r.doc.Gradient(id)
		if !ok {
			return nil, false, fmt.Errorf("unknown gradient %q", id)
		}
		lg := gg.NewLinearGradientBrush(g.X1, g.Y1, g.X2, g.Y2)
		for _, st := range g.Stops {
			c, err := parseHex(st.Color)
			if err != nil {
				return nil, false, err
			}
			lg.AddColorStop(st.Offset, c)
		}
		return lg, true, nil
	default:
		c, err := parseHex(paint)
		if err != nil {
			return nil, false, err
		}
		return gg.Solid(c), true, nil
	}
}

func parseHex(s string) (gg.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if !strings.HasPrefix(s, "#") || (len(h) != 3 && len(h) != 6 && len(h) != 8) {
		return gg.RGBA{}, fmt.Errorf("colour %q: only #rgb, #rrggbb and #rrggbbaa are supported for raster output", s)
	}
	for _, ch := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", ch) {
			return gg.RGBA{}, fmt.Errorf("colour %q: invalid hex digit %q", s, ch)
		}
	}
	return gg.Hex(h), nil
}
