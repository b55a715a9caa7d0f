package render

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const fontStack = "system-ui,-apple-system,Segoe UI,Roboto,sans-serif"

// EncodeSVG writes doc as a standalone SVG document.
func EncodeSVG(w io.Writer, doc *Document) error {
	_, err := io.WriteString(w, SVG(doc))
	return err
}

// SVG serializes doc. One primitive per line.
func SVG(doc *Document) string {
	var sb strings.Builder
	sb.WriteString(svgHeader(doc.Width, doc.Height))
	sb.WriteByte('\n')

	writeDefs(&sb, doc)

	for _, e := range doc.Body {
		writeElement(&sb, e)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func writeDefs(sb *strings.Builder, doc *Document) {
	sb.WriteString("<defs><style>\n")
	for _, c := range doc.Classes {
		sb.WriteString("  ." + c.Name + "{")
		var decls []string
		if c.FontWeight > 0 {
			decls = append(decls, fmt.Sprintf("font:%d %spx %s", c.FontWeight, num(c.FontSize), fontStack))
		}
		if c.Fill != "" {
			decls = append(decls, "fill:"+c.Fill)
		}
		if c.Stroke != "" {
			decls = append(decls, "stroke:"+c.Stroke)
		}
		sb.WriteString(strings.Join(decls, ";"))
		sb.WriteString("}\n")
	}
	sb.WriteString("</style>\n")

	for _, g := range doc.Gradients {
		sb.WriteString(fmt.Sprintf(`<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`,
			g.ID, num(g.X1), num(g.Y1), num(g.X2), num(g.Y2)))
		for _, st := range g.Stops {
			sb.WriteString(fmt.Sprintf(`<stop offset="%s" stop-color="%s"/>`, num(st.Offset), escapeXML(st.Color)))
		}
		sb.WriteString("</linearGradient>\n")
	}

	for _, c := range doc.ClipPaths {
		sb.WriteString(`<clipPath id="` + c.ID + `">`)
		for _, s := range c.Shapes {
			writeElement(sb, s)
		}
		sb.WriteString("</clipPath>\n")
	}
	sb.WriteString("</defs>\n")
}

func writeElement(sb *strings.Builder, e Element) {
	switch el := e.(type) {
	case Rect:
		sb.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"`, num(el.X), num(el.Y), num(el.W), num(el.H)))
		if el.RX > 0 {
			sb.WriteString(fmt.Sprintf(` rx="%s" ry="%s"`, num(el.RX), num(el.RX)))
		}
		writePaint(sb, el.Class, el.Fill, el.Stroke, el.StrokeWidth)
		if el.ClipPath != "" {
			sb.WriteString(` clip-path="url(#` + el.ClipPath + `)"`)
		}
		sb.WriteString("/>")
	case Circle:
		sb.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"`, num(el.CX), num(el.CY), num(el.R)))
		writePaint(sb, "", el.Fill, el.Stroke, el.StrokeWidth)
		sb.WriteString("/>")
	case Line:
		sb.WriteString(fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"`, num(el.X1), num(el.Y1), num(el.X2), num(el.Y2)))
		writePaint(sb, el.Class, "", "", el.StrokeWidth)
		sb.WriteString("/>")
	case Text:
		sb.WriteString(fmt.Sprintf(`<text x="%s" y="%s"`, num(el.X), num(el.Y)))
		if el.Class != "" {
			sb.WriteString(` class="` + el.Class + `"`)
		}
		if el.Anchor != "" {
			sb.WriteString(` text-anchor="` + el.Anchor + `"`)
		}
		if el.Baseline != "" {
			sb.WriteString(` dominant-baseline="` + el.Baseline + `"`)
		}
		sb.WriteString(">" + escapeXML(el.Content) + "</text>")
	case Group:
		sb.WriteString("<g")
		if el.ClipPath != "" {
			sb.WriteString(` clip-path="url(#` + el.ClipPath + `)"`)
		}
		sb.WriteString(">")
		for _, child := range el.Children {
			writeElement(sb, child)
		}
		sb.WriteString("</g>")
	}
}

func writePaint(sb *strings.Builder, class, fill, stroke string, strokeWidth float64) {
	if class != "" {
		sb.WriteString(` class="` + class + `"`)
	}
	if fill != "" {
		sb.WriteString(` fill="` + escapeXML(fill) + `"`)
	}
	if stroke != "" {
		sb.WriteString(` stroke="` + escapeXML(stroke) + `"`)
	}
	if strokeWidth > 0 {
		sb.WriteString(` stroke-width="` + num(strokeWidth) + `"`)
	}
}

func svgHeader(width, height int) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		width, height, width, height)
}

// num prints a coordinate with at most two decimals and no trailing zeros.
func num(v float64) string {
	r := math.Round(v*100) / 100
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
