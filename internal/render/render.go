package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/seenimoa/thermometer/internal/layout"
	"github.com/seenimoa/thermometer/pkg/models"
)

// Format is an output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ErrUnknownFormat is returned for output formats other than svg and png.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat accepts "svg" or "png" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// DetectFormat derives the output format from a file extension.
// A path without an extension is SVG.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatSVG, nil
	}
	return ParseFormat(ext)
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Encode writes doc in format f.
func Encode(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatSVG:
		return EncodeSVG(w, doc)
	case FormatPNG:
		return EncodePNG(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Render validates the style, computes the layout and writes the encoded
// image to w. The layout is returned for callers that report on it.
func Render(w io.Writer, s layout.Style, data *models.FundingData, f Format) (models.Layout, error) {
	if err := s.Validate(); err != nil {
		return models.Layout{}, fmt.Errorf("invalid style: %w", err)
	}
	l := layout.Compute(s, data)
	if err := Encode(w, Assemble(s, l), f); err != nil {
		return l, fmt.Errorf("encode %s: %w", f, err)
	}
	return l, nil
}

// RenderFile renders into memory first so a failed render never leaves a
// truncated file behind. An empty format is derived from path.
func RenderFile(path string, s layout.Style, data *models.FundingData, f Format) (models.Layout, error) {
	if f == "" {
		var err error
		if f, err = DetectFormat(path); err != nil {
			return models.Layout{}, err
		}
	}
	var buf bytes.Buffer
	l, err := Render(&buf, s, data, f)
	if err != nil {
		return l, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return l, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return l, fmt.Errorf("write %s: %w", path, err)
	}
	return l, nil
}
