package funding

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	hjson "github.com/hjson/hjson-go/v4"

	"github.com/seenimoa/thermometer/pkg/models"
)

// InputFormat selects the decoder for an input document.
type InputFormat string

const (
	FormatJSON  InputFormat = "json"
	FormatHJSON InputFormat = "hjson" // comments, unquoted keys, optional commas
)

// DetectFormat picks the decoder from a file extension.
func DetectFormat(path string) (InputFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", "":
		return FormatJSON, nil
	case ".hjson":
		return FormatHJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode reads one input document into a generic mapping.
func Decode(r io.Reader, format InputFormat) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	raw := map[string]any{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json input: %w", err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return nil, errors.New("decode json input: trailing data after document")
		}
	case FormatHJSON:
		opts := hjson.DefaultDecoderOptions()
		opts.UseJSONNumber = true
		if err := hjson.UnmarshalWithOptions(data, &raw, opts); err != nil {
			return nil, fmt.Errorf("decode hjson input: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return raw, nil
}

// Parse decodes and normalizes a document in one step.
func Parse(r io.Reader, format InputFormat) (*models.FundingData, error) {
	raw, err := Decode(r, format)
	if err != nil {
		return nil, err
	}
	return Normalize(raw)
}

// LoadFile reads and normalizes the input file at path.
func LoadFile(path string) (*models.FundingData, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close()

	data, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}
