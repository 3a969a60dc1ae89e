package schema

import (
	"bytes"
	"errors"
)

// Format is the detected encoding of a declaration document.
type Format string

const (
	FormatFields  Format = "fields"
	FormatOpenAPI Format = "openapi"
)

// Document wraps the raw declaration payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}

	clone := append([]byte(nil), raw...)
	return Document{source: src, raw: clone}, nil
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Format sniffs whether the payload is an OpenAPI document or a plain field
// list. OpenAPI documents are recognised by their top-level "openapi" key in
// either JSON or YAML form.
func (d Document) Format() Format {
	for _, line := range bytes.Split(d.raw, []byte("\n")) {
		trimmed := bytes.TrimSpace(line)
		if bytes.HasPrefix(trimmed, []byte(`"openapi"`)) || bytes.HasPrefix(line, []byte("openapi:")) {
			return FormatOpenAPI
		}
	}
	if bytes.Contains(d.raw, []byte(`"openapi":`)) {
		return FormatOpenAPI
	}
	return FormatFields
}
