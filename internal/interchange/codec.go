package interchange

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"sigs.k8s.io/yaml"

	"github.com/pgschema/pgintrospect/internal/ir"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// Codec encodes and decodes documents in one format.
type Codec interface {
	Format() Format
	Marshal(doc *Document) ([]byte, error)
	Unmarshal(data []byte, doc *Document) error
}

var codecs = map[Format]Codec{
	FormatJSON:    jsonCodec{},
	FormatYAML:    yamlCodec{},
	FormatMsgpack: msgpackCodec{},
}

// Formats lists the supported format names.
func Formats() []string {
	names := make([]string, 0, len(codecs))
	for f := range codecs {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// CodecFor returns the codec registered for format.
func CodecFor(format string) (Codec, error) {
	c, ok := codecs[Format(strings.ToLower(format))]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return c, nil
}

// FormatForPath infers a format from a file extension.
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".msgpack", ".mp":
		return FormatMsgpack, true
	}
	return "", false
}

// Encode serializes a schema.
func Encode(s *ir.Schema, format string) ([]byte, error) {
	c, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	data, err := c.Marshal(FromSchema(s))
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema as %s: %w", c.Format(), err)
	}
	return data, nil
}

// Decode deserializes and validates a schema.
func Decode(data []byte, format string) (*ir.Schema, error) {
	c, err := CodecFor(format)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := c.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s schema: %w", c.Format(), err)
	}
	return ToSchema(&doc)
}

type jsonCodec struct{}

func (jsonCodec) Format() Format { return FormatJSON }

func (jsonCodec) Marshal(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, doc *Document) error {
	return json.Unmarshal(data, doc)
}

// yamlCodec goes through the json tags.
type yamlCodec struct{}

func (yamlCodec) Format() Format { return FormatYAML }

func (yamlCodec) Marshal(doc *Document) ([]byte, error) {
	return yaml.Marshal(doc)
}

func (yamlCodec) Unmarshal(data []byte, doc *Document) error {
	return yaml.Unmarshal(data, doc)
}

type msgpackCodec struct{}

func (msgpackCodec) Format() Format { return FormatMsgpack }

func (msgpackCodec) Marshal(doc *Document) ([]byte, error) {
	return msgpack.Marshal(doc)
}

func (msgpackCodec) Unmarshal(data []byte, doc *Document) error {
	return msgpack.Unmarshal(data, doc)
}
