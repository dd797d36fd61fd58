package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/goliatone/go-taskconfig/value"
)

// Format is a configuration file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatHCL  Format = "hcl"
)

func (f Format) String() string {
	return string(f)
}

func (f Format) Valid() error {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML, FormatHCL:
		return nil
	default:
		return errors.New("invalid config file type", errors.CategoryValidation).
			WithTextCode("INVALID_FILE_TYPE").
			WithMetadata(map[string]any{
				"file_type": string(f),
				"valid_types": []string{
					string(FormatJSON),
					string(FormatYAML),
					string(FormatTOML),
					string(FormatHCL),
				},
			})
	}
}

// Decode parses data into a tree. Blank input decodes to Null so empty files
// contribute nothing. JSON and YAML keep the integer and float distinction of
// the source; TOML goes through the koanf parser.
func (f Format) Decode(data []byte) (value.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return value.Null(), nil
	}
	switch f {
	case FormatJSON:
		return value.ParseJSON(data)
	case FormatYAML:
		return value.ParseYAML(data)
	case FormatTOML:
		m, err := toml.Parser().Unmarshal(data)
		if err != nil {
			return value.Value{}, err
		}
		return value.FromNative(m)
	case FormatHCL:
		return decodeHCL(data)
	default:
		return value.Value{}, f.Valid()
	}
}

// Encode writes a tree in the format. HCL cannot be written.
func (f Format) Encode(v value.Value) ([]byte, error) {
	switch f {
	case FormatJSON:
		raw, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return nil, err
		}
		out.WriteByte('\n')
		return out.Bytes(), nil
	case FormatYAML:
		return yamlv3.Marshal(v)
	case FormatTOML:
		m, ok := v.ToNative().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("config: toml needs an object root, got %s", v.Kind())
		}
		return toml.Parser().Marshal(m)
	case FormatHCL:
		return nil, errors.New("encoding is not supported for this format", errors.CategoryBadInput).
			WithTextCode("UNSUPPORTED_ENCODING").
			WithMetadata(map[string]any{
				"file_type": string(f),
			})
	default:
		return nil, f.Valid()
	}
}

// Parser returns a koanf.Parser for the format. YAML and TOML use the koanf
// parsers; JSON and HCL go through Decode and Encode so numbers keep their kind.
func (f Format) Parser() koanf.Parser {
	switch f {
	case FormatYAML:
		return yaml.Parser()
	case FormatTOML:
		return toml.Parser()
	case FormatJSON, FormatHCL:
		return valueParser{format: f}
	default:
		panic(fmt.Errorf("invalid config file type: %s", f))
	}
}

type valueParser struct {
	format Format
}

func (p valueParser) Unmarshal(b []byte) (map[string]any, error) {
	v, err := p.format.Decode(b)
	if err != nil {
		return nil, err
	}
	if v.IsNull() {
		return map[string]any{}, nil
	}
	m, ok := v.ToNative().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config: %s document root is %s, want object", p.format, v.Kind())
	}
	return m, nil
}

func (p valueParser) Marshal(m map[string]any) ([]byte, error) {
	v, err := value.FromNative(m)
	if err != nil {
		return nil, err
	}
	return p.format.Encode(v)
}

// decodeHCL reads top level attributes. Blocks are not supported.
func decodeHCL(data []byte) (value.Value, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return value.Value{}, diags
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return value.Value{}, diags
	}

	out := value.New()
	for name, attr := range attrs {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return value.Value{}, diags
		}
		item, err := value.FromCty(v)
		if err != nil {
			return value.Value{}, fmt.Errorf("config: hcl attribute %s: %w", name, err)
		}
		out.Insert(name, item)
	}
	return out, nil
}

// SaveTree writes tree to path in the format inferred from its extension.
func SaveTree(path string, tree value.Value) error {
	format := InferFormat(path)
	data, err := format.Encode(tree)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to write configuration file").
			WithTextCode("FILE_WRITE_FAILED").
			WithMetadata(map[string]any{
				"filepath":  path,
				"file_type": string(format),
			})
	}
	return nil
}

// InferFormat picks a format from the file extension, falling back to the
// given default or JSON.
func InferFormat(path string, defaultFormat ...Format) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	}

	if len(defaultFormat) > 0 {
		return defaultFormat[0]
	}

	return FormatJSON
}
