package cfgx

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mitchellh/copystructure"

	"github.com/goliatone/go-taskconfig/value"
)

// DefaultTagName is the struct tag read while decoding, shared with the koanf
// providers that feed the pipeline.
const DefaultTagName = "koanf"

type pipeline[T any] struct {
	input     any
	defaults  func() (T, error)
	pre       []Preprocessor
	hooks     []mapstructure.DecodeHookFunc
	decoder   mapstructure.DecoderConfig
	validator Validator[T]
	stdHooks  bool
	err       error
}

func newPipeline[T any](input any) *pipeline[T] {
	return &pipeline[T]{
		input: input,
		decoder: mapstructure.DecoderConfig{
			TagName:          DefaultTagName,
			WeaklyTypedInput: true,
		},
		stdHooks: true,
	}
}

// Build decodes input into T. Input may be a value.Value tree, a pointer to one,
// a JSON document as []byte, or plain map data. The stages run in order:
// defaults, normalize, preprocess, decode and validate. A failing stage returns
// a *StageError matching its sentinel through errors.Is.
func Build[T any](input any, opts ...Option[T]) (T, error) {
	p := newPipeline[T](input)
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}

	var zero T
	if p.err != nil {
		return zero, p.err
	}
	out, err := p.run()
	if err != nil {
		return zero, err
	}
	return out, nil
}

// fail keeps the first option error.
func (p *pipeline[T]) fail(err error) {
	if p.err == nil && err != nil {
		p.err = optionError(err)
	}
}

func (p *pipeline[T]) run() (T, error) {
	out, err := p.seed()
	if err != nil {
		return out, err
	}

	data, err := decoderInput(p.input)
	if err != nil {
		return out, stageError(stageNormalize, err, nil)
	}

	if data, err = p.preprocess(data); err != nil {
		return out, err
	}

	if err := p.decode(data, &out); err != nil {
		return out, err
	}

	if p.validator != nil {
		if err := p.validator(&out); err != nil {
			return out, stageError(stageValidate, err, nil)
		}
	}
	return out, nil
}

// seed returns a deep copy of the defaults, or the zero T without any.
func (p *pipeline[T]) seed() (T, error) {
	var zero T
	if p.defaults == nil {
		return zero, nil
	}
	def, err := p.defaults()
	if err != nil {
		return zero, stageError(stageDefaults, err, nil)
	}
	copied, err := copystructure.Copy(def)
	if err != nil {
		return zero, stageError(stageDefaults, err, map[string]any{"reason": "clone"})
	}
	out, ok := copied.(T)
	if !ok {
		return zero, stageError(stageDefaults, fmt.Errorf("cfgx: copy of %T has type %T", def, copied), nil)
	}
	return out, nil
}

// preprocess runs the preprocessors in registration order. A preprocessor
// returning nil data keeps the previous data.
func (p *pipeline[T]) preprocess(data any) (any, error) {
	for idx, pre := range p.pre {
		if pre == nil {
			continue
		}
		next, err := pre(data)
		if err != nil {
			return nil, stageError(stagePreprocess, err, map[string]any{
				"preprocessor_index": idx,
			})
		}
		if next != nil {
			data = next
		}
	}
	return data, nil
}

func (p *pipeline[T]) decode(data any, out *T) error {
	conf := p.decoder
	conf.Result = decodeTarget(out)
	conf.DecodeHook = p.decodeHook()

	dec, err := mapstructure.NewDecoder(&conf)
	if err != nil {
		return stageError(stageDecode, err, map[string]any{"reason": "decoder_config"})
	}
	if err := dec.Decode(data); err != nil {
		return stageError(stageDecode, err, nil)
	}
	return nil
}

func (p *pipeline[T]) decodeHook() mapstructure.DecodeHookFunc {
	var hooks []mapstructure.DecodeHookFunc
	if p.stdHooks {
		hooks = append(hooks, DefaultDecodeHooks()...)
	}
	hooks = append(hooks, p.hooks...)

	switch len(hooks) {
	case 0:
		return nil
	case 1:
		return hooks[0]
	default:
		return mapstructure.ComposeDecodeHookFunc(hooks...)
	}
}

// decoderInput turns value trees and raw JSON documents into the generic data
// mapstructure walks. Pending inputs become their record form and are detected
// again by ValueHook when they land in a value.Value field.
func decoderInput(in any) (any, error) {
	switch v := in.(type) {
	case []byte:
		tree, err := value.ParseJSON(v)
		if err != nil {
			return nil, err
		}
		return tree.ToNative(), nil
	case json.RawMessage:
		return decoderInput([]byte(v))
	case value.Value:
		return v.ToNative(), nil
	case *value.Value:
		if v == nil {
			return nil, nil
		}
		return v.ToNative(), nil
	case value.Map:
		return value.Object(v).ToNative(), nil
	default:
		return in, nil
	}
}

// decodeTarget allocates pointer targets so Build[*Config] never decodes into nil.
func decodeTarget[T any](out *T) any {
	elem := reflect.ValueOf(out).Elem()
	if elem.Kind() != reflect.Pointer {
		return out
	}
	if elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}
	return elem.Interface()
}
