package cfgx

import (
	"errors"

	"github.com/go-viper/mapstructure/v2"

	"github.com/goliatone/go-taskconfig/input"
	"github.com/goliatone/go-taskconfig/value"
)

// Option configures a Build call.
type Option[T any] func(*pipeline[T])

// Validator checks the decoded value.
type Validator[T any] func(*T) error

// WithDefaults decodes over a deep copy of def. The last defaults option wins.
func WithDefaults[T any](def T) Option[T] {
	return WithDefaultFunc(func() (T, error) { return def, nil })
}

// WithDefaultFunc builds the defaults lazily.
func WithDefaultFunc[T any](fn func() (T, error)) Option[T] {
	return func(p *pipeline[T]) {
		p.defaults = fn
	}
}

// WithDefaultsTree lays the input over tree before decoding, so keys absent from
// the input take their value from tree. Unlike WithDefaults the tree may carry
// pending inputs.
func WithDefaultsTree[T any](tree value.Value) Option[T] {
	return WithPreprocess[T](PreprocessDefaults(tree))
}

// WithPreprocess appends preprocessors. They run in registration order.
func WithPreprocess[T any](pre ...Preprocessor) Option[T] {
	return func(p *pipeline[T]) {
		p.pre = append(p.pre, pre...)
	}
}

// WithPreprocessFunc registers an inline preprocessor.
func WithPreprocessFunc[T any](fn func(any) (any, error)) Option[T] {
	if fn == nil {
		return nil
	}
	return WithPreprocess[T](fn)
}

// WithMerge deep merges the sources over the input before decoding. Later
// sources win.
func WithMerge[T any](sources ...any) Option[T] {
	return WithPreprocess[T](PreprocessMerge(sources...))
}

// WithInit resolves pending inputs with a before decoding. Register it after
// WithMerge and WithDefaultsTree so overlays can replace inputs before anyone
// is asked.
func WithInit[T any](a input.Asker) Option[T] {
	return WithPreprocess[T](PreprocessInit(a))
}

// WithDecoder edits the mapstructure configuration in place.
func WithDecoder[T any](fn func(*mapstructure.DecoderConfig)) Option[T] {
	return func(p *pipeline[T]) {
		if fn != nil {
			fn(&p.decoder)
		}
	}
}

// WithDecoderConfig replaces the mapstructure configuration. Result and
// DecodeHook are always set by Build.
func WithDecoderConfig[T any](conf mapstructure.DecoderConfig) Option[T] {
	return func(p *pipeline[T]) {
		p.decoder = conf
	}
}

// WithDecodeHooks appends hooks after the default set.
func WithDecodeHooks[T any](hooks ...mapstructure.DecodeHookFunc) Option[T] {
	return func(p *pipeline[T]) {
		for _, h := range hooks {
			if h != nil {
				p.hooks = append(p.hooks, h)
			}
		}
	}
}

// WithoutDefaultHooks drops DefaultDecodeHooks from the chain.
func WithoutDefaultHooks[T any]() Option[T] {
	return func(p *pipeline[T]) {
		p.stdHooks = false
	}
}

// WithDefaultHooks restores DefaultDecodeHooks.
func WithDefaultHooks[T any]() Option[T] {
	return func(p *pipeline[T]) {
		p.stdHooks = true
	}
}

// WithStrictKeys rejects unknown keys and zeroes maps before decoding into them.
func WithStrictKeys[T any]() Option[T] {
	return WithDecoder[T](func(conf *mapstructure.DecoderConfig) {
		conf.ErrorUnused = true
		conf.ZeroFields = true
	})
}

// WithWeakTyping toggles mapstructure's weak conversions. It is on by default.
func WithWeakTyping[T any](enabled bool) Option[T] {
	return WithDecoder[T](func(conf *mapstructure.DecoderConfig) {
		conf.WeaklyTypedInput = enabled
	})
}

// WithTagName sets the struct tag. An empty tag is ignored.
func WithTagName[T any](tag string) Option[T] {
	return WithDecoder[T](func(conf *mapstructure.DecoderConfig) {
		if tag != "" {
			conf.TagName = tag
		}
	})
}

// WithValidator registers the validator. Registering a second one is an
// ErrOption failure.
func WithValidator[T any](fn Validator[T]) Option[T] {
	return func(p *pipeline[T]) {
		switch {
		case fn == nil:
		case p.validator != nil:
			p.fail(errors.New("validator already registered"))
		default:
			p.validator = fn
		}
	}
}

// WithValidatorFunc registers a validator taking the value instead of a pointer.
func WithValidatorFunc[T any](fn func(T) error) Option[T] {
	if fn == nil {
		return nil
	}
	return WithValidator(func(out *T) error {
		if out == nil {
			var zero T
			return fn(zero)
		}
		return fn(*out)
	})
}

// WithOptionError makes Build fail with err wrapped in ErrOption. Wrappers use
// it to report invalid settings of their own.
func WithOptionError[T any](err error) Option[T] {
	return func(p *pipeline[T]) {
		p.fail(err)
	}
}
